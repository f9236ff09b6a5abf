// internal/models/settings.go
package models

// PlatformSettings is a singleton row created lazily on first read. The
// currency_overrides map holds per-currency platform fee percents keyed by
// lowercase ISO code.
type PlatformSettings struct {
	BaseModel
	PlatformPercent   float64 `json:"platform_percent" gorm:"not null;default:7"`
	CurrencyOverrides JSONB   `json:"currency_overrides" gorm:"type:jsonb"`
	InstanceName      string  `json:"instance_name" gorm:"size:255;default:'Tonearm'"`
}

// OverrideFor returns the configured percent for a currency, if any.
func (s *PlatformSettings) OverrideFor(currency string) (float64, bool) {
	if s.CurrencyOverrides == nil {
		return 0, false
	}
	value, ok := s.CurrencyOverrides[currency]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
