// internal/services/settings_service.go
package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tonearm/tonearm-backend/internal/config"
	"github.com/tonearm/tonearm-backend/internal/models"
)

// SettingsService owns the platform settings singleton. The row is created
// lazily on first read with the configured default fee percent, so a fresh
// deployment works without any seeding step.
type SettingsService struct {
	db     *gorm.DB
	config *config.Config
}

func NewSettingsService(db *gorm.DB, config *config.Config) *SettingsService {
	return &SettingsService{
		db:     db,
		config: config,
	}
}

func (s *SettingsService) Get() (*models.PlatformSettings, error) {
	var settings models.PlatformSettings
	err := s.db.
		Attrs(models.PlatformSettings{
			PlatformPercent: s.config.Payment.PlatformFeePercent,
		}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load platform settings: %w", err)
	}
	return &settings, nil
}

type UpdateSettingsRequest struct {
	PlatformPercent   *float64           `json:"platform_percent" validate:"omitempty,min=0"`
	CurrencyOverrides map[string]float64 `json:"currency_overrides"`
	InstanceName      *string            `json:"instance_name" validate:"omitempty,max=255"`
}

func (s *SettingsService) Update(req *UpdateSettingsRequest) (*models.PlatformSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	if req.PlatformPercent != nil {
		settings.PlatformPercent = *req.PlatformPercent
	}
	if req.CurrencyOverrides != nil {
		settings.CurrencyOverrides = normalizeCurrencyOverrides(req.CurrencyOverrides)
	}
	if req.InstanceName != nil {
		settings.InstanceName = *req.InstanceName
	}

	if err := s.db.Save(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to update platform settings: %w", err)
	}
	return settings, nil
}

// Override keys are stored lowercase; fee lookups lowercase the currency
// before consulting them.
func normalizeCurrencyOverrides(overrides map[string]float64) models.JSONB {
	normalized := make(models.JSONB, len(overrides))
	for currency, percent := range overrides {
		normalized[strings.ToLower(currency)] = percent
	}
	return normalized
}
