// internal/services/fee_service.go
package services

import (
	"math"
	"strings"

	"github.com/tonearm/tonearm-backend/internal/models"
)

// Currencies exempt from the platform cut.
var feeExemptCurrencies = map[string]bool{
	"brl": true,
	"mxn": true,
}

const defaultPlatformPercent = 7.0

// FeeService computes the platform's cut of a sale. It has no side effects;
// platform settings are fetched per call through the settings provider.
type FeeService struct {
	settings *SettingsService
}

func NewFeeService(settings *SettingsService) *FeeService {
	return &FeeService{settings: settings}
}

// PlatformPercent returns the platform cut as a fraction in [0,1]. BRL and
// MXN are exempt regardless of any override. Otherwise the per-sale override
// wins, then the settings currency override, then the settings default.
func (s *FeeService) PlatformPercent(currency string, overridePercent *float64) (float64, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return 0, err
	}
	return platformPercent(settings, currency, overridePercent), nil
}

// AppFee returns the platform cut of price in minor currency units, rounded
// to the nearest unit. It never returns a negative or NaN-derived value.
// An override above 100% is not capped; override ranges are validated where
// they are persisted, not here.
func (s *FeeService) AppFee(price int64, currency string, overridePercent *float64) (int64, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return 0, err
	}
	return appFee(price, platformPercent(settings, currency, overridePercent)), nil
}

func platformPercent(settings *models.PlatformSettings, currency string, overridePercent *float64) float64 {
	currency = strings.ToLower(currency)

	if feeExemptCurrencies[currency] {
		return 0
	}

	percent := defaultPlatformPercent
	if settings != nil {
		percent = settings.PlatformPercent
		if override, ok := settings.OverrideFor(currency); ok {
			percent = override
		}
	}
	if overridePercent != nil {
		percent = *overridePercent
	}

	return percent / 100
}

func appFee(price int64, percent float64) int64 {
	fee := math.Round(float64(price) * percent)
	if math.IsNaN(fee) || fee < 0 {
		return 0
	}
	return int64(fee)
}
