// internal/services/fee_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tonearm/tonearm-backend/internal/models"
)

func TestPlatformPercentDefaults(t *testing.T) {
	percent := platformPercent(nil, "usd", nil)
	assert.InDelta(t, 0.07, percent, 1e-9)
}

func TestPlatformPercentExemptCurrencies(t *testing.T) {
	settings := &models.PlatformSettings{PlatformPercent: 15}
	override := 20.0

	// BRL and MXN pay no platform cut, no matter what is configured
	assert.Zero(t, platformPercent(settings, "brl", &override))
	assert.Zero(t, platformPercent(settings, "BRL", &override))
	assert.Zero(t, platformPercent(settings, "mxn", nil))
	assert.Zero(t, platformPercent(nil, "MXN", nil))
}

func TestPlatformPercentPrecedence(t *testing.T) {
	settings := &models.PlatformSettings{
		PlatformPercent:   10,
		CurrencyOverrides: models.JSONB{"eur": 5.0},
	}

	// Settings default applies where nothing more specific matches
	assert.InDelta(t, 0.10, platformPercent(settings, "usd", nil), 1e-9)

	// Currency override beats the settings default
	assert.InDelta(t, 0.05, platformPercent(settings, "eur", nil), 1e-9)
	assert.InDelta(t, 0.05, platformPercent(settings, "EUR", nil), 1e-9)

	// Per-sale override beats both
	override := 3.0
	assert.InDelta(t, 0.03, platformPercent(settings, "eur", &override), 1e-9)
}

func TestPlatformPercentZeroSettingsHonored(t *testing.T) {
	// An operator who configures 0% gets 0%, not the fallback
	settings := &models.PlatformSettings{PlatformPercent: 0}
	assert.Zero(t, platformPercent(settings, "usd", nil))
	assert.Equal(t, int64(0), appFee(1000, platformPercent(settings, "usd", nil)))
}

func TestAppFeeRounding(t *testing.T) {
	// 7% of 999 is 69.93, rounded to the nearest minor unit
	assert.Equal(t, int64(70), appFee(999, 0.07))
	assert.Equal(t, int64(70), appFee(1000, 0.07))
	assert.Equal(t, int64(7), appFee(100, 0.07))
	assert.Equal(t, int64(0), appFee(0, 0.07))
}

func TestAppFeeNeverNegative(t *testing.T) {
	assert.Equal(t, int64(0), appFee(1000, -0.5))
	assert.Equal(t, int64(0), appFee(-1000, 0.07))
}

func TestAppFeeAboveFullPriceNotCapped(t *testing.T) {
	// A percent over 100 is honored as configured
	assert.Equal(t, int64(1500), appFee(1000, 1.5))
}
