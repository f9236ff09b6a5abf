// internal/services/settings_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tonearm/tonearm-backend/internal/models"
)

func TestNormalizeCurrencyOverrides(t *testing.T) {
	overrides := normalizeCurrencyOverrides(map[string]float64{
		"EUR": 5,
		"gbp": 8,
		"Jpy": 3,
	})

	assert.Equal(t, 5.0, overrides["eur"])
	assert.Equal(t, 8.0, overrides["gbp"])
	assert.Equal(t, 3.0, overrides["jpy"])
	assert.NotContains(t, overrides, "EUR")
}

func TestUppercaseOverrideSubmissionStillMatchesFeeLookup(t *testing.T) {
	settings := &models.PlatformSettings{
		PlatformPercent:   10,
		CurrencyOverrides: normalizeCurrencyOverrides(map[string]float64{"EUR": 5}),
	}

	assert.InDelta(t, 0.05, platformPercent(settings, "EUR", nil), 1e-9)
	assert.InDelta(t, 0.05, platformPercent(settings, "eur", nil), 1e-9)
}
