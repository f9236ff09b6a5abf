// internal/models/fundraiser_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFundraiserExpired(t *testing.T) {
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fundraiser := Fundraiser{EndDate: deadline}

	assert.False(t, fundraiser.Expired(deadline.Add(-time.Hour)))
	assert.False(t, fundraiser.Expired(deadline))
	assert.True(t, fundraiser.Expired(deadline.Add(time.Second)))
}

func TestPledgeStates(t *testing.T) {
	now := time.Now()

	pledge := Pledge{}
	assert.True(t, pledge.Active())
	assert.False(t, pledge.Realized())

	pledge.PaidAt = &now
	assert.True(t, pledge.Active())
	assert.True(t, pledge.Realized())

	cancelled := Pledge{CancelledAt: &now}
	assert.False(t, cancelled.Active())
	assert.False(t, cancelled.Realized())
}

func TestProgressFor(t *testing.T) {
	progress := ProgressFor(100000, 25000)
	assert.Equal(t, int64(25000), progress.ActiveTotal)
	assert.Equal(t, 25, progress.Percent)
	assert.InDelta(t, 25.0, progress.RawPercent, 1e-9)
}

func TestProgressForOverfunded(t *testing.T) {
	// Display percent is clamped, the raw ratio keeps going
	progress := ProgressFor(100000, 150000)
	assert.Equal(t, 100, progress.Percent)
	assert.InDelta(t, 150.0, progress.RawPercent, 1e-9)
}

func TestProgressForExactGoal(t *testing.T) {
	progress := ProgressFor(100000, 100000)
	assert.Equal(t, 100, progress.Percent)
	assert.InDelta(t, 100.0, progress.RawPercent, 1e-9)
}

func TestProgressForZeroGoal(t *testing.T) {
	progress := ProgressFor(0, 5000)
	assert.Equal(t, int64(5000), progress.ActiveTotal)
	assert.Zero(t, progress.Percent)
	assert.Zero(t, progress.RawPercent)
}

func TestProgressForRoundsDown(t *testing.T) {
	// 999 of 1000 is 99.9%, shown as 99
	progress := ProgressFor(1000, 999)
	assert.Equal(t, 99, progress.Percent)
}
