// internal/models/fundraiser.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Fundraiser struct {
	BaseModel
	ArtistID       uuid.UUID        `json:"artist_id" gorm:"type:uuid;not null;index"`
	Title          string           `json:"title" gorm:"size:255;not null"`
	Description    string           `json:"description" gorm:"type:text"`
	GoalAmount     int64            `json:"goal_amount" gorm:"not null"`
	Currency       string           `json:"currency" gorm:"size:3;default:'usd'"`
	EndDate        time.Time        `json:"end_date" gorm:"not null;index"`
	IsAllOrNothing bool             `json:"is_all_or_nothing" gorm:"default:false"`
	Status         FundraiserStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE';index"`

	// Relationships
	Artist      Artist       `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
	TrackGroups []TrackGroup `json:"track_groups,omitempty" gorm:"many2many:fundraiser_track_groups"`
	Pledges     []Pledge     `json:"pledges,omitempty" gorm:"foreignKey:FundraiserID"`
}

func (f *Fundraiser) Expired(now time.Time) bool {
	return now.After(f.EndDate)
}

type Pledge struct {
	BaseModel
	FundraiserID        uuid.UUID  `json:"fundraiser_id" gorm:"type:uuid;not null;index"`
	UserID              uuid.UUID  `json:"-" gorm:"type:uuid;not null;index"`
	Amount              int64      `json:"amount" gorm:"not null"`
	Currency            string     `json:"currency" gorm:"size:3;default:'usd'"`
	StripeSetupIntentID string     `json:"-" gorm:"size:255;index"`
	PaidAt              *time.Time `json:"paid_at"`
	CancelledAt         *time.Time `json:"cancelled_at"`
	PaymentReference    string     `json:"-" gorm:"size:255"`

	// Relationships
	Fundraiser Fundraiser `json:"fundraiser,omitempty" gorm:"foreignKey:FundraiserID"`
	User       User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Active pledges are the ones counted toward the goal. Cancellation is
// terminal: a cancelled pledge can never become paid.
func (p *Pledge) Active() bool {
	return p.CancelledAt == nil
}

func (p *Pledge) Realized() bool {
	return p.PaidAt != nil
}

// FundraiserProgress is the display view of a campaign's funding state.
// Percent is clamped to [0,100] for progress bars; RawPercent keeps the
// unclamped ratio for over-funded messaging.
type FundraiserProgress struct {
	ActiveTotal int64   `json:"activeTotal"`
	Percent     int     `json:"percent"`
	RawPercent  float64 `json:"rawPercent"`
}

func ProgressFor(goalAmount, activeTotal int64) FundraiserProgress {
	progress := FundraiserProgress{ActiveTotal: activeTotal}
	if goalAmount <= 0 {
		return progress
	}
	progress.RawPercent = float64(activeTotal) / float64(goalAmount) * 100
	percent := int(activeTotal * 100 / goalAmount)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress.Percent = percent
	return progress
}
