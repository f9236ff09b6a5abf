// internal/models/purchase.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// The five purchase sources share a common capability set (amount, currency,
// purchaser, timestamp, platform cut, processor cut) but are stored in
// separate tables. Rows are written once at payment confirmation and never
// mutated afterwards, except merch fulfillment status.

type TrackPurchase struct {
	BaseModel
	UserID           uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	TrackID          uuid.UUID `json:"track_id" gorm:"type:uuid;not null;index"`
	PricePaid        int64     `json:"price_paid" gorm:"not null"`
	Currency         string    `json:"currency" gorm:"size:3;not null"`
	PlatformCut      int64     `json:"platform_cut" gorm:"not null;default:0"`
	ProcessorCut     int64     `json:"processor_cut" gorm:"not null;default:0"`
	DatePurchased    time.Time `json:"date_purchased" gorm:"not null;index"`
	PaymentReference string    `json:"-" gorm:"size:255"`

	// Relationships
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Track Track `json:"track,omitempty" gorm:"foreignKey:TrackID"`
}

type TrackGroupPurchase struct {
	BaseModel
	UserID           uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	TrackGroupID     uuid.UUID `json:"track_group_id" gorm:"type:uuid;not null;index"`
	PricePaid        int64     `json:"price_paid" gorm:"not null"`
	Currency         string    `json:"currency" gorm:"size:3;not null"`
	PlatformCut      int64     `json:"platform_cut" gorm:"not null;default:0"`
	ProcessorCut     int64     `json:"processor_cut" gorm:"not null;default:0"`
	DatePurchased    time.Time `json:"date_purchased" gorm:"not null;index"`
	Message          *string   `json:"message,omitempty" gorm:"type:text"`
	PaymentReference string    `json:"-" gorm:"size:255"`

	// Relationships
	User       User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	TrackGroup TrackGroup `json:"track_group,omitempty" gorm:"foreignKey:TrackGroupID"`
}

type MerchPurchase struct {
	BaseModel
	UserID            uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	MerchID           uuid.UUID         `json:"merch_id" gorm:"type:uuid;not null;index"`
	PricePaid         int64             `json:"price_paid" gorm:"not null"`
	Currency          string            `json:"currency" gorm:"size:3;not null"`
	PlatformCut       int64             `json:"platform_cut" gorm:"not null;default:0"`
	ProcessorCut      int64             `json:"processor_cut" gorm:"not null;default:0"`
	ShippingFee       int64             `json:"shipping_fee" gorm:"default:0"`
	ShippingAddress   JSONB             `json:"shipping_address,omitempty" gorm:"type:jsonb"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status" gorm:"type:varchar(20);default:'pending'"`
	DatePurchased     time.Time         `json:"date_purchased" gorm:"not null;index"`
	PaymentReference  string            `json:"-" gorm:"size:255"`

	// Relationships
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Merch Merch `json:"merch,omitempty" gorm:"foreignKey:MerchID"`
}

type SubscriptionPayment struct {
	BaseModel
	UserID             uuid.UUID            `json:"user_id" gorm:"type:uuid;not null;index"`
	SubscriptionTierID uuid.UUID            `json:"subscription_tier_id" gorm:"type:uuid;not null;index"`
	Amount             int64                `json:"amount" gorm:"not null"`
	Currency           string               `json:"currency" gorm:"size:3;not null"`
	PlatformCut        int64                `json:"platform_cut" gorm:"not null;default:0"`
	ProcessorCut       int64                `json:"processor_cut" gorm:"not null;default:0"`
	Interval           SubscriptionInterval `json:"interval" gorm:"type:varchar(10);not null"`
	DatePurchased      time.Time            `json:"date_purchased" gorm:"not null;index"`
	PaymentReference   string               `json:"-" gorm:"size:255"`

	// Relationships
	User             User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier,omitempty" gorm:"foreignKey:SubscriptionTierID"`
}

type Tip struct {
	BaseModel
	UserID           uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	ArtistID         uuid.UUID  `json:"artist_id" gorm:"type:uuid;not null;index"`
	TipTierID        *uuid.UUID `json:"tip_tier_id,omitempty" gorm:"type:uuid;index"`
	PricePaid        int64      `json:"price_paid" gorm:"not null"`
	Currency         string     `json:"currency" gorm:"size:3;not null"`
	PlatformCut      int64      `json:"platform_cut" gorm:"not null;default:0"`
	ProcessorCut     int64      `json:"processor_cut" gorm:"not null;default:0"`
	DatePurchased    time.Time  `json:"date_purchased" gorm:"not null;index"`
	PaymentReference string     `json:"-" gorm:"size:255"`

	// Relationships
	User    User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Artist  Artist   `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
	TipTier *TipTier `json:"tip_tier,omitempty" gorm:"foreignKey:TipTierID"`
}
