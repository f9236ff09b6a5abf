// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

// SaleKind tags the unified sale projection with its source purchase type.
type SaleKind string

const (
	SaleKindTrack        SaleKind = "track"
	SaleKindTrackGroup   SaleKind = "trackGroup"
	SaleKindMerch        SaleKind = "merch"
	SaleKindSubscription SaleKind = "subscription"
	SaleKindTip          SaleKind = "tip"
)

type SubscriptionInterval string

const (
	SubscriptionIntervalMonth SubscriptionInterval = "month"
	SubscriptionIntervalYear  SubscriptionInterval = "year"
)

type FundraiserStatus string

const (
	FundraiserStatusActive    FundraiserStatus = "ACTIVE"
	FundraiserStatusFunded    FundraiserStatus = "FUNDED"
	FundraiserStatusFailed    FundraiserStatus = "FAILED"
	FundraiserStatusCancelled FundraiserStatus = "CANCELLED"
)

type FulfillmentStatus string

const (
	FulfillmentStatusPending   FulfillmentStatus = "pending"
	FulfillmentStatusShipped   FulfillmentStatus = "shipped"
	FulfillmentStatusDelivered FulfillmentStatus = "delivered"
)
