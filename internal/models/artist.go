// internal/models/artist.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Artist struct {
	BaseModel
	OwnerID  uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"size:255;not null"`
	Bio      string    `json:"bio" gorm:"type:text"`
	Location string    `json:"location" gorm:"size:255"`
	URLSlug  string    `json:"url_slug" gorm:"uniqueIndex;size:100"`

	// Relationships
	Owner             User               `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	TrackGroups       []TrackGroup       `json:"track_groups,omitempty" gorm:"foreignKey:ArtistID"`
	Merch             []Merch            `json:"merch,omitempty" gorm:"foreignKey:ArtistID"`
	SubscriptionTiers []SubscriptionTier `json:"subscription_tiers,omitempty" gorm:"foreignKey:ArtistID"`
	TipTiers          []TipTier          `json:"tip_tiers,omitempty" gorm:"foreignKey:ArtistID"`
	Fundraisers       []Fundraiser       `json:"fundraisers,omitempty" gorm:"foreignKey:ArtistID"`
}

// TrackGroup is an album, EP or single release.
type TrackGroup struct {
	BaseModel
	ArtistID  uuid.UUID      `json:"artist_id" gorm:"type:uuid;not null;index"`
	Title     string         `json:"title" gorm:"size:255;not null"`
	About     string         `json:"about" gorm:"type:text"`
	Published bool           `json:"published" gorm:"default:false;index"`
	Price     int64          `json:"price" gorm:"not null;default:0"` // minor currency units
	Currency  string         `json:"currency" gorm:"size:3;default:'usd'"`
	CoverURL  string         `json:"cover_url" gorm:"size:512"`
	Tags      pq.StringArray `json:"tags" gorm:"type:text[]"`

	// Relationships
	Artist Artist  `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
	Tracks []Track `json:"tracks,omitempty" gorm:"foreignKey:TrackGroupID"`
}

type Track struct {
	BaseModel
	TrackGroupID uuid.UUID `json:"track_group_id" gorm:"type:uuid;not null;index"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Order        int       `json:"order" gorm:"default:0"`
	Price        int64     `json:"price" gorm:"not null;default:0"`
	Currency     string    `json:"currency" gorm:"size:3;default:'usd'"`
	AudioURL     string    `json:"audio_url" gorm:"size:512"`

	// Relationships
	TrackGroup TrackGroup `json:"track_group,omitempty" gorm:"foreignKey:TrackGroupID"`
}

type Merch struct {
	BaseModel
	ArtistID        uuid.UUID      `json:"artist_id" gorm:"type:uuid;not null;index"`
	Title           string         `json:"title" gorm:"size:255;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Price           int64          `json:"price" gorm:"not null"`
	Currency        string         `json:"currency" gorm:"size:3;default:'usd'"`
	FlatShippingFee int64          `json:"flat_shipping_fee" gorm:"default:0"`
	Quantity        int            `json:"quantity" gorm:"default:0"`
	Images          pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	Artist Artist `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
}

type SubscriptionTier struct {
	BaseModel
	ArtistID    uuid.UUID            `json:"artist_id" gorm:"type:uuid;not null;index"`
	Name        string               `json:"name" gorm:"size:255;not null"`
	Description string               `json:"description" gorm:"type:text"`
	MinAmount   int64                `json:"min_amount" gorm:"not null"`
	Currency    string               `json:"currency" gorm:"size:3;default:'usd'"`
	Interval    SubscriptionInterval `json:"interval" gorm:"type:varchar(10);default:'month'"`

	// Relationships
	Artist Artist `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
}

type TipTier struct {
	BaseModel
	ArtistID        uuid.UUID `json:"artist_id" gorm:"type:uuid;not null;index"`
	Name            string    `json:"name" gorm:"size:255;not null"`
	SuggestedAmount int64     `json:"suggested_amount" gorm:"default:0"`
	Currency        string    `json:"currency" gorm:"size:3;default:'usd'"`

	// Relationships
	Artist Artist `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
}
