// internal/models/sale.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is the unified, read-only projection of any purchase-like record.
// It is derived on demand and never stored. The purchaser's internal user id
// is carried for statistics only and is excluded from serialization.
type Sale struct {
	Kind           SaleKind   `json:"kind"`
	Amount         int64      `json:"amount"`
	Currency       string     `json:"currency"`
	PlatformCut    int64      `json:"platformCut"`
	ProcessorCut   int64      `json:"paymentProcessorCut"`
	UserID         uuid.UUID  `json:"-"`
	PurchaserName  string     `json:"purchaserName,omitempty"`
	PurchaserEmail string     `json:"purchaserEmail,omitempty"`
	DatePurchased  time.Time  `json:"datePurchased"`
	ArtistID       *uuid.UUID `json:"artistId,omitempty"`
	TrackGroupID   *uuid.UUID `json:"trackGroupId,omitempty"`
	TrackID        *uuid.UUID `json:"trackId,omitempty"`
	MerchID        *uuid.UUID `json:"merchId,omitempty"`
	Message        *string    `json:"message,omitempty"`
	Interval       string     `json:"interval,omitempty"`
}

// NetToArtist is recomputed on demand; it is never persisted.
// amount = platformCut + paymentProcessorCut + netToArtist.
func (s Sale) NetToArtist() int64 {
	return s.Amount - s.PlatformCut - s.ProcessorCut
}

// Every purchase table has exactly one mapping into Sale.

func SaleFromTrackPurchase(p *TrackPurchase) Sale {
	trackID := p.TrackID
	sale := Sale{
		Kind:           SaleKindTrack,
		Amount:         p.PricePaid,
		Currency:       p.Currency,
		PlatformCut:    p.PlatformCut,
		ProcessorCut:   p.ProcessorCut,
		UserID:         p.UserID,
		PurchaserName:  p.User.Name(),
		PurchaserEmail: p.User.Email,
		DatePurchased:  p.DatePurchased,
		TrackID:        &trackID,
	}
	if p.Track.TrackGroupID != uuid.Nil {
		groupID := p.Track.TrackGroupID
		sale.TrackGroupID = &groupID
	}
	if p.Track.TrackGroup.ArtistID != uuid.Nil {
		artistID := p.Track.TrackGroup.ArtistID
		sale.ArtistID = &artistID
	}
	return sale
}

func SaleFromTrackGroupPurchase(p *TrackGroupPurchase) Sale {
	groupID := p.TrackGroupID
	sale := Sale{
		Kind:           SaleKindTrackGroup,
		Amount:         p.PricePaid,
		Currency:       p.Currency,
		PlatformCut:    p.PlatformCut,
		ProcessorCut:   p.ProcessorCut,
		UserID:         p.UserID,
		PurchaserName:  p.User.Name(),
		PurchaserEmail: p.User.Email,
		DatePurchased:  p.DatePurchased,
		TrackGroupID:   &groupID,
		Message:        p.Message,
	}
	if p.TrackGroup.ArtistID != uuid.Nil {
		artistID := p.TrackGroup.ArtistID
		sale.ArtistID = &artistID
	}
	return sale
}

func SaleFromMerchPurchase(p *MerchPurchase) Sale {
	merchID := p.MerchID
	sale := Sale{
		Kind:           SaleKindMerch,
		Amount:         p.PricePaid,
		Currency:       p.Currency,
		PlatformCut:    p.PlatformCut,
		ProcessorCut:   p.ProcessorCut,
		UserID:         p.UserID,
		PurchaserName:  p.User.Name(),
		PurchaserEmail: p.User.Email,
		DatePurchased:  p.DatePurchased,
		MerchID:        &merchID,
	}
	if p.Merch.ArtistID != uuid.Nil {
		artistID := p.Merch.ArtistID
		sale.ArtistID = &artistID
	}
	return sale
}

func SaleFromSubscriptionPayment(p *SubscriptionPayment) Sale {
	sale := Sale{
		Kind:           SaleKindSubscription,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PlatformCut:    p.PlatformCut,
		ProcessorCut:   p.ProcessorCut,
		UserID:         p.UserID,
		PurchaserName:  p.User.Name(),
		PurchaserEmail: p.User.Email,
		DatePurchased:  p.DatePurchased,
		Interval:       string(p.Interval),
	}
	if p.SubscriptionTier.ArtistID != uuid.Nil {
		artistID := p.SubscriptionTier.ArtistID
		sale.ArtistID = &artistID
	}
	return sale
}

func SaleFromTip(p *Tip) Sale {
	artistID := p.ArtistID
	return Sale{
		Kind:           SaleKindTip,
		Amount:         p.PricePaid,
		Currency:       p.Currency,
		PlatformCut:    p.PlatformCut,
		ProcessorCut:   p.ProcessorCut,
		UserID:         p.UserID,
		PurchaserName:  p.User.Name(),
		PurchaserEmail: p.User.Email,
		DatePurchased:  p.DatePurchased,
		ArtistID:       &artistID,
	}
}

// SaleSummary holds statistics over the full matched set, independent of any
// pagination applied to the returned slice.
type SaleSummary struct {
	Total           int   `json:"total"`
	TotalAmount     int64 `json:"totalAmount"`
	TotalSupporters int   `json:"totalSupporters"`
}

func SummarizeSales(sales []Sale) SaleSummary {
	summary := SaleSummary{Total: len(sales)}
	supporters := make(map[uuid.UUID]struct{}, len(sales))
	for _, sale := range sales {
		summary.TotalAmount += sale.Amount
		supporters[sale.UserID] = struct{}{}
	}
	summary.TotalSupporters = len(supporters)
	return summary
}
