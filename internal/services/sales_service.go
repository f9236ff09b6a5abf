// internal/services/sales_service.go
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tonearm/tonearm-backend/internal/models"
)

// SalesService reconciles the five purchase sources into the unified sale
// view. The five source queries are read-only and mutually independent, so
// they run concurrently and are combined once all have completed.
type SalesService struct {
	db *gorm.DB
}

func NewSalesService(db *gorm.DB) *SalesService {
	return &SalesService{db: db}
}

type FindSalesOptions struct {
	// TrackGroupIDs narrows the result to purchases of those releases.
	// Merch, subscription and tip sources carry no release linkage and
	// yield nothing under this filter.
	TrackGroupIDs []uuid.UUID
	// Since keeps only purchases with date_purchased >= Since.
	Since *time.Time
}

// FindSales returns the full matched set plus statistics over that set.
// No ordering is guaranteed; callers sort and paginate for presentation.
// An empty artist set is a normal condition, not an error.
func (s *SalesService) FindSales(artistIDs []uuid.UUID, opts FindSalesOptions) ([]models.Sale, models.SaleSummary, error) {
	if len(artistIDs) == 0 {
		return []models.Sale{}, models.SaleSummary{}, nil
	}

	var (
		trackPurchases      []models.TrackPurchase
		trackGroupPurchases []models.TrackGroupPurchase
		merchPurchases      []models.MerchPurchase
		subscriptions       []models.SubscriptionPayment
		tips                []models.Tip
	)

	var group errgroup.Group

	group.Go(func() error {
		query := s.db.
			Preload("User").Preload("Track.TrackGroup").
			Joins("JOIN tracks ON tracks.id = track_purchases.track_id").
			Joins("JOIN track_groups ON track_groups.id = tracks.track_group_id").
			Where("track_groups.artist_id IN ?", artistIDs)
		if len(opts.TrackGroupIDs) > 0 {
			query = query.Where("tracks.track_group_id IN ?", opts.TrackGroupIDs)
		}
		if opts.Since != nil {
			query = query.Where("track_purchases.date_purchased >= ?", *opts.Since)
		}
		return query.Find(&trackPurchases).Error
	})

	group.Go(func() error {
		query := s.db.
			Preload("User").Preload("TrackGroup").
			Joins("JOIN track_groups ON track_groups.id = track_group_purchases.track_group_id").
			Where("track_groups.artist_id IN ?", artistIDs)
		if len(opts.TrackGroupIDs) > 0 {
			query = query.Where("track_group_purchases.track_group_id IN ?", opts.TrackGroupIDs)
		}
		if opts.Since != nil {
			query = query.Where("track_group_purchases.date_purchased >= ?", *opts.Since)
		}
		return query.Find(&trackGroupPurchases).Error
	})

	group.Go(func() error {
		if len(opts.TrackGroupIDs) > 0 {
			return nil
		}
		query := s.db.
			Preload("User").Preload("Merch").
			Joins("JOIN merches ON merches.id = merch_purchases.merch_id").
			Where("merches.artist_id IN ?", artistIDs)
		if opts.Since != nil {
			query = query.Where("merch_purchases.date_purchased >= ?", *opts.Since)
		}
		return query.Find(&merchPurchases).Error
	})

	group.Go(func() error {
		if len(opts.TrackGroupIDs) > 0 {
			return nil
		}
		query := s.db.
			Preload("User").Preload("SubscriptionTier").
			Joins("JOIN subscription_tiers ON subscription_tiers.id = subscription_payments.subscription_tier_id").
			Where("subscription_tiers.artist_id IN ?", artistIDs)
		if opts.Since != nil {
			query = query.Where("subscription_payments.date_purchased >= ?", *opts.Since)
		}
		return query.Find(&subscriptions).Error
	})

	group.Go(func() error {
		if len(opts.TrackGroupIDs) > 0 {
			return nil
		}
		query := s.db.
			Preload("User").
			Where("tips.artist_id IN ?", artistIDs)
		if opts.Since != nil {
			query = query.Where("tips.date_purchased >= ?", *opts.Since)
		}
		return query.Find(&tips).Error
	})

	if err := group.Wait(); err != nil {
		return nil, models.SaleSummary{}, fmt.Errorf("failed to query sales sources: %w", err)
	}

	sales := make([]models.Sale, 0,
		len(trackPurchases)+len(trackGroupPurchases)+len(merchPurchases)+len(subscriptions)+len(tips))

	for i := range trackPurchases {
		sales = append(sales, models.SaleFromTrackPurchase(&trackPurchases[i]))
	}
	for i := range trackGroupPurchases {
		sales = append(sales, models.SaleFromTrackGroupPurchase(&trackGroupPurchases[i]))
	}
	for i := range merchPurchases {
		sales = append(sales, models.SaleFromMerchPurchase(&merchPurchases[i]))
	}
	for i := range subscriptions {
		sales = append(sales, models.SaleFromSubscriptionPayment(&subscriptions[i]))
	}
	for i := range tips {
		sales = append(sales, models.SaleFromTip(&tips[i]))
	}

	return sales, models.SummarizeSales(sales), nil
}

// ArtistIDsOwnedBy resolves the artist scope for a user's "my artists" view.
func (s *SalesService) ArtistIDsOwnedBy(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.Model(&models.Artist{}).
		Where("owner_id = ?", userID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owned artists: %w", err)
	}
	return ids, nil
}

// SortSalesByDateDesc orders sales newest first for stable presentation.
func SortSalesByDateDesc(sales []models.Sale) {
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].DatePurchased.After(sales[j].DatePurchased)
	})
}
