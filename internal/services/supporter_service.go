// internal/services/supporter_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tonearm/tonearm-backend/internal/models"
)

// SupporterService is the artist-facing read surface over the aggregator.
// Responses carry display name and email only; internal purchaser ids are
// stripped before anything leaves the API.
type SupporterService struct {
	db    *gorm.DB
	sales *SalesService
}

func NewSupporterService(db *gorm.DB, sales *SalesService) *SupporterService {
	return &SupporterService{db: db, sales: sales}
}

type SupporterRecord struct {
	userID      uuid.UUID
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Kind        string    `json:"kind"`
	Date        time.Time `json:"date"`
	Message     *string   `json:"message,omitempty"`
}

func supporterFromSale(sale models.Sale) SupporterRecord {
	return SupporterRecord{
		userID:      sale.UserID,
		DisplayName: sale.PurchaserName,
		Email:       sale.PurchaserEmail,
		Amount:      sale.Amount,
		Currency:    sale.Currency,
		Kind:        string(sale.Kind),
		Date:        sale.DatePurchased,
		Message:     sale.Message,
	}
}

func supporterFromPledge(pledge *models.Pledge) SupporterRecord {
	return SupporterRecord{
		userID:      pledge.UserID,
		DisplayName: pledge.User.Name(),
		Email:       pledge.User.Email,
		Amount:      pledge.Amount,
		Currency:    pledge.Currency,
		Kind:        "pledge",
		Date:        pledge.CreatedAt,
	}
}

func summarizeSupporters(records []SupporterRecord) models.SaleSummary {
	summary := models.SaleSummary{Total: len(records)}
	supporters := make(map[uuid.UUID]struct{}, len(records))
	for _, record := range records {
		summary.TotalAmount += record.Amount
		supporters[record.userID] = struct{}{}
	}
	summary.TotalSupporters = len(supporters)
	return summary
}

// ArtistSupporters merges purchases, subscription payments and tips for a
// single artist, newest first.
func (s *SupporterService) ArtistSupporters(artistID uuid.UUID) ([]SupporterRecord, error) {
	var artist models.Artist
	if err := s.db.First(&artist, "id = ?", artistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to load artist: %w", err)
	}

	sales, _, err := s.sales.FindSales([]uuid.UUID{artistID}, FindSalesOptions{})
	if err != nil {
		return nil, err
	}

	SortSalesByDateDesc(sales)
	records := make([]SupporterRecord, 0, len(sales))
	for _, sale := range sales {
		records = append(records, supporterFromSale(sale))
	}
	return records, nil
}

// TrackGroupSupporters merges direct purchases of a release with the active
// pledges of its all-or-nothing fundraiser, when one exists. Statistics
// cover the full merged set regardless of pagination.
func (s *SupporterService) TrackGroupSupporters(trackGroupID uuid.UUID, since *time.Time) ([]SupporterRecord, models.SaleSummary, error) {
	var trackGroup models.TrackGroup
	if err := s.db.First(&trackGroup, "id = ?", trackGroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.SaleSummary{}, ErrTrackGroupNotFound
		}
		return nil, models.SaleSummary{}, fmt.Errorf("failed to load track group: %w", err)
	}

	sales, _, err := s.sales.FindSales([]uuid.UUID{trackGroup.ArtistID}, FindSalesOptions{
		TrackGroupIDs: []uuid.UUID{trackGroupID},
		Since:         since,
	})
	if err != nil {
		return nil, models.SaleSummary{}, err
	}

	records := make([]SupporterRecord, 0, len(sales))
	for _, sale := range sales {
		records = append(records, supporterFromSale(sale))
	}

	pledges, err := s.activeFundraiserPledges(trackGroupID, since)
	if err != nil {
		return nil, models.SaleSummary{}, err
	}
	for i := range pledges {
		records = append(records, supporterFromPledge(&pledges[i]))
	}

	summary := summarizeSupporters(records)
	sortSupportersByDateDesc(records)
	return records, summary, nil
}

// activeFundraiserPledges returns the active pledges of any all-or-nothing
// fundraiser attached to the track group.
func (s *SupporterService) activeFundraiserPledges(trackGroupID uuid.UUID, since *time.Time) ([]models.Pledge, error) {
	var fundraisers []models.Fundraiser
	err := s.db.
		Joins("JOIN fundraiser_track_groups ftg ON ftg.fundraiser_id = fundraisers.id").
		Where("ftg.track_group_id = ? AND fundraisers.is_all_or_nothing = true", trackGroupID).
		Find(&fundraisers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load fundraisers: %w", err)
	}
	if len(fundraisers) == 0 {
		return nil, nil
	}

	fundraiserIDs := make([]uuid.UUID, 0, len(fundraisers))
	for _, fundraiser := range fundraisers {
		fundraiserIDs = append(fundraiserIDs, fundraiser.ID)
	}

	query := s.db.
		Preload("User").
		Where("fundraiser_id IN ? AND cancelled_at IS NULL", fundraiserIDs)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var pledges []models.Pledge
	if err := query.Find(&pledges).Error; err != nil {
		return nil, fmt.Errorf("failed to load pledges: %w", err)
	}
	return pledges, nil
}

func sortSupportersByDateDesc(records []SupporterRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}
