// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tonearm/tonearm-backend/internal/models"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

// CatalogService manages artist profiles and the things they sell.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type CreateArtistRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Bio      string `json:"bio" validate:"max=5000"`
	Location string `json:"location" validate:"max=255"`
}

type UpdateArtistRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Bio      *string `json:"bio" validate:"omitempty,max=5000"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

func (s *CatalogService) CreateArtist(ownerID uuid.UUID, req *CreateArtistRequest) (*models.Artist, error) {
	artist := &models.Artist{
		OwnerID:  ownerID,
		Name:     req.Name,
		Bio:      req.Bio,
		Location: req.Location,
		URLSlug:  s.uniqueSlug(req.Name),
	}
	if err := s.db.Create(artist).Error; err != nil {
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}
	return artist, nil
}

func (s *CatalogService) GetArtist(artistID uuid.UUID) (*models.Artist, error) {
	var artist models.Artist
	err := s.db.
		Preload("TrackGroups", "published = true").
		Preload("SubscriptionTiers").
		Preload("TipTiers").
		First(&artist, "id = ?", artistID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	return &artist, nil
}

func (s *CatalogService) GetArtistBySlug(slug string) (*models.Artist, error) {
	var artist models.Artist
	err := s.db.
		Preload("TrackGroups", "published = true").
		Preload("SubscriptionTiers").
		Preload("TipTiers").
		First(&artist, "url_slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	return &artist, nil
}

func (s *CatalogService) UpdateArtist(artistID, userID uuid.UUID, req *UpdateArtistRequest) (*models.Artist, error) {
	artist, err := s.artistOwnedBy(artistID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if len(updates) == 0 {
		return artist, nil
	}

	if err := s.db.Model(artist).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update artist: %w", err)
	}
	return artist, nil
}

type CreateTrackGroupRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=255"`
	About    string   `json:"about" validate:"max=10000"`
	Price    int64    `json:"price" validate:"min=0"`
	Currency string   `json:"currency" validate:"required,currency"`
	Tags     []string `json:"tags" validate:"max=20,dive,max=50"`
}

type CreateTrackRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Order    int    `json:"order" validate:"min=0"`
	Price    int64  `json:"price" validate:"min=0"`
	Currency string `json:"currency" validate:"required,currency"`
}

func (s *CatalogService) CreateTrackGroup(artistID, userID uuid.UUID, req *CreateTrackGroupRequest) (*models.TrackGroup, error) {
	if _, err := s.artistOwnedBy(artistID, userID); err != nil {
		return nil, err
	}

	trackGroup := &models.TrackGroup{
		ArtistID: artistID,
		Title:    req.Title,
		About:    req.About,
		Price:    req.Price,
		Currency: req.Currency,
		Tags:     pq.StringArray(req.Tags),
	}
	if err := s.db.Create(trackGroup).Error; err != nil {
		return nil, fmt.Errorf("failed to create track group: %w", err)
	}
	return trackGroup, nil
}

func (s *CatalogService) GetTrackGroup(trackGroupID uuid.UUID) (*models.TrackGroup, error) {
	var trackGroup models.TrackGroup
	err := s.db.
		Preload("Artist").
		Preload("Tracks", func(db *gorm.DB) *gorm.DB { return db.Order("tracks.\"order\" ASC") }).
		First(&trackGroup, "id = ?", trackGroupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackGroupNotFound
		}
		return nil, fmt.Errorf("failed to get track group: %w", err)
	}
	return &trackGroup, nil
}

func (s *CatalogService) PublishTrackGroup(trackGroupID, userID uuid.UUID, published bool) (*models.TrackGroup, error) {
	trackGroup, err := s.trackGroupOwnedBy(trackGroupID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(trackGroup).Update("published", published).Error; err != nil {
		return nil, fmt.Errorf("failed to update track group: %w", err)
	}
	return trackGroup, nil
}

func (s *CatalogService) SetTrackGroupCover(trackGroupID, userID uuid.UUID, coverURL string) (*models.TrackGroup, error) {
	trackGroup, err := s.trackGroupOwnedBy(trackGroupID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(trackGroup).Update("cover_url", coverURL).Error; err != nil {
		return nil, fmt.Errorf("failed to update track group: %w", err)
	}
	return trackGroup, nil
}

func (s *CatalogService) AddTrack(trackGroupID, userID uuid.UUID, req *CreateTrackRequest) (*models.Track, error) {
	if _, err := s.trackGroupOwnedBy(trackGroupID, userID); err != nil {
		return nil, err
	}

	track := &models.Track{
		TrackGroupID: trackGroupID,
		Title:        req.Title,
		Order:        req.Order,
		Price:        req.Price,
		Currency:     req.Currency,
	}
	if err := s.db.Create(track).Error; err != nil {
		return nil, fmt.Errorf("failed to create track: %w", err)
	}
	return track, nil
}

type CreateMerchRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=255"`
	Description     string `json:"description" validate:"max=10000"`
	Price           int64  `json:"price" validate:"required,min=1"`
	Currency        string `json:"currency" validate:"required,currency"`
	FlatShippingFee int64  `json:"flat_shipping_fee" validate:"min=0"`
	Quantity        int    `json:"quantity" validate:"min=0"`
}

func (s *CatalogService) CreateMerch(artistID, userID uuid.UUID, req *CreateMerchRequest) (*models.Merch, error) {
	if _, err := s.artistOwnedBy(artistID, userID); err != nil {
		return nil, err
	}

	merch := &models.Merch{
		ArtistID:        artistID,
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		Currency:        req.Currency,
		FlatShippingFee: req.FlatShippingFee,
		Quantity:        req.Quantity,
	}
	if err := s.db.Create(merch).Error; err != nil {
		return nil, fmt.Errorf("failed to create merch: %w", err)
	}
	return merch, nil
}

type CreateSubscriptionTierRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=5000"`
	MinAmount   int64  `json:"min_amount" validate:"required,min=1"`
	Currency    string `json:"currency" validate:"required,currency"`
	Interval    string `json:"interval" validate:"required,oneof=month year"`
}

func (s *CatalogService) CreateSubscriptionTier(artistID, userID uuid.UUID, req *CreateSubscriptionTierRequest) (*models.SubscriptionTier, error) {
	if _, err := s.artistOwnedBy(artistID, userID); err != nil {
		return nil, err
	}

	tier := &models.SubscriptionTier{
		ArtistID:    artistID,
		Name:        req.Name,
		Description: req.Description,
		MinAmount:   req.MinAmount,
		Currency:    req.Currency,
		Interval:    models.SubscriptionInterval(req.Interval),
	}
	if err := s.db.Create(tier).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription tier: %w", err)
	}
	return tier, nil
}

type CreateTipTierRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=255"`
	SuggestedAmount int64  `json:"suggested_amount" validate:"min=0"`
	Currency        string `json:"currency" validate:"required,currency"`
}

func (s *CatalogService) CreateTipTier(artistID, userID uuid.UUID, req *CreateTipTierRequest) (*models.TipTier, error) {
	if _, err := s.artistOwnedBy(artistID, userID); err != nil {
		return nil, err
	}

	tier := &models.TipTier{
		ArtistID:        artistID,
		Name:            req.Name,
		SuggestedAmount: req.SuggestedAmount,
		Currency:        req.Currency,
	}
	if err := s.db.Create(tier).Error; err != nil {
		return nil, fmt.Errorf("failed to create tip tier: %w", err)
	}
	return tier, nil
}

// MyArtists lists the artist profiles owned by a user.
func (s *CatalogService) MyArtists(userID uuid.UUID) ([]models.Artist, error) {
	var artists []models.Artist
	if err := s.db.Where("owner_id = ?", userID).Order("created_at ASC").Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

func (s *CatalogService) artistOwnedBy(artistID, userID uuid.UUID) (*models.Artist, error) {
	var artist models.Artist
	if err := s.db.First(&artist, "id = ?", artistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to load artist: %w", err)
	}
	if artist.OwnerID != userID {
		return nil, ErrNotOwner
	}
	return &artist, nil
}

func (s *CatalogService) trackGroupOwnedBy(trackGroupID, userID uuid.UUID) (*models.TrackGroup, error) {
	var trackGroup models.TrackGroup
	if err := s.db.Preload("Artist").First(&trackGroup, "id = ?", trackGroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackGroupNotFound
		}
		return nil, fmt.Errorf("failed to load track group: %w", err)
	}
	if trackGroup.Artist.OwnerID != userID {
		return nil, ErrNotOwner
	}
	return &trackGroup, nil
}

func (s *CatalogService) uniqueSlug(name string) string {
	base := utils.Slugify(name)
	slug := base
	for i := 2; ; i++ {
		var count int64
		s.db.Model(&models.Artist{}).Where("url_slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
