// internal/models/sale_test.go
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testUser(name string) User {
	return User{
		BaseModel:   BaseModel{ID: uuid.New()},
		Username:    name,
		Email:       name + "@example.com",
		DisplayName: name,
	}
}

func TestSaleFromTrackPurchase(t *testing.T) {
	user := testUser("fan")
	artistID := uuid.New()
	trackGroupID := uuid.New()
	trackID := uuid.New()
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	purchase := TrackPurchase{
		UserID:        user.ID,
		TrackID:       trackID,
		PricePaid:     500,
		Currency:      "usd",
		PlatformCut:   35,
		ProcessorCut:  15,
		DatePurchased: when,
		User:          user,
		Track: Track{
			BaseModel:    BaseModel{ID: trackID},
			TrackGroupID: trackGroupID,
			TrackGroup: TrackGroup{
				BaseModel: BaseModel{ID: trackGroupID},
				ArtistID:  artistID,
			},
		},
	}

	sale := SaleFromTrackPurchase(&purchase)

	assert.Equal(t, SaleKindTrack, sale.Kind)
	assert.Equal(t, int64(500), sale.Amount)
	assert.Equal(t, user.ID, sale.UserID)
	assert.Equal(t, "fan", sale.PurchaserName)
	assert.Equal(t, when, sale.DatePurchased)
	if assert.NotNil(t, sale.TrackID) {
		assert.Equal(t, trackID, *sale.TrackID)
	}
	if assert.NotNil(t, sale.TrackGroupID) {
		assert.Equal(t, trackGroupID, *sale.TrackGroupID)
	}
	if assert.NotNil(t, sale.ArtistID) {
		assert.Equal(t, artistID, *sale.ArtistID)
	}
}

func TestSaleFromTrackPurchaseWithoutPreloads(t *testing.T) {
	purchase := TrackPurchase{
		UserID:        uuid.New(),
		TrackID:       uuid.New(),
		PricePaid:     500,
		Currency:      "usd",
		DatePurchased: time.Now(),
	}

	sale := SaleFromTrackPurchase(&purchase)

	assert.Nil(t, sale.TrackGroupID)
	assert.Nil(t, sale.ArtistID)
	assert.NotNil(t, sale.TrackID)
}

func TestSaleFromTrackGroupPurchaseCarriesMessage(t *testing.T) {
	user := testUser("collector")
	message := "love this record"

	purchase := TrackGroupPurchase{
		UserID:        user.ID,
		TrackGroupID:  uuid.New(),
		PricePaid:     1200,
		Currency:      "eur",
		Message:       &message,
		DatePurchased: time.Now(),
		User:          user,
	}

	sale := SaleFromTrackGroupPurchase(&purchase)

	assert.Equal(t, SaleKindTrackGroup, sale.Kind)
	if assert.NotNil(t, sale.Message) {
		assert.Equal(t, message, *sale.Message)
	}
}

func TestSaleFromSubscriptionPaymentCarriesInterval(t *testing.T) {
	user := testUser("member")

	payment := SubscriptionPayment{
		UserID:             user.ID,
		SubscriptionTierID: uuid.New(),
		Amount:             800,
		Currency:           "usd",
		Interval:           SubscriptionIntervalMonth,
		DatePurchased:      time.Now(),
		User:               user,
	}

	sale := SaleFromSubscriptionPayment(&payment)

	assert.Equal(t, SaleKindSubscription, sale.Kind)
	assert.Equal(t, "month", sale.Interval)
	assert.Equal(t, int64(800), sale.Amount)
}

func TestSaleFromTipAlwaysHasArtist(t *testing.T) {
	user := testUser("tipper")
	artistID := uuid.New()

	tip := Tip{
		UserID:        user.ID,
		ArtistID:      artistID,
		PricePaid:     300,
		Currency:      "usd",
		DatePurchased: time.Now(),
		User:          user,
	}

	sale := SaleFromTip(&tip)

	assert.Equal(t, SaleKindTip, sale.Kind)
	if assert.NotNil(t, sale.ArtistID) {
		assert.Equal(t, artistID, *sale.ArtistID)
	}
}

func TestNetToArtist(t *testing.T) {
	sale := Sale{Amount: 1000, PlatformCut: 70, ProcessorCut: 59}
	assert.Equal(t, int64(871), sale.NetToArtist())
	assert.Equal(t, sale.Amount, sale.PlatformCut+sale.ProcessorCut+sale.NetToArtist())
}

func TestSummarizeSalesCountsDistinctSupporters(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	sales := []Sale{
		{UserID: alice, Amount: 500},
		{UserID: alice, Amount: 300},
		{UserID: bob, Amount: 1200},
	}

	summary := SummarizeSales(sales)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, int64(2000), summary.TotalAmount)
	assert.Equal(t, 2, summary.TotalSupporters)

	// Summarizing again yields the same result
	assert.Equal(t, summary, SummarizeSales(sales))
}

func TestSummarizeSalesEmpty(t *testing.T) {
	summary := SummarizeSales(nil)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.TotalAmount)
	assert.Zero(t, summary.TotalSupporters)
}
