// internal/services/pledge_service_test.go
package services

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tonearm/tonearm-backend/internal/config"
	"github.com/tonearm/tonearm-backend/internal/database"
	"github.com/tonearm/tonearm-backend/internal/models"
)

// fakeGateway stands in for the Stripe-backed payment service. Charges are
// recorded by setup intent id; declines are scripted per intent.
type fakeGateway struct {
	charged    map[string]int64
	declineFor map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		charged:    map[string]int64{},
		declineFor: map[string]bool{},
	}
}

func (g *fakeGateway) EnsureCustomer(user *models.User) (string, error) {
	return "cus_" + user.ID.String(), nil
}

func (g *fakeGateway) CreateSetupIntent(customerID string, metadata map[string]string) (*stripe.SetupIntent, error) {
	return &stripe.SetupIntent{
		ID:           "seti_" + uuid.NewString(),
		ClientSecret: "secret",
		Status:       stripe.SetupIntentStatusSucceeded,
	}, nil
}

func (g *fakeGateway) GetSetupIntent(setupIntentID string) (*stripe.SetupIntent, error) {
	return &stripe.SetupIntent{
		ID:     setupIntentID,
		Status: stripe.SetupIntentStatusSucceeded,
	}, nil
}

func (g *fakeGateway) ChargeSetupIntent(setupIntentID string, amount int64, currency, description string) (string, error) {
	if g.declineFor[setupIntentID] {
		return "", errors.New("card declined")
	}
	g.charged[setupIntentID] = amount
	return "pi_" + setupIntentID, nil
}

func pledgeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func newPledgeHarness(t *testing.T) (*PledgeService, *fakeGateway, *gorm.DB) {
	t.Helper()

	db := pledgeTestDB(t)
	cfg := &config.Config{}
	cfg.Payment.MinimumPledge = 100

	gateway := newFakeGateway()
	svc := NewPledgeService(db, cfg, gateway, NewNotificationService(db, cfg))
	return svc, gateway, db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	name := "fan_" + uuid.NewString()[:8]
	user := &models.User{
		Username:    name,
		Email:       name + "@example.com",
		DisplayName: name,
	}
	require.NoError(t, user.SetPassword("Sup3r-Secret!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedFundraiser(t *testing.T, db *gorm.DB, goal int64, endDate time.Time, allOrNothing bool) *models.Fundraiser {
	t.Helper()

	owner := seedUser(t, db)
	artist := &models.Artist{
		OwnerID: owner.ID,
		Name:    "Test Artist",
		URLSlug: "artist-" + uuid.NewString()[:8],
	}
	require.NoError(t, db.Create(artist).Error)

	fundraiser := &models.Fundraiser{
		ArtistID:       artist.ID,
		Title:          "Studio Time",
		GoalAmount:     goal,
		Currency:       "usd",
		EndDate:        endDate,
		IsAllOrNothing: allOrNothing,
		Status:         models.FundraiserStatusActive,
	}
	require.NoError(t, db.Create(fundraiser).Error)
	return fundraiser
}

func seedPledge(t *testing.T, db *gorm.DB, fundraiser *models.Fundraiser, amount int64) *models.Pledge {
	t.Helper()

	user := seedUser(t, db)
	pledge := &models.Pledge{
		FundraiserID:        fundraiser.ID,
		UserID:              user.ID,
		Amount:              amount,
		Currency:            fundraiser.Currency,
		StripeSetupIntentID: "seti_" + uuid.NewString(),
	}
	require.NoError(t, db.Create(pledge).Error)
	return pledge
}

func reloadPledge(t *testing.T, db *gorm.DB, id uuid.UUID) models.Pledge {
	t.Helper()

	var pledge models.Pledge
	require.NoError(t, db.First(&pledge, "id = ?", id).Error)
	return pledge
}

func reloadFundraiser(t *testing.T, db *gorm.DB, id uuid.UUID) models.Fundraiser {
	t.Helper()

	var fundraiser models.Fundraiser
	require.NoError(t, db.First(&fundraiser, "id = ?", id).Error)
	return fundraiser
}

func TestSweepChargesAllPledgesWhenGoalReached(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(30*24*time.Hour), true)
	first := seedPledge(t, db, fundraiser, 60000)
	second := seedPledge(t, db, fundraiser, 50000)

	require.NoError(t, svc.SweepIfFunded(fundraiser.ID))

	assert.Equal(t, models.FundraiserStatusFunded, reloadFundraiser(t, db, fundraiser.ID).Status)
	for _, pledge := range []*models.Pledge{first, second} {
		got := reloadPledge(t, db, pledge.ID)
		assert.NotNil(t, got.PaidAt)
		assert.NotEmpty(t, got.PaymentReference)
	}
	assert.Equal(t, int64(60000), gateway.charged[first.StripeSetupIntentID])
	assert.Equal(t, int64(50000), gateway.charged[second.StripeSetupIntentID])
}

func TestSweepBelowGoalChargesNothing(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(30*24*time.Hour), true)
	pledge := seedPledge(t, db, fundraiser, 40000)

	require.NoError(t, svc.SweepIfFunded(fundraiser.ID))

	assert.Equal(t, models.FundraiserStatusActive, reloadFundraiser(t, db, fundraiser.ID).Status)
	assert.Nil(t, reloadPledge(t, db, pledge.ID).PaidAt)
	assert.Empty(t, gateway.charged)
}

func TestSweepContinuesPastDeclinedCharge(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(30*24*time.Hour), true)
	declined := seedPledge(t, db, fundraiser, 60000)
	accepted := seedPledge(t, db, fundraiser, 50000)
	gateway.declineFor[declined.StripeSetupIntentID] = true

	require.NoError(t, svc.SweepIfFunded(fundraiser.ID))

	assert.Equal(t, models.FundraiserStatusFunded, reloadFundraiser(t, db, fundraiser.ID).Status)

	// The declined pledge stays unpaid and chargeable; the other was charged
	assert.Nil(t, reloadPledge(t, db, declined.ID).PaidAt)
	got := reloadPledge(t, db, accepted.ID)
	assert.NotNil(t, got.PaidAt)
	assert.Equal(t, int64(50000), gateway.charged[accepted.StripeSetupIntentID])
}

func TestFailIfExpiredCancelsUnpaidPledges(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(-time.Hour), true)
	first := seedPledge(t, db, fundraiser, 25000)
	second := seedPledge(t, db, fundraiser, 15000)

	require.NoError(t, svc.FailIfExpired(fundraiser.ID))

	assert.Equal(t, models.FundraiserStatusFailed, reloadFundraiser(t, db, fundraiser.ID).Status)
	for _, pledge := range []*models.Pledge{first, second} {
		got := reloadPledge(t, db, pledge.ID)
		assert.NotNil(t, got.CancelledAt)
		assert.Nil(t, got.PaidAt)
	}
	assert.Empty(t, gateway.charged)
}

func TestConfirmPledgeChargesImmediatelyWhenNotAllOrNothing(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(30*24*time.Hour), false)
	pledge := seedPledge(t, db, fundraiser, 5000)

	require.NoError(t, svc.ConfirmPledge(pledge.StripeSetupIntentID))

	got := reloadPledge(t, db, pledge.ID)
	assert.NotNil(t, got.PaidAt)
	assert.Equal(t, int64(5000), gateway.charged[pledge.StripeSetupIntentID])
	assert.Equal(t, models.FundraiserStatusActive, reloadFundraiser(t, db, fundraiser.ID).Status)
}

func TestConfirmCancelledPledgeRejected(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(30*24*time.Hour), false)
	pledge := seedPledge(t, db, fundraiser, 5000)

	require.NoError(t, svc.CancelPledge(pledge.UserID, pledge.ID))

	err := svc.ConfirmPledge(pledge.StripeSetupIntentID)
	assert.ErrorIs(t, err, ErrPledgeCancelled)
	assert.Empty(t, gateway.charged)
}

func TestCancelledPledgeIsNeverCharged(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(30*24*time.Hour), true)
	pledge := seedPledge(t, db, fundraiser, 60000)

	// Cancellation lands after the sweep collected the pledge but before
	// the charge; the claim must lose
	now := time.Now()
	require.NoError(t, db.Model(pledge).Update("cancelled_at", &now).Error)

	pledge.Fundraiser = *fundraiser
	err := svc.chargePledge(pledge)
	assert.ErrorIs(t, err, ErrPledgeCancelled)

	got := reloadPledge(t, db, pledge.ID)
	assert.Nil(t, got.PaidAt)
	assert.NotNil(t, got.CancelledAt)
	assert.Empty(t, gateway.charged)
}

func TestCancelPledgeRejectsChargedPledge(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(30*24*time.Hour), true)
	pledge := seedPledge(t, db, fundraiser, 60000)

	now := time.Now()
	require.NoError(t, db.Model(pledge).Update("paid_at", &now).Error)

	err := svc.CancelPledge(pledge.UserID, pledge.ID)
	assert.ErrorIs(t, err, ErrPledgeAlreadyPaid)
	assert.Nil(t, reloadPledge(t, db, pledge.ID).CancelledAt)
	assert.Empty(t, gateway.charged)
}

func TestChargePledgeAlreadyPaidIsIdempotent(t *testing.T) {
	svc, gateway, db := newPledgeHarness(t)

	fundraiser := seedFundraiser(t, db, 100000, time.Now().Add(30*24*time.Hour), true)
	pledge := seedPledge(t, db, fundraiser, 60000)

	now := time.Now()
	require.NoError(t, db.Model(pledge).Update("paid_at", &now).Error)

	pledge.Fundraiser = *fundraiser
	require.NoError(t, svc.chargePledge(pledge))
	assert.Empty(t, gateway.charged)
}
