// internal/services/pledge_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tonearm/tonearm-backend/internal/config"
	"github.com/tonearm/tonearm-backend/internal/database"
	"github.com/tonearm/tonearm-backend/internal/models"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

// PaymentGateway is the processor surface the pledge lifecycle uses.
type PaymentGateway interface {
	EnsureCustomer(user *models.User) (string, error)
	CreateSetupIntent(customerID string, metadata map[string]string) (*stripe.SetupIntent, error)
	GetSetupIntent(setupIntentID string) (*stripe.SetupIntent, error)
	ChargeSetupIntent(setupIntentID string, amount int64, currency, description string) (string, error)
}

// PledgeService owns the pledge lifecycle and the all-or-nothing funding
// state machine. The goal check and the FUNDED transition happen under a
// per-fundraiser row lock, so concurrent threshold-crossing confirmations
// serialize instead of both skipping the sweep.
type PledgeService struct {
	db            *gorm.DB
	config        *config.Config
	payments      PaymentGateway
	notifications *NotificationService
}

func NewPledgeService(db *gorm.DB, config *config.Config, payments PaymentGateway, notifications *NotificationService) *PledgeService {
	return &PledgeService{
		db:            db,
		config:        config,
		payments:      payments,
		notifications: notifications,
	}
}

type CreateFundraiserRequest struct {
	Title          string      `json:"title" validate:"required,max=255"`
	Description    string      `json:"description"`
	GoalAmount     int64       `json:"goal_amount" validate:"required,min=1"`
	Currency       string      `json:"currency" validate:"omitempty,currency"`
	EndDate        time.Time   `json:"end_date" validate:"required"`
	IsAllOrNothing bool        `json:"is_all_or_nothing"`
	TrackGroupIDs  []uuid.UUID `json:"track_group_ids"`
}

func (s *PledgeService) CreateFundraiser(userID, artistID uuid.UUID, req *CreateFundraiserRequest) (*models.Fundraiser, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.EndDate.After(time.Now()) {
		return nil, errors.New("end date must be in the future")
	}

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

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	fundraiser := &models.Fundraiser{
		ArtistID:       artistID,
		Title:          req.Title,
		Description:    req.Description,
		GoalAmount:     req.GoalAmount,
		Currency:       currency,
		EndDate:        req.EndDate,
		IsAllOrNothing: req.IsAllOrNothing,
		Status:         models.FundraiserStatusActive,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(fundraiser).Error; err != nil {
			return fmt.Errorf("failed to create fundraiser: %w", err)
		}
		if len(req.TrackGroupIDs) > 0 {
			var trackGroups []models.TrackGroup
			if err := tx.Where("id IN ? AND artist_id = ?", req.TrackGroupIDs, artistID).
				Find(&trackGroups).Error; err != nil {
				return fmt.Errorf("failed to load track groups: %w", err)
			}
			if len(trackGroups) != len(req.TrackGroupIDs) {
				return ErrTrackGroupNotFound
			}
			if err := tx.Model(fundraiser).Association("TrackGroups").Append(&trackGroups); err != nil {
				return fmt.Errorf("failed to link track groups: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fundraiser, nil
}

type FundraiserView struct {
	Fundraiser *models.Fundraiser        `json:"fundraiser"`
	Progress   models.FundraiserProgress `json:"progress"`
}

// GetFundraiser returns the campaign with its funding progress. Reading an
// expired all-or-nothing campaign settles it first, so callers never see a
// stale ACTIVE status past the deadline.
func (s *PledgeService) GetFundraiser(fundraiserID uuid.UUID) (*FundraiserView, error) {
	if err := s.FailIfExpired(fundraiserID); err != nil {
		return nil, err
	}

	var fundraiser models.Fundraiser
	if err := s.db.Preload("TrackGroups").First(&fundraiser, "id = ?", fundraiserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundraiserNotFound
		}
		return nil, fmt.Errorf("failed to load fundraiser: %w", err)
	}

	activeTotal, err := s.activePledgeSum(s.db, fundraiserID)
	if err != nil {
		return nil, err
	}

	return &FundraiserView{
		Fundraiser: &fundraiser,
		Progress:   models.ProgressFor(fundraiser.GoalAmount, activeTotal),
	}, nil
}

// ListPledges returns a fundraiser's active pledges; cancelled ones are
// included only on explicit request.
func (s *PledgeService) ListPledges(fundraiserID uuid.UUID, includeCancelled bool) ([]models.Pledge, error) {
	query := s.db.Preload("User").Where("fundraiser_id = ?", fundraiserID)
	if !includeCancelled {
		query = query.Where("cancelled_at IS NULL")
	}

	var pledges []models.Pledge
	if err := query.Order("created_at DESC").Find(&pledges).Error; err != nil {
		return nil, fmt.Errorf("failed to list pledges: %w", err)
	}
	return pledges, nil
}

type CreatePledgeRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type CreatePledgeResponse struct {
	Pledge       *models.Pledge `json:"pledge"`
	ClientSecret string         `json:"client_secret"`
}

// CreatePledge records funding intent and puts a payment method on file.
// No funds move until the pledge is confirmed and, for all-or-nothing
// campaigns, the goal is reached.
func (s *PledgeService) CreatePledge(userID, fundraiserID uuid.UUID, req *CreatePledgeRequest) (*CreatePledgeResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Amount < s.config.Payment.MinimumPledge {
		return nil, ErrAmountTooSmall
	}

	var fundraiser models.Fundraiser
	if err := s.db.First(&fundraiser, "id = ?", fundraiserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundraiserNotFound
		}
		return nil, fmt.Errorf("failed to load fundraiser: %w", err)
	}
	if fundraiser.Status != models.FundraiserStatusActive {
		return nil, ErrFundraiserNotActive
	}
	if fundraiser.Expired(time.Now()) {
		return nil, ErrFundraiserExpired
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	customerID, err := s.payments.EnsureCustomer(&user)
	if err != nil {
		return nil, err
	}

	pledge := &models.Pledge{
		FundraiserID: fundraiserID,
		UserID:       userID,
		Amount:       req.Amount,
		Currency:     fundraiser.Currency,
	}
	if err := s.db.Create(pledge).Error; err != nil {
		return nil, fmt.Errorf("failed to create pledge: %w", err)
	}

	si, err := s.payments.CreateSetupIntent(customerID, map[string]string{
		"pledge_id":     pledge.ID.String(),
		"fundraiser_id": fundraiserID.String(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(pledge).Update("stripe_setup_intent_id", si.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to store setup intent id: %w", err)
	}
	pledge.StripeSetupIntentID = si.ID

	return &CreatePledgeResponse{
		Pledge:       pledge,
		ClientSecret: si.ClientSecret,
	}, nil
}

// ConfirmPledge runs once the processor confirms the setup intent. For
// non-all-or-nothing campaigns the pledge is charged immediately; for
// all-or-nothing ones this is the trigger point for the goal-reached sweep.
func (s *PledgeService) ConfirmPledge(setupIntentID string) error {
	var pledge models.Pledge
	err := s.db.Preload("Fundraiser").Preload("User").
		First(&pledge, "stripe_setup_intent_id = ?", setupIntentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPledgeNotFound
		}
		return fmt.Errorf("failed to load pledge: %w", err)
	}

	if pledge.CancelledAt != nil {
		return ErrPledgeCancelled
	}
	if pledge.PaidAt != nil {
		return nil
	}

	si, err := s.payments.GetSetupIntent(setupIntentID)
	if err != nil {
		return err
	}
	if si.Status != stripe.SetupIntentStatusSucceeded {
		return fmt.Errorf("setup intent %s not confirmed: %s", si.ID, si.Status)
	}

	if !pledge.Fundraiser.IsAllOrNothing {
		if err := s.chargePledge(&pledge); err != nil {
			return err
		}
		s.notifications.SendPledgeReceipt(&pledge)
		return nil
	}

	return s.SweepIfFunded(pledge.FundraiserID)
}

// CancelPledge withdraws a pledge before it is charged. Cancellation is
// terminal.
func (s *PledgeService) CancelPledge(userID, pledgeID uuid.UUID) error {
	var pledge models.Pledge
	if err := s.db.First(&pledge, "id = ?", pledgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPledgeNotFound
		}
		return fmt.Errorf("failed to load pledge: %w", err)
	}

	if pledge.UserID != userID {
		return ErrNotOwner
	}
	if pledge.CancelledAt != nil {
		return ErrPledgeCancelled
	}
	if pledge.PaidAt != nil {
		return ErrPledgeAlreadyPaid
	}

	// Conditional update: a pledge the sweep claimed for charging in the
	// meantime must not also become cancelled.
	now := time.Now()
	result := s.db.Model(&models.Pledge{}).
		Where("id = ? AND cancelled_at IS NULL AND paid_at IS NULL", pledgeID).
		Update("cancelled_at", &now)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel pledge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := s.db.First(&pledge, "id = ?", pledgeID).Error; err != nil {
			return fmt.Errorf("failed to reload pledge: %w", err)
		}
		if pledge.PaidAt != nil {
			return ErrPledgeAlreadyPaid
		}
		return ErrPledgeCancelled
	}
	return nil
}

// SweepIfFunded performs the goal-reached check. The active-pledge sum and
// the status transition are read and written under a FOR UPDATE lock on the
// fundraiser row; only the winner of that lock runs the charge batch.
// Charges happen after the transaction commits and are independent of each
// other: a declined card leaves that one pledge unpaid and does not abort
// the rest.
func (s *PledgeService) SweepIfFunded(fundraiserID uuid.UUID) error {
	var toCharge []models.Pledge

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var fundraiser models.Fundraiser
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&fundraiser, "id = ?", fundraiserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFundraiserNotFound
			}
			return fmt.Errorf("failed to lock fundraiser: %w", err)
		}

		if fundraiser.Status != models.FundraiserStatusActive {
			return nil
		}

		activeTotal, err := s.activePledgeSum(tx, fundraiserID)
		if err != nil {
			return err
		}
		if activeTotal < fundraiser.GoalAmount {
			return nil
		}

		result := tx.Model(&models.Fundraiser{}).
			Where("id = ? AND status = ?", fundraiserID, models.FundraiserStatusActive).
			Update("status", models.FundraiserStatusFunded)
		if result.Error != nil {
			return fmt.Errorf("failed to mark fundraiser funded: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Another request won the transition
			return nil
		}

		return tx.Preload("User").Preload("Fundraiser").
			Where("fundraiser_id = ? AND cancelled_at IS NULL AND paid_at IS NULL", fundraiserID).
			Find(&toCharge).Error
	})
	if err != nil {
		return err
	}

	for i := range toCharge {
		pledge := &toCharge[i]
		if err := s.chargePledge(pledge); err != nil {
			if errors.Is(err, ErrPledgeCancelled) {
				// Withdrawn between collection and charge
				continue
			}
			logrus.WithError(err).WithFields(logrus.Fields{
				"pledge_id":     pledge.ID,
				"fundraiser_id": fundraiserID,
			}).Warn("pledge charge failed during sweep")
			continue
		}
		s.notifications.SendFundraiserFunded(pledge)
	}

	return nil
}

// FailIfExpired settles an all-or-nothing campaign that passed its deadline
// short of goal: every unpaid pledge is cancelled and nothing is charged.
func (s *PledgeService) FailIfExpired(fundraiserID uuid.UUID) error {
	var toNotify []models.Pledge

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var fundraiser models.Fundraiser
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&fundraiser, "id = ?", fundraiserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFundraiserNotFound
			}
			return fmt.Errorf("failed to lock fundraiser: %w", err)
		}

		if fundraiser.Status != models.FundraiserStatusActive ||
			!fundraiser.IsAllOrNothing ||
			!fundraiser.Expired(time.Now()) {
			return nil
		}

		activeTotal, err := s.activePledgeSum(tx, fundraiserID)
		if err != nil {
			return err
		}
		if activeTotal >= fundraiser.GoalAmount {
			// Deadline hit with the goal met but the sweep not yet run
			return nil
		}

		if err := tx.Preload("User").Preload("Fundraiser").
			Where("fundraiser_id = ? AND cancelled_at IS NULL AND paid_at IS NULL", fundraiserID).
			Find(&toNotify).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Pledge{}).
			Where("fundraiser_id = ? AND cancelled_at IS NULL AND paid_at IS NULL", fundraiserID).
			Update("cancelled_at", &now).Error; err != nil {
			return fmt.Errorf("failed to cancel pledges: %w", err)
		}

		return tx.Model(&models.Fundraiser{}).
			Where("id = ? AND status = ?", fundraiserID, models.FundraiserStatusActive).
			Update("status", models.FundraiserStatusFailed).Error
	})
	if err != nil {
		return err
	}

	for i := range toNotify {
		s.notifications.SendFundraiserFailed(&toNotify[i])
	}
	return nil
}

// CancelFundraiser is the artist withdrawing the campaign. Unpaid pledges
// are released; already-charged pledges are untouched.
func (s *PledgeService) CancelFundraiser(userID, fundraiserID uuid.UUID) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var fundraiser models.Fundraiser
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Artist").
			First(&fundraiser, "id = ?", fundraiserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFundraiserNotFound
			}
			return fmt.Errorf("failed to lock fundraiser: %w", err)
		}

		if fundraiser.Artist.OwnerID != userID {
			return ErrNotOwner
		}
		if fundraiser.Status != models.FundraiserStatusActive {
			return ErrFundraiserNotActive
		}

		now := time.Now()
		if err := tx.Model(&models.Pledge{}).
			Where("fundraiser_id = ? AND cancelled_at IS NULL AND paid_at IS NULL", fundraiserID).
			Update("cancelled_at", &now).Error; err != nil {
			return fmt.Errorf("failed to cancel pledges: %w", err)
		}

		return tx.Model(&models.Fundraiser{}).
			Where("id = ?", fundraiserID).
			Update("status", models.FundraiserStatusCancelled).Error
	})
}

func (s *PledgeService) activePledgeSum(tx *gorm.DB, fundraiserID uuid.UUID) (int64, error) {
	var sum int64
	err := tx.Model(&models.Pledge{}).
		Where("fundraiser_id = ? AND cancelled_at IS NULL", fundraiserID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum active pledges: %w", err)
	}
	return sum, nil
}

// chargePledge claims the pledge with a compare-and-set before touching the
// processor. A pledge the fan cancelled after the sweep collected it loses
// the claim and is never charged; a pledge another request already realized
// is left alone.
func (s *PledgeService) chargePledge(pledge *models.Pledge) error {
	now := time.Now()
	claim := s.db.Model(&models.Pledge{}).
		Where("id = ? AND cancelled_at IS NULL AND paid_at IS NULL", pledge.ID).
		Update("paid_at", &now)
	if claim.Error != nil {
		return fmt.Errorf("failed to claim pledge: %w", claim.Error)
	}
	if claim.RowsAffected == 0 {
		var current models.Pledge
		if err := s.db.First(&current, "id = ?", pledge.ID).Error; err != nil {
			return fmt.Errorf("failed to reload pledge: %w", err)
		}
		if current.PaidAt != nil {
			return nil
		}
		return ErrPledgeCancelled
	}

	description := fmt.Sprintf("Pledge for %s", pledge.Fundraiser.Title)
	reference, err := s.payments.ChargeSetupIntent(pledge.StripeSetupIntentID, pledge.Amount, pledge.Currency, description)
	if err != nil {
		// Release the claim so the pledge stays chargeable on retry
		s.db.Model(&models.Pledge{}).Where("id = ?", pledge.ID).Update("paid_at", nil)
		return err
	}

	pledge.PaidAt = &now
	return s.db.Model(pledge).Update("payment_reference", reference).Error
}
