// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/setupintent"
	"gorm.io/gorm"

	"github.com/tonearm/tonearm-backend/internal/config"
	"github.com/tonearm/tonearm-backend/internal/models"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

// PaymentService wraps the Stripe gateway and owns the checkout flow.
// Purchase rows are created only once the processor confirms payment, and
// are immutable afterwards.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
	fees   *FeeService
}

func NewPaymentService(db *gorm.DB, config *config.Config, fees *FeeService) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
		fees:   fees,
	}
}

type CheckoutRequest struct {
	Kind            models.SaleKind `json:"kind" validate:"required,oneof=track trackGroup merch subscription tip"`
	ItemID          *uuid.UUID      `json:"item_id"`
	ArtistID        *uuid.UUID      `json:"artist_id"`
	Amount          int64           `json:"amount" validate:"omitempty,min=1"`
	Message         *string         `json:"message"`
	ShippingAddress models.JSONB    `json:"shipping_address"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

// CreateCheckoutIntent prices the requested item and opens a Stripe
// PaymentIntent carrying enough metadata to record the purchase on
// confirmation.
func (s *PaymentService) CreateCheckoutIntent(userID uuid.UUID, req *CheckoutRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	amount, currency, err := s.priceCheckout(req)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("user_id", userID.String())
	params.AddMetadata("kind", string(req.Kind))
	if req.ItemID != nil {
		params.AddMetadata("item_id", req.ItemID.String())
	}
	if req.ArtistID != nil {
		params.AddMetadata("artist_id", req.ArtistID.String())
	}
	if req.Message != nil {
		params.AddMetadata("message", *req.Message)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

func (s *PaymentService) priceCheckout(req *CheckoutRequest) (int64, string, error) {
	switch req.Kind {
	case models.SaleKindTrack:
		if req.ItemID == nil {
			return 0, "", errors.New("item_id is required for track purchases")
		}
		var track models.Track
		if err := s.db.First(&track, "id = ?", *req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", ErrTrackNotFound
			}
			return 0, "", err
		}
		return track.Price, track.Currency, nil

	case models.SaleKindTrackGroup:
		if req.ItemID == nil {
			return 0, "", errors.New("item_id is required for release purchases")
		}
		var trackGroup models.TrackGroup
		if err := s.db.First(&trackGroup, "id = ? AND published = true", *req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", ErrTrackGroupNotFound
			}
			return 0, "", err
		}
		// Fans may pay more than the asking price
		amount := trackGroup.Price
		if req.Amount > amount {
			amount = req.Amount
		}
		return amount, trackGroup.Currency, nil

	case models.SaleKindMerch:
		if req.ItemID == nil {
			return 0, "", errors.New("item_id is required for merch purchases")
		}
		var merch models.Merch
		if err := s.db.First(&merch, "id = ?", *req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", ErrMerchNotFound
			}
			return 0, "", err
		}
		return merch.Price + merch.FlatShippingFee, merch.Currency, nil

	case models.SaleKindSubscription:
		if req.ItemID == nil {
			return 0, "", errors.New("item_id is required for subscriptions")
		}
		var tier models.SubscriptionTier
		if err := s.db.First(&tier, "id = ?", *req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", ErrArtistNotFound
			}
			return 0, "", err
		}
		amount := tier.MinAmount
		if req.Amount > amount {
			amount = req.Amount
		}
		return amount, tier.Currency, nil

	case models.SaleKindTip:
		if req.ArtistID == nil {
			return 0, "", errors.New("artist_id is required for tips")
		}
		if req.Amount <= 0 {
			return 0, "", ErrAmountTooSmall
		}
		var artist models.Artist
		if err := s.db.First(&artist, "id = ?", *req.ArtistID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", ErrArtistNotFound
			}
			return 0, "", err
		}
		currency := "usd"
		if req.ItemID != nil {
			var tier models.TipTier
			if err := s.db.First(&tier, "id = ?", *req.ItemID).Error; err == nil {
				currency = tier.Currency
			}
		}
		return req.Amount, currency, nil
	}

	return 0, "", fmt.Errorf("unknown checkout kind %q", req.Kind)
}

// ConfirmCheckout records the purchase once the processor reports the
// payment intent as succeeded. The row written here is the immutable source
// of truth the sale aggregator reads.
func (s *PaymentService) ConfirmCheckout(paymentIntentID string) error {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("payment intent %s is %s, not succeeded", pi.ID, pi.Status)
	}

	userID, err := uuid.Parse(pi.Metadata["user_id"])
	if err != nil {
		return fmt.Errorf("payment intent %s carries no user id: %w", pi.ID, err)
	}

	// Confirmation webhooks can be delivered more than once
	if s.alreadyRecorded(pi.ID) {
		logrus.WithField("payment_intent", pi.ID).Info("checkout already recorded")
		return nil
	}

	kind := models.SaleKind(pi.Metadata["kind"])
	currency := string(pi.Currency)
	amount := pi.Amount
	now := time.Now()

	platformCut, err := s.fees.AppFee(amount, currency, nil)
	if err != nil {
		return err
	}
	// Processor cut is reconciled later from gateway reports
	var processorCut int64

	switch kind {
	case models.SaleKindTrack:
		itemID, err := uuid.Parse(pi.Metadata["item_id"])
		if err != nil {
			return fmt.Errorf("invalid item id on payment intent %s: %w", pi.ID, err)
		}
		return s.db.Create(&models.TrackPurchase{
			UserID: userID, TrackID: itemID,
			PricePaid: amount, Currency: currency,
			PlatformCut: platformCut, ProcessorCut: processorCut,
			DatePurchased: now, PaymentReference: pi.ID,
		}).Error

	case models.SaleKindTrackGroup:
		itemID, err := uuid.Parse(pi.Metadata["item_id"])
		if err != nil {
			return fmt.Errorf("invalid item id on payment intent %s: %w", pi.ID, err)
		}
		var message *string
		if text, ok := pi.Metadata["message"]; ok && text != "" {
			message = &text
		}
		return s.db.Create(&models.TrackGroupPurchase{
			UserID: userID, TrackGroupID: itemID,
			PricePaid: amount, Currency: currency,
			PlatformCut: platformCut, ProcessorCut: processorCut,
			DatePurchased: now, Message: message, PaymentReference: pi.ID,
		}).Error

	case models.SaleKindMerch:
		itemID, err := uuid.Parse(pi.Metadata["item_id"])
		if err != nil {
			return fmt.Errorf("invalid item id on payment intent %s: %w", pi.ID, err)
		}
		var merch models.Merch
		if err := s.db.First(&merch, "id = ?", itemID).Error; err != nil {
			return fmt.Errorf("merch %s not found for confirmed payment: %w", itemID, err)
		}
		pricePaid := amount - merch.FlatShippingFee
		if pricePaid < 0 {
			pricePaid = amount
		}
		platformCut, err := s.fees.AppFee(pricePaid, currency, nil)
		if err != nil {
			return err
		}
		return s.db.Create(&models.MerchPurchase{
			UserID: userID, MerchID: itemID,
			PricePaid: pricePaid, Currency: currency,
			PlatformCut: platformCut, ProcessorCut: processorCut,
			ShippingFee: merch.FlatShippingFee, DatePurchased: now,
			PaymentReference: pi.ID,
		}).Error

	case models.SaleKindSubscription:
		itemID, err := uuid.Parse(pi.Metadata["item_id"])
		if err != nil {
			return fmt.Errorf("invalid item id on payment intent %s: %w", pi.ID, err)
		}
		var tier models.SubscriptionTier
		if err := s.db.First(&tier, "id = ?", itemID).Error; err != nil {
			return fmt.Errorf("subscription tier %s not found for confirmed payment: %w", itemID, err)
		}
		return s.db.Create(&models.SubscriptionPayment{
			UserID: userID, SubscriptionTierID: itemID,
			Amount: amount, Currency: currency,
			PlatformCut: platformCut, ProcessorCut: processorCut,
			Interval: tier.Interval, DatePurchased: now,
			PaymentReference: pi.ID,
		}).Error

	case models.SaleKindTip:
		artistID, err := uuid.Parse(pi.Metadata["artist_id"])
		if err != nil {
			return fmt.Errorf("invalid artist id on payment intent %s: %w", pi.ID, err)
		}
		tip := &models.Tip{
			UserID: userID, ArtistID: artistID,
			PricePaid: amount, Currency: currency,
			PlatformCut: platformCut, ProcessorCut: processorCut,
			DatePurchased: now, PaymentReference: pi.ID,
		}
		if raw, ok := pi.Metadata["item_id"]; ok {
			if tierID, err := uuid.Parse(raw); err == nil {
				tip.TipTierID = &tierID
			}
		}
		return s.db.Create(tip).Error
	}

	return fmt.Errorf("unknown checkout kind %q on payment intent %s", kind, pi.ID)
}

func (s *PaymentService) alreadyRecorded(paymentReference string) bool {
	for _, model := range []interface{}{
		&models.TrackPurchase{}, &models.TrackGroupPurchase{}, &models.MerchPurchase{},
		&models.SubscriptionPayment{}, &models.Tip{},
	} {
		var count int64
		s.db.Model(model).Where("payment_reference = ?", paymentReference).Count(&count)
		if count > 0 {
			return true
		}
	}
	return false
}

// EnsureCustomer returns the user's Stripe customer id, creating one the
// first time a payment method needs to go on file.
func (s *PaymentService) EnsureCustomer(user *models.User) (string, error) {
	if user.StripeCustomer != "" {
		return user.StripeCustomer, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name()),
	}
	params.AddMetadata("user_id", user.ID.String())

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	if err := s.db.Model(user).Update("stripe_customer", cust.ID).Error; err != nil {
		return "", fmt.Errorf("failed to store customer id: %w", err)
	}
	user.StripeCustomer = cust.ID
	return cust.ID, nil
}

// CreateSetupIntent puts a payment method on file without moving funds.
func (s *PaymentService) CreateSetupIntent(customerID string, metadata map[string]string) (*stripe.SetupIntent, error) {
	params := &stripe.SetupIntentParams{
		Customer: stripe.String(customerID),
		Usage:    stripe.String("off_session"),
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	si, err := setupintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create setup intent: %w", err)
	}
	return si, nil
}

// ChargeSetupIntent charges a previously stored payment method off-session.
func (s *PaymentService) ChargeSetupIntent(setupIntentID string, amount int64, currency, description string) (string, error) {
	si, err := setupintent.Get(setupIntentID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get setup intent: %w", err)
	}
	if si.Status != stripe.SetupIntentStatusSucceeded {
		return "", fmt.Errorf("setup intent %s is %s, payment method not on file", si.ID, si.Status)
	}
	if si.PaymentMethod == nil || si.Customer == nil {
		return "", fmt.Errorf("setup intent %s has no stored payment method", si.ID)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(currency),
		Customer:      stripe.String(si.Customer.ID),
		PaymentMethod: stripe.String(si.PaymentMethod.ID),
		OffSession:    stripe.Bool(true),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(description),
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to charge stored payment method: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("charge %s did not succeed: %s", pi.ID, pi.Status)
	}
	return pi.ID, nil
}

// GetSetupIntent reports whether a pledge's payment method is confirmed.
func (s *PaymentService) GetSetupIntent(setupIntentID string) (*stripe.SetupIntent, error) {
	si, err := setupintent.Get(setupIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get setup intent: %w", err)
	}
	return si, nil
}
