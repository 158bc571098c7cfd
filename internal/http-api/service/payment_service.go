package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"mangapress/internal/config"
	"mangapress/internal/http-api/dto"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Coins are priced at 100 per US dollar, so one coin is one cent and a
// coin amount converts straight to a Stripe unit_amount.
const (
	CoinsPerUSD        = 100
	MinPurchaseCoins   = 100
	checkoutCompleted  = "checkout.session.completed"
	metadataUserID     = "user_id"
	metadataCoinAmount = "coin_amount"
)

var (
	ErrMinimumPurchase  = fmt.Errorf("minimum purchase is %d coins", MinPurchaseCoins)
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

type PaymentService interface {
	// CreateCheckoutSession opens a provider-hosted payment page for the
	// given coin amount, carrying the buyer's id in opaque metadata for
	// webhook reconciliation.
	CreateCheckoutSession(ctx context.Context, userID string, coinAmount int64) (*dto.CheckoutSessionResponse, error)
	// HandleWebhook verifies the delivery signature and, on a completed
	// checkout, credits the buyer exactly once per provider event id.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	coins         CoinService
	webhookSecret string
	successURL    string
	cancelURL     string
	logger        *slog.Logger

	// seams for tests; production wiring uses the stripe SDK directly
	constructEvent func(payload []byte, header, secret string) (stripe.Event, error)
	createSession  func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewPaymentService(coins CoinService, cfg *config.Config, logger *slog.Logger) PaymentService {
	stripe.Key = cfg.StripeSecretKey
	return &paymentService{
		coins:          coins,
		webhookSecret:  cfg.StripeWebhookSecret,
		successURL:     cfg.CheckoutSuccessURL,
		cancelURL:      cfg.CheckoutCancelURL,
		logger:         logger,
		constructEvent: webhook.ConstructEvent,
		createSession:  session.New,
	}
}

func (s *paymentService) CreateCheckoutSession(ctx context.Context, userID string, coinAmount int64) (*dto.CheckoutSessionResponse, error) {
	if coinAmount < MinPurchaseCoins {
		return nil, ErrMinimumPurchase
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%d coins", coinAmount)),
					},
					UnitAmount: stripe.Int64(coinAmount), // cents
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata(metadataUserID, userID)
	params.AddMetadata(metadataCoinAmount, strconv.FormatInt(coinAmount, 10))

	sess, err := s.createSession(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &dto.CheckoutSessionResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.constructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return ErrInvalidSignature
	}

	if event.Type != checkoutCompleted {
		// Other event types are delivered on the same endpoint; ack and move on.
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("decode checkout session: %w", err)
	}

	userID := sess.Metadata[metadataUserID]
	coinAmount, convErr := strconv.ParseInt(sess.Metadata[metadataCoinAmount], 10, 64)
	if userID == "" || convErr != nil || coinAmount <= 0 {
		return fmt.Errorf("checkout session %s has malformed metadata", sess.ID)
	}

	err = s.coins.CreditPurchase(ctx, userID, coinAmount, event.ID)
	if errors.Is(err, ErrEventProcessed) {
		// Providers redeliver; the first delivery already credited.
		s.logger.Info("skipping replayed webhook event", "event_id", event.ID)
		return nil
	}
	return err
}
