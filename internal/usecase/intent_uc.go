package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/adapter"
)

// CreateIntentRequest is the validated input for intent creation. ClaimedPrice
// is in decimal pounds as sent by the client; it is never used as the charge
// amount, only checked against the canonical price.
type CreateIntentRequest struct {
	Kind         model.PurchaseKind
	ArtworkID    string
	UserID       string // empty for anonymous purchases
	ClaimedPrice float64
	Quantity     int
}

// CreateIntentResult is what the client needs to complete payment.
type CreateIntentResult struct {
	ClientSecret string
	Artwork      *model.Artwork // nil for lifetime
}

// IntentUseCase issues provider-side payment intents. Every call re-runs the
// price-integrity validation and creates one distinct intent; abandoned
// intents expire on the provider side and are never resurrected here.
type IntentUseCase interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*CreateIntentResult, error)
	CreateSubscription(ctx context.Context, userID, email string, subType model.SubscriptionType, discounted bool) (*adapter.SubscriptionResult, error)
}

var _ IntentUseCase = (*intentUC)(nil)

type intentUC struct {
	pricing  PricingUseCase
	gateway  adapter.PaymentGateway
	currency string
	timeout  time.Duration
	log      *zerolog.Logger
}

// NewIntentUseCase constructs the issuer. timeout bounds the outbound provider
// call; on expiry the request fails closed with no intent returned.
func NewIntentUseCase(pricing PricingUseCase, gateway adapter.PaymentGateway, currency string, timeout time.Duration, logger *zerolog.Logger) *intentUC {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	l := logger.With().Str("component", "IntentUC").Logger()
	return &intentUC{pricing: pricing, gateway: gateway, currency: currency, timeout: timeout, log: &l}
}

func (u *intentUC) CreateIntent(ctx context.Context, req CreateIntentRequest) (*CreateIntentResult, error) {
	if !model.ValidPurchaseKind(req.Kind) || req.Kind == model.PurchaseKindSubscription {
		return nil, domain.ErrInvalidArgument
	}
	if (req.Kind == model.PurchaseKindSingle || req.Kind == model.PurchaseKindBundle) && req.ArtworkID == "" {
		return nil, domain.ErrInvalidArgument
	}

	// Validator failures are returned verbatim: no intent is created.
	art, amount, err := u.pricing.Validate(ctx, req.Kind, req.ArtworkID, req.ClaimedPrice, req.Quantity)
	if err != nil {
		return nil, err
	}

	// Metadata lets the webhook attribute the payment later without
	// re-trusting any client input.
	meta := map[string]string{"kind": string(req.Kind)}
	if art != nil {
		meta["artworkId"] = art.ID
	}
	if req.UserID != "" {
		meta["userId"] = req.UserID
	}

	cctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	intent, err := u.gateway.CreateIntent(cctx, adapter.IntentRequest{
		AmountPence: amount,
		Currency:    u.currency,
		Metadata:    meta,
	})
	if err != nil {
		u.log.Error().Err(err).Str("kind", string(req.Kind)).Msg("provider intent creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentProvider, err)
	}

	u.log.Info().
		Str("kind", string(req.Kind)).
		Str("intent_id", intent.ProviderIntentID).
		Int64("amount_pence", amount).
		Msg("payment intent created")

	return &CreateIntentResult{ClientSecret: intent.ClientSecret, Artwork: art}, nil
}

func (u *intentUC) CreateSubscription(ctx context.Context, userID, email string, subType model.SubscriptionType, discounted bool) (*adapter.SubscriptionResult, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if subType != model.SubscriptionTypeMonthly && subType != model.SubscriptionTypeYearly {
		return nil, domain.ErrInvalidArgument
	}

	name := "Gallery Monthly Subscription"
	if subType == model.SubscriptionTypeYearly {
		name = "Gallery Yearly Subscription"
	}

	cctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	res, err := u.gateway.CreateSubscription(cctx, adapter.SubscriptionRequest{
		UserID:      userID,
		Email:       email,
		Type:        subType,
		AmountPence: SubscriptionPricePence(subType, discounted),
		Currency:    u.currency,
		ProductName: name,
	})
	if err != nil {
		u.log.Error().Err(err).Str("type", string(subType)).Msg("provider subscription creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentProvider, err)
	}

	u.log.Info().
		Str("type", string(subType)).
		Str("subscription_id", res.ProviderSubscriptionID).
		Msg("subscription created")
	return res, nil
}
