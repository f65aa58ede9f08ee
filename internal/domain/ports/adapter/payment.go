package adapter

import (
	"context"

	"art-gallery-paywall/internal/domain/model"
)

// IntentRequest is what the gateway needs to create a provider-side intent.
// Amount and currency are fixed server-side by the pricing use case before
// this struct is built; metadata carries attribution for the webhook.
type IntentRequest struct {
	AmountPence int64
	Currency    string
	Metadata    map[string]string
}

// SubscriptionRequest creates a provider-side recurring subscription in the
// incomplete state; the returned client secret completes payment client-side.
type SubscriptionRequest struct {
	UserID      string
	Email       string
	Type        model.SubscriptionType
	AmountPence int64
	Currency    string
	ProductName string
}

type SubscriptionResult struct {
	ProviderSubscriptionID string
	ClientSecret           string
}

// PaymentGateway is the hex port for the payment provider.
type PaymentGateway interface {
	Name() string

	// CreateIntent creates one provider-side payment intent per call and
	// returns it with the client secret set. Repeated calls create distinct
	// intents; callers own not re-issuing while one is in flight.
	CreateIntent(ctx context.Context, req IntentRequest) (*model.PaymentIntent, error)

	// CreateSubscription finds or creates the provider customer for the user
	// and opens an incomplete subscription on a recurring price.
	CreateSubscription(ctx context.Context, req SubscriptionRequest) (*SubscriptionResult, error)
}
