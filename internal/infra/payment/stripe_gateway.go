package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*StripeGateway)(nil)

// StripeGateway implements adapter.PaymentGateway on the Stripe API. One
// provider-side object is created per call; idempotency lives downstream in
// the webhook ingestor, not here.
type StripeGateway struct {
	sc *client.API
}

func NewStripeGateway(secretKey string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key empty")
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{sc: sc}, nil
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateIntent(ctx context.Context, req adapter.IntentRequest) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(req.AmountPence),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}

	return &model.PaymentIntent{
		ProviderIntentID: pi.ID,
		Kind:             model.PurchaseKind(req.Metadata["kind"]),
		ArtworkID:        req.Metadata["artworkId"],
		AmountPence:      pi.Amount,
		Currency:         string(pi.Currency),
		ClientSecret:     pi.ClientSecret,
		Status:           intentStatus(pi.Status),
		CreatedAt:        time.Unix(pi.Created, 0),
	}, nil
}

func (g *StripeGateway) CreateSubscription(ctx context.Context, req adapter.SubscriptionRequest) (*adapter.SubscriptionResult, error) {
	customerID, err := g.findOrCreateCustomer(ctx, req.UserID, req.Email)
	if err != nil {
		return nil, err
	}

	interval := "month"
	if req.Type == model.SubscriptionTypeYearly {
		interval = "year"
	}
	price, err := g.sc.Prices.New(&stripe.PriceParams{
		Params:     stripe.Params{Context: ctx},
		UnitAmount: stripe.Int64(req.AmountPence),
		Currency:   stripe.String(req.Currency),
		Recurring:  &stripe.PriceRecurringParams{Interval: stripe.String(interval)},
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(req.ProductName),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("stripe price: %w", err)
	}

	subParams := &stripe.SubscriptionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(price.ID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
	}
	subParams.AddMetadata("userId", req.UserID)
	subParams.AddMetadata("subscriptionType", string(req.Type))
	subParams.AddExpand("latest_invoice.confirmation_secret")

	sub, err := g.sc.Subscriptions.New(subParams)
	if err != nil {
		return nil, fmt.Errorf("stripe subscription: %w", err)
	}

	secret := ""
	if sub.LatestInvoice != nil && sub.LatestInvoice.ConfirmationSecret != nil {
		secret = sub.LatestInvoice.ConfirmationSecret.ClientSecret
	}
	if secret == "" {
		return nil, errors.New("stripe subscription: no client secret on latest invoice")
	}

	return &adapter.SubscriptionResult{
		ProviderSubscriptionID: sub.ID,
		ClientSecret:           secret,
	}, nil
}

// findOrCreateCustomer reuses an existing customer for the identity so repeat
// subscribers do not multiply on the provider side.
func (g *StripeGateway) findOrCreateCustomer(ctx context.Context, userID, email string) (string, error) {
	if email != "" {
		iter := g.sc.Customers.Search(&stripe.CustomerSearchParams{
			SearchParams: stripe.SearchParams{
				Context: ctx,
				Query:   fmt.Sprintf("email:'%s'", email),
			},
		})
		if iter.Next() {
			return iter.Customer().ID, nil
		}
		if err := iter.Err(); err != nil {
			return "", fmt.Errorf("stripe customer search: %w", err)
		}
	}

	params := &stripe.CustomerParams{Params: stripe.Params{Context: ctx}}
	if email != "" {
		params.Email = stripe.String(email)
	}
	params.AddMetadata("userId", userID)
	cus, err := g.sc.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe customer: %w", err)
	}
	return cus.ID, nil
}

func intentStatus(s stripe.PaymentIntentStatus) model.IntentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return model.IntentStatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return model.IntentStatusFailed
	default:
		return model.IntentStatusRequiresAction
	}
}
