package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
)

// VerifyAndParse authenticates a raw webhook delivery against the signing
// secret and maps it onto the closed set of provider events the ingestor
// handles. Signature verification is the authentication mechanism for the
// webhook endpoint: nothing in the payload is looked at before it passes.
func VerifyAndParse(payload []byte, sigHeader, secret string) (*model.ProviderEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return mapEvent(&event)
}

func mapEvent(event *stripe.Event) (*model.ProviderEvent, error) {
	out := &model.ProviderEvent{
		ID:      event.ID,
		RawType: string(event.Type),
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("parse payment intent: %w", err)
		}
		out.Kind = model.ProviderEventPaymentSucceeded
		out.Payment = &model.PaymentEventData{
			ProviderPaymentID: pi.ID,
			UserID:            pi.Metadata["userId"],
			ArtworkID:         pi.Metadata["artworkId"],
			Kind:              purchaseKindFromMetadata(pi.Metadata),
			AmountPence:       pi.Amount,
			Currency:          string(pi.Currency),
		}
		return out, nil

	case "customer.subscription.created", "customer.subscription.updated":
		sub, err := parseSubscription(event)
		if err != nil {
			return nil, err
		}
		out.Kind = model.ProviderEventSubscriptionUpsert
		out.Subscription = sub
		return out, nil

	case "customer.subscription.deleted":
		sub, err := parseSubscription(event)
		if err != nil {
			return nil, err
		}
		out.Kind = model.ProviderEventSubscriptionDeleted
		out.Subscription = sub
		return out, nil

	default:
		// Everything else is acknowledged and dropped so the provider does
		// not keep retrying event types we do not handle.
		out.Kind = model.ProviderEventIgnored
		return out, nil
	}
}

func parseSubscription(event *stripe.Event) (*model.SubscriptionEventData, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("parse subscription: %w", err)
	}

	subType := model.SubscriptionTypeYearly
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil && item.Price.Recurring != nil &&
			item.Price.Recurring.Interval == stripe.PriceRecurringIntervalMonth {
			subType = model.SubscriptionTypeMonthly
		}
	}

	return &model.SubscriptionEventData{
		ProviderSubscriptionID: sub.ID,
		UserID:                 sub.Metadata["userId"],
		Type:                   subType,
		Active:                 sub.Status == stripe.SubscriptionStatusActive,
	}, nil
}

func purchaseKindFromMetadata(meta map[string]string) model.PurchaseKind {
	if k := model.PurchaseKind(meta["kind"]); model.ValidPurchaseKind(k) {
		return k
	}
	// Older intents carried "type": "lifetime" instead of a kind.
	if meta["type"] == string(model.PurchaseKindLifetime) {
		return model.PurchaseKindLifetime
	}
	return model.PurchaseKindSingle
}
