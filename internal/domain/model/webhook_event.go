package model

import "time"

// ProviderEventKind is the closed set of payment-provider webhook event kinds
// the ingestor acts on. Everything else maps to ProviderEventIgnored and is
// acknowledged without processing.
type ProviderEventKind string

const (
	ProviderEventPaymentSucceeded    ProviderEventKind = "payment_succeeded"
	ProviderEventSubscriptionUpsert  ProviderEventKind = "subscription_upsert"
	ProviderEventSubscriptionDeleted ProviderEventKind = "subscription_deleted"
	ProviderEventIgnored             ProviderEventKind = "ignored"
)

// PaymentEventData carries the fields the ingestor needs from a succeeded
// payment intent. Attribution comes from intent metadata written server-side
// at intent creation, never from client input.
type PaymentEventData struct {
	ProviderPaymentID string
	UserID            string
	ArtworkID         string // empty for lifetime purchases
	Kind              PurchaseKind
	AmountPence       int64
	Currency          string
}

// SubscriptionEventData carries the fields of a subscription lifecycle event.
type SubscriptionEventData struct {
	ProviderSubscriptionID string
	UserID                 string
	Type                   SubscriptionType
	Active                 bool
}

// ProviderEvent is a tagged variant: exactly one of Payment/Subscription is
// set, according to Kind.
type ProviderEvent struct {
	ID           string // provider event id, e.g. "evt_..."
	Kind         ProviderEventKind
	RawType      string // provider-side event type, for logging
	Payment      *PaymentEventData
	Subscription *SubscriptionEventData
}

// WebhookEvent is the persisted dedup log entry for an ingested provider
// event. ProviderEventID is unique; a second insert of the same id is how
// replays are detected.
type WebhookEvent struct {
	ProviderEventID string
	Type            string
	ReceivedAt      time.Time
}
