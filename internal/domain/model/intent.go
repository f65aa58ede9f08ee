package model

import "time"

type PurchaseKind string

const (
	PurchaseKindSingle       PurchaseKind = "single"
	PurchaseKindBundle       PurchaseKind = "bundle"
	PurchaseKindLifetime     PurchaseKind = "lifetime"
	PurchaseKindSubscription PurchaseKind = "subscription"
)

// ValidPurchaseKind reports whether k names one of the supported kinds.
func ValidPurchaseKind(k PurchaseKind) bool {
	switch k {
	case PurchaseKindSingle, PurchaseKindBundle, PurchaseKindLifetime, PurchaseKindSubscription:
		return true
	}
	return false
}

type IntentStatus string

const (
	IntentStatusRequiresAction IntentStatus = "requires_action" // client must complete payment
	IntentStatusSucceeded      IntentStatus = "succeeded"       // provider confirmed the charge
	IntentStatusFailed         IntentStatus = "failed"          // terminal; never resurrected
)

// PaymentIntent mirrors the provider-side intent object. It is not persisted
// beyond its lifetime: the webhook-derived Purchase is the durable record.
type PaymentIntent struct {
	ProviderIntentID string
	Kind             PurchaseKind
	ArtworkID        string // empty for lifetime/subscription
	AmountPence      int64
	Currency         string
	ClientSecret     string
	Status           IntentStatus
	CreatedAt        time.Time
}
