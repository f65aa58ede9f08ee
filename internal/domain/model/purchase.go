package model

import (
	"time"

	"art-gallery-paywall/internal/domain"
)

// Purchase is the authoritative record of a completed payment, written only by
// the webhook ingestor. ProviderPaymentID is globally unique and doubles as
// the idempotency key: re-ingesting the same payment id is a no-op.
type Purchase struct {
	ID                string // UUID
	UserID            string // may be empty for anonymous purchases
	ArtworkID         string // empty for lifetime purchases
	ProviderPaymentID string // unique; e.g. "pi_..."
	AmountPence       int64
	Kind              PurchaseKind
	CreatedAt         time.Time
}

// NewPurchase validates and constructs a purchase record.
func NewPurchase(id, userID, artworkID, providerPaymentID string, amountPence int64, kind PurchaseKind) (*Purchase, error) {
	if id == "" || providerPaymentID == "" || amountPence <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if kind != PurchaseKindLifetime && artworkID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Purchase{
		ID:                id,
		UserID:            userID,
		ArtworkID:         artworkID,
		ProviderPaymentID: providerPaymentID,
		AmountPence:       amountPence,
		Kind:              kind,
		CreatedAt:         time.Now(),
	}, nil
}
