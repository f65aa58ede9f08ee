package repository

import (
	"context"

	"art-gallery-paywall/internal/domain/model"
)

// PurchaseRepository persists authoritative purchase records. Inserts are
// keyed by the provider payment id: the unique constraint is the concurrency
// primitive that makes duplicate webhook deliveries safe.
type PurchaseRepository interface {
	// InsertIgnoreDuplicate inserts p unless a record with the same provider
	// payment id already exists. Returns true when a new row was written.
	InsertIgnoreDuplicate(ctx context.Context, tx Tx, p *model.Purchase) (bool, error)
	FindByProviderPaymentID(ctx context.Context, tx Tx, providerPaymentID string) (*model.Purchase, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Purchase, error)
}
