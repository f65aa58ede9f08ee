package repository

import (
	"context"
	"time"

	"art-gallery-paywall/internal/domain/model"
)

// SubscriptionRepository persists authoritative subscription records, upserted
// by provider subscription id. Rows are soft-deactivated, never deleted.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, tx Tx, s *model.UserSubscription) error
	// Deactivate marks the subscription with the given provider id inactive.
	// Missing rows are not an error: the delete event may outrun the create.
	Deactivate(ctx context.Context, tx Tx, providerSubID string) error
	FindByProviderSubscriptionID(ctx context.Context, tx Tx, providerSubID string) (*model.UserSubscription, error)
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.UserSubscription, error)
	// DeactivateExpired flips status on rows whose expiry has passed; returns
	// the number of rows changed.
	DeactivateExpired(ctx context.Context, tx Tx, now time.Time) (int64, error)
}
