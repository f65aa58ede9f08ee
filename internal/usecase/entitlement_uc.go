package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
	"art-gallery-paywall/internal/entitlement"
)

// EntitlementUseCase serves the authoritative entitlement fetch: the server
// side of client reconciliation. It reads the purchase and subscription truth
// written by the webhook ingestor and never mutates anything.
type EntitlementUseCase interface {
	Fetch(ctx context.Context, userID string) (*entitlement.State, error)
}

var _ EntitlementUseCase = (*entitlementUC)(nil)

type entitlementUC struct {
	purchases repository.PurchaseRepository
	subs      repository.SubscriptionRepository
	now       func() time.Time
	log       *zerolog.Logger
}

func NewEntitlementUseCase(purchases repository.PurchaseRepository, subs repository.SubscriptionRepository, logger *zerolog.Logger) *entitlementUC {
	l := logger.With().Str("component", "EntitlementUC").Logger()
	return &entitlementUC{purchases: purchases, subs: subs, now: time.Now, log: &l}
}

func (u *entitlementUC) Fetch(ctx context.Context, userID string) (*entitlement.State, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	records, err := u.purchases.ListByUser(ctx, nil, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	st := entitlement.NewState()
	for _, rec := range records {
		switch rec.Kind {
		case model.PurchaseKindLifetime:
			st.HasLifetimeAccess = true
		default:
			if rec.ArtworkID != "" {
				st.PurchasedArtworkIDs[rec.ArtworkID] = struct{}{}
			}
		}
	}

	sub, err := u.subs.FindByUser(ctx, nil, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if sub != nil && sub.IsActive(u.now()) {
		st.SubscriptionActive = true
	}
	return st, nil
}
