package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
)

// IngestOutcome tells the transport layer what happened so it can answer the
// processor correctly. Every outcome except a persistence error maps to 200.
type IngestOutcome string

const (
	IngestApplied   IngestOutcome = "applied"
	IngestDuplicate IngestOutcome = "duplicate"
	IngestIgnored   IngestOutcome = "ignored"
)

// WebhookUseCase is the single writer of purchase/subscription truth. The
// transport layer verifies the provider signature before anything reaches
// Ingest; this use case only sees authenticated, already-parsed events.
type WebhookUseCase interface {
	Ingest(ctx context.Context, ev *model.ProviderEvent) (IngestOutcome, error)
}

var _ WebhookUseCase = (*webhookUC)(nil)

type webhookUC struct {
	purchases repository.PurchaseRepository
	subs      repository.SubscriptionRepository
	events    repository.WebhookEventRepository
	tm        repository.TransactionManager
	now       func() time.Time
	log       *zerolog.Logger
}

func NewWebhookUseCase(
	purchases repository.PurchaseRepository,
	subs repository.SubscriptionRepository,
	events repository.WebhookEventRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *webhookUC {
	l := logger.With().Str("component", "WebhookUC").Logger()
	return &webhookUC{
		purchases: purchases,
		subs:      subs,
		events:    events,
		tm:        tm,
		now:       time.Now,
		log:       &l,
	}
}

// Ingest applies one provider event. The event-id dedup row and the domain
// write share a transaction, so a crash between them cannot strand a half
// applied event; the provider retries and the whole unit repeats cleanly.
// Even without the event log, the provider payment/subscription id uniqueness
// makes the domain writes safe to repeat.
func (u *webhookUC) Ingest(ctx context.Context, ev *model.ProviderEvent) (IngestOutcome, error) {
	if ev == nil || ev.ID == "" {
		return "", domain.ErrInvalidArgument
	}

	if ev.Kind == model.ProviderEventIgnored {
		// Unrecognized types are acknowledged so the processor does not retry
		// events we will never understand.
		u.log.Debug().Str("event_id", ev.ID).Str("type", ev.RawType).Msg("provider event ignored")
		return IngestIgnored, nil
	}

	outcome := IngestApplied
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		fresh, err := u.events.InsertIgnoreDuplicate(ctx, tx, &model.WebhookEvent{
			ProviderEventID: ev.ID,
			Type:            ev.RawType,
			ReceivedAt:      u.now(),
		})
		if err != nil {
			return err
		}
		if !fresh {
			outcome = IngestDuplicate
			return nil
		}

		switch ev.Kind {
		case model.ProviderEventPaymentSucceeded:
			return u.applyPayment(ctx, tx, ev)
		case model.ProviderEventSubscriptionUpsert:
			return u.applySubscriptionUpsert(ctx, tx, ev)
		case model.ProviderEventSubscriptionDeleted:
			return u.subs.Deactivate(ctx, tx, ev.Subscription.ProviderSubscriptionID)
		default:
			return domain.ErrInvalidArgument
		}
	})
	if err != nil {
		u.log.Error().Err(err).Str("event_id", ev.ID).Str("type", ev.RawType).Msg("webhook ingest failed")
		return "", err
	}

	if outcome == IngestDuplicate {
		u.log.Info().Str("event_id", ev.ID).Msg("duplicate provider event, no-op")
	}
	return outcome, nil
}

func (u *webhookUC) applyPayment(ctx context.Context, tx repository.Tx, ev *model.ProviderEvent) error {
	p := ev.Payment
	if p == nil || p.ProviderPaymentID == "" {
		return domain.ErrInvalidArgument
	}
	// Payments without attribution metadata are not ours to record; the
	// original behavior acknowledges and skips them.
	if p.Kind != model.PurchaseKindLifetime && p.ArtworkID == "" {
		u.log.Warn().Str("payment_id", p.ProviderPaymentID).Msg("payment without artwork attribution, skipped")
		return nil
	}

	rec, err := model.NewPurchase(uuid.NewString(), p.UserID, p.ArtworkID, p.ProviderPaymentID, p.AmountPence, p.Kind)
	if err != nil {
		return err
	}
	inserted, err := u.purchases.InsertIgnoreDuplicate(ctx, tx, rec)
	if err != nil {
		return err
	}
	if inserted {
		u.log.Info().
			Str("payment_id", p.ProviderPaymentID).
			Str("artwork_id", p.ArtworkID).
			Str("kind", string(p.Kind)).
			Int64("amount_pence", p.AmountPence).
			Msg("purchase recorded")
	}
	return nil
}

func (u *webhookUC) applySubscriptionUpsert(ctx context.Context, tx repository.Tx, ev *model.ProviderEvent) error {
	s := ev.Subscription
	if s == nil || s.ProviderSubscriptionID == "" {
		return domain.ErrInvalidArgument
	}
	if s.UserID == "" {
		u.log.Warn().Str("subscription_id", s.ProviderSubscriptionID).Msg("subscription without user attribution, skipped")
		return nil
	}

	now := u.now()
	existing, err := u.subs.FindByProviderSubscriptionID(ctx, tx, s.ProviderSubscriptionID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if existing != nil {
		existing.Type = s.Type
		existing.Status = model.SubscriptionStatusInactive
		if s.Active {
			existing.Status = model.SubscriptionStatusActive
		}
		existing.ExpiresAt = model.ExpiryFrom(now, s.Type)
		existing.UpdatedAt = now
		return u.subs.Upsert(ctx, tx, existing)
	}

	sub, err := model.NewUserSubscription(uuid.NewString(), s.UserID, s.ProviderSubscriptionID, s.Type, s.Active, now)
	if err != nil {
		return err
	}
	return u.subs.Upsert(ctx, tx, sub)
}
