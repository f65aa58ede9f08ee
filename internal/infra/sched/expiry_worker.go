package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"art-gallery-paywall/internal/domain/ports/repository"
	"art-gallery-paywall/internal/infra/metrics"
)

// ExpiryWorker periodically deactivates subscriptions whose paid period has
// lapsed. Provider deletion events normally handle this; the sweep catches
// deliveries that never arrived.
type ExpiryWorker struct {
	interval time.Duration
	subs     repository.SubscriptionRepository
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subs repository.SubscriptionRepository, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		subs:     subs,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	// Run once on startup, then on every tick
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	n, err := w.subs.DeactivateExpired(ctx, nil, time.Now())
	if err != nil {
		w.log.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	if n > 0 {
		metrics.IncSubscriptionsExpired(n)
		w.log.Info().Int64("count", n).Msg("expired subscriptions deactivated")
	}
}
