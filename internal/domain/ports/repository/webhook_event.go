package repository

import (
	"context"

	"art-gallery-paywall/internal/domain/model"
)

// WebhookEventRepository is the dedup log for ingested provider events.
type WebhookEventRepository interface {
	// InsertIgnoreDuplicate records the event id. Returns false when the id
	// was already present, i.e. this delivery is a replay.
	InsertIgnoreDuplicate(ctx context.Context, tx Tx, ev *model.WebhookEvent) (bool, error)
}
