package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subCols = `id, user_id, provider_subscription_id, type, status, expires_at, created_at, updated_at`

func (r *subscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, s *model.UserSubscription) error {
	const q = `
INSERT INTO subscriptions (id, user_id, provider_subscription_id, type, status, expires_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (provider_subscription_id) DO UPDATE SET
  type=$4, status=$5, expires_at=$6, updated_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.ProviderSubscriptionID, s.Type, s.Status, s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) Deactivate(ctx context.Context, tx repository.Tx, providerSubID string) error {
	const q = `UPDATE subscriptions SET status='inactive', updated_at=NOW() WHERE provider_subscription_id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, providerSubID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByProviderSubscriptionID(ctx context.Context, tx repository.Tx, providerSubID string) (*model.UserSubscription, error) {
	q := `SELECT ` + subCols + ` FROM subscriptions WHERE provider_subscription_id=$1;`
	return r.findOne(ctx, tx, q, providerSubID)
}

func (r *subscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	// Most recently updated row wins when a user has churned through several.
	q := `SELECT ` + subCols + ` FROM subscriptions WHERE user_id=$1 ORDER BY updated_at DESC LIMIT 1;`
	return r.findOne(ctx, tx, q, userID)
}

func (r *subscriptionRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.UserSubscription, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}

	s := &model.UserSubscription{}
	if err := row.Scan(&s.ID, &s.UserID, &s.ProviderSubscriptionID, &s.Type, &s.Status, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *subscriptionRepo) DeactivateExpired(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	const q = `UPDATE subscriptions SET status='inactive', updated_at=NOW() WHERE status='active' AND expires_at < $1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return cmd.RowsAffected(), nil
}
