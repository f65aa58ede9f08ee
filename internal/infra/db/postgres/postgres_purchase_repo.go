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

var _ repository.PurchaseRepository = (*purchaseRepo)(nil)

type purchaseRepo struct{ pool *pgxpool.Pool }

func NewPurchaseRepo(pool *pgxpool.Pool) *purchaseRepo {
	return &purchaseRepo{pool: pool}
}

// InsertIgnoreDuplicate relies on the UNIQUE constraint on provider_payment_id:
// concurrent duplicate webhook deliveries race on the constraint, not in Go.
func (r *purchaseRepo) InsertIgnoreDuplicate(ctx context.Context, tx repository.Tx, p *model.Purchase) (bool, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	const q = `
INSERT INTO purchases (id, user_id, artwork_id, provider_payment_id, amount_pence, kind, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (provider_payment_id) DO NOTHING;`

	cmd, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.ArtworkID, p.ProviderPaymentID, p.AmountPence, p.Kind, p.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *purchaseRepo) FindByProviderPaymentID(ctx context.Context, tx repository.Tx, providerPaymentID string) (*model.Purchase, error) {
	const q = `SELECT id, user_id, artwork_id, provider_payment_id, amount_pence, kind, created_at FROM purchases WHERE provider_payment_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, providerPaymentID)
	if err != nil {
		return nil, err
	}

	p := &model.Purchase{}
	if err := row.Scan(&p.ID, &p.UserID, &p.ArtworkID, &p.ProviderPaymentID, &p.AmountPence, &p.Kind, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *purchaseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Purchase, error) {
	const q = `SELECT id, user_id, artwork_id, provider_payment_id, amount_pence, kind, created_at FROM purchases WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Purchase
	for rows.Next() {
		p := new(model.Purchase)
		if err := rows.Scan(&p.ID, &p.UserID, &p.ArtworkID, &p.ProviderPaymentID, &p.AmountPence, &p.Kind, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
