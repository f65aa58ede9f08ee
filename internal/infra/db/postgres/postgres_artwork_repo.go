package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
)

var _ repository.ArtworkRepository = (*artworkRepo)(nil)

type artworkRepo struct{ pool *pgxpool.Pool }

func NewArtworkRepo(pool *pgxpool.Pool) *artworkRepo {
	return &artworkRepo{pool: pool}
}

func (r *artworkRepo) Save(ctx context.Context, tx repository.Tx, a *model.Artwork) error {
	const q = `
INSERT INTO artworks (id, title, image_url, blurred_url, price_pence, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  title=$2, image_url=$3, blurred_url=$4, price_pence=$5;`

	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.Title, a.ImageURL, a.BlurredURL, a.PricePence, a.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *artworkRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Artwork, error) {
	const q = `SELECT id, title, image_url, blurred_url, price_pence, created_at FROM artworks WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	a := &model.Artwork{}
	if err := row.Scan(&a.ID, &a.Title, &a.ImageURL, &a.BlurredURL, &a.PricePence, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}

func (r *artworkRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Artwork, error) {
	const q = `SELECT id, title, image_url, blurred_url, price_pence, created_at FROM artworks ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Artwork
	for rows.Next() {
		a := new(model.Artwork)
		if err := rows.Scan(&a.ID, &a.Title, &a.ImageURL, &a.BlurredURL, &a.PricePence, &a.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
