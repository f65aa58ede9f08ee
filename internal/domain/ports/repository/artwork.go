package repository

import (
	"context"

	"art-gallery-paywall/internal/domain/model"
)

// ArtworkRepository is the port for the canonical artwork table. The price it
// returns is the only price the system trusts.
type ArtworkRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Artwork) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Artwork, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Artwork, error)
}
