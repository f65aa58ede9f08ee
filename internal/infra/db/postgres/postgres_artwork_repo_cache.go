package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
	"art-gallery-paywall/internal/infra/metrics"
	red "art-gallery-paywall/internal/infra/redis"
)

var _ repository.ArtworkRepository = (*artworkRepoCacheDecorator)(nil)

// artworkRepoCacheDecorator caches artwork reads in Redis. The TTL must stay
// short: the price validator consults this repo, and a stale canonical price
// would let an out-of-date claimed price pass. Price changes therefore take
// at most the TTL to bite.
type artworkRepoCacheDecorator struct {
	inner repository.ArtworkRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewArtworkRepoCacheDecorator(inner repository.ArtworkRepository, cache red.RedisClient, ttl time.Duration) repository.ArtworkRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &artworkRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *artworkRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Artwork, error) {
	key := fmt.Sprintf("artwork:%s", id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		metrics.IncCacheRequest("artwork", "hit")
		var a model.Artwork
		if json.Unmarshal([]byte(val), &a) == nil {
			return &a, nil
		}
	} else if err != redis.Nil {
		// Redis being down must not take pricing down; fall through to the DB.
	}

	metrics.IncCacheRequest("artwork", "miss")
	a, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if a != nil {
		bytes, _ := json.Marshal(a)
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return a, nil
}

// Save invalidates before writing through so readers never see the old price
// past the delete.
func (d *artworkRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, a *model.Artwork) error {
	_ = d.cache.Del(ctx, fmt.Sprintf("artwork:%s", a.ID))
	return d.inner.Save(ctx, tx, a)
}

// ListAll is a gallery read, not a pricing read; it skips the cache.
func (d *artworkRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Artwork, error) {
	return d.inner.ListAll(ctx, tx)
}
