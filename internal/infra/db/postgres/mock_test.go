//go:build !integration

package postgres

import (
	"context"
	"time"

	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
	red "art-gallery-paywall/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerArtworkRepo mocks the database repository that the decorator wraps.
type mockInnerArtworkRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, a *model.Artwork) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Artwork, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.Artwork, error)
}

func (m *mockInnerArtworkRepo) Save(ctx context.Context, tx repository.Tx, a *model.Artwork) error {
	return m.SaveFunc(ctx, tx, a)
}
func (m *mockInnerArtworkRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Artwork, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerArtworkRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Artwork, error) {
	return m.ListAllFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
