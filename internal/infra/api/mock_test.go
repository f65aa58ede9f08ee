//go:build !integration

package api

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/adapter"
	"art-gallery-paywall/internal/domain/ports/repository"
	"art-gallery-paywall/internal/entitlement"
	"art-gallery-paywall/internal/usecase"
)

type mockIntentUC struct {
	CreateIntentFunc       func(ctx context.Context, req usecase.CreateIntentRequest) (*usecase.CreateIntentResult, error)
	CreateSubscriptionFunc func(ctx context.Context, userID, email string, subType model.SubscriptionType, discounted bool) (*adapter.SubscriptionResult, error)
}

func (m *mockIntentUC) CreateIntent(ctx context.Context, req usecase.CreateIntentRequest) (*usecase.CreateIntentResult, error) {
	return m.CreateIntentFunc(ctx, req)
}

func (m *mockIntentUC) CreateSubscription(ctx context.Context, userID, email string, subType model.SubscriptionType, discounted bool) (*adapter.SubscriptionResult, error) {
	return m.CreateSubscriptionFunc(ctx, userID, email, subType, discounted)
}

type mockWebhookUC struct {
	mu       sync.Mutex
	ingested []*model.ProviderEvent

	IngestFunc func(ctx context.Context, ev *model.ProviderEvent) (usecase.IngestOutcome, error)
}

func (m *mockWebhookUC) Ingest(ctx context.Context, ev *model.ProviderEvent) (usecase.IngestOutcome, error) {
	m.mu.Lock()
	m.ingested = append(m.ingested, ev)
	m.mu.Unlock()
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, ev)
	}
	return usecase.IngestApplied, nil
}

func (m *mockWebhookUC) events() []*model.ProviderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.ProviderEvent(nil), m.ingested...)
}

type mockEntitlementUC struct {
	FetchFunc func(ctx context.Context, userID string) (*entitlement.State, error)
}

func (m *mockEntitlementUC) Fetch(ctx context.Context, userID string) (*entitlement.State, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, userID)
	}
	return entitlement.NewState(), nil
}

type mockArtworkRepo struct {
	repository.ArtworkRepository // embed for forward compatibility

	mu   sync.Mutex
	data []*model.Artwork
}

func (m *mockArtworkRepo) Save(ctx context.Context, tx repository.Tx, a *model.Artwork) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(m.data, a)
	return nil
}

func (m *mockArtworkRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Artwork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.data {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockArtworkRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Artwork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Artwork(nil), m.data...), nil
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
