//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/adapter"
	"art-gallery-paywall/internal/domain/ports/repository"
)

// ---------------- Artwork repository ----------------

type MockArtworkRepo struct {
	mu   sync.Mutex
	data map[string]*model.Artwork

	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Artwork, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.Artwork, error)
}

func NewMockArtworkRepo() *MockArtworkRepo {
	return &MockArtworkRepo{data: map[string]*model.Artwork{}}
}

func (m *MockArtworkRepo) Save(ctx context.Context, tx repository.Tx, a *model.Artwork) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.data[a.ID] = &cp
	return nil
}

func (m *MockArtworkRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Artwork, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockArtworkRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Artwork, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Artwork, 0, len(m.data))
	for _, a := range m.data {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// ---------------- Purchase repository ----------------

type MockPurchaseRepo struct {
	mu   sync.Mutex
	data map[string]*model.Purchase // keyed by provider payment id

	InsertIgnoreDuplicateFunc func(ctx context.Context, tx repository.Tx, p *model.Purchase) (bool, error)
	ListByUserFunc            func(ctx context.Context, tx repository.Tx, userID string) ([]*model.Purchase, error)
}

func NewMockPurchaseRepo() *MockPurchaseRepo {
	return &MockPurchaseRepo{data: map[string]*model.Purchase{}}
}

func (m *MockPurchaseRepo) InsertIgnoreDuplicate(ctx context.Context, tx repository.Tx, p *model.Purchase) (bool, error) {
	if m.InsertIgnoreDuplicateFunc != nil {
		return m.InsertIgnoreDuplicateFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[p.ProviderPaymentID]; exists {
		return false, nil
	}
	cp := *p
	m.data[p.ProviderPaymentID] = &cp
	return true, nil
}

func (m *MockPurchaseRepo) FindByProviderPaymentID(ctx context.Context, tx repository.Tx, providerPaymentID string) (*model.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[providerPaymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPurchaseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Purchase, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, tx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Purchase
	for _, p := range m.data {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Count reports how many purchases the mock holds.
func (m *MockPurchaseRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// ---------------- Subscription repository ----------------

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	data map[string]*model.UserSubscription // keyed by provider subscription id

	UpsertFunc     func(ctx context.Context, tx repository.Tx, s *model.UserSubscription) error
	FindByUserFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error)
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{data: map[string]*model.UserSubscription{}}
}

func (m *MockSubscriptionRepo) Upsert(ctx context.Context, tx repository.Tx, s *model.UserSubscription) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.data[s.ProviderSubscriptionID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) Deactivate(ctx context.Context, tx repository.Tx, providerSubID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.data[providerSubID]; ok {
		s.Status = model.SubscriptionStatusInactive
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockSubscriptionRepo) FindByProviderSubscriptionID(ctx context.Context, tx repository.Tx, providerSubID string) (*model.UserSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[providerSubID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, tx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.UserSubscription
	for _, s := range m.data {
		if s.UserID != userID {
			continue
		}
		if latest == nil || s.UpdatedAt.After(latest.UpdatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MockSubscriptionRepo) DeactivateExpired(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.data {
		if s.Status == model.SubscriptionStatusActive && s.ExpiresAt.Before(now) {
			s.Status = model.SubscriptionStatusInactive
			s.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

// ---------------- Webhook event repository ----------------

type MockWebhookEventRepo struct {
	mu   sync.Mutex
	seen map[string]*model.WebhookEvent

	InsertIgnoreDuplicateFunc func(ctx context.Context, tx repository.Tx, ev *model.WebhookEvent) (bool, error)
}

func NewMockWebhookEventRepo() *MockWebhookEventRepo {
	return &MockWebhookEventRepo{seen: map[string]*model.WebhookEvent{}}
}

func (m *MockWebhookEventRepo) InsertIgnoreDuplicate(ctx context.Context, tx repository.Tx, ev *model.WebhookEvent) (bool, error) {
	if m.InsertIgnoreDuplicateFunc != nil {
		return m.InsertIgnoreDuplicateFunc(ctx, tx, ev)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.seen[ev.ProviderEventID]; exists {
		return false, nil
	}
	cp := *ev
	m.seen[ev.ProviderEventID] = &cp
	return true, nil
}

// ---------------- Transaction manager ----------------

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithTx executes fn immediately with NoTX unless a test overrides it.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---------------- Payment gateway ----------------

type MockPaymentGateway struct {
	CreateIntentFunc       func(ctx context.Context, req adapter.IntentRequest) (*model.PaymentIntent, error)
	CreateSubscriptionFunc func(ctx context.Context, req adapter.SubscriptionRequest) (*adapter.SubscriptionResult, error)
}

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, req adapter.IntentRequest) (*model.PaymentIntent, error) {
	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, req)
	}
	return &model.PaymentIntent{
		ProviderIntentID: "pi_mock",
		AmountPence:      req.AmountPence,
		Currency:         req.Currency,
		ClientSecret:     "pi_mock_secret",
		Status:           model.IntentStatusRequiresAction,
		CreatedAt:        time.Now(),
	}, nil
}

func (m *MockPaymentGateway) CreateSubscription(ctx context.Context, req adapter.SubscriptionRequest) (*adapter.SubscriptionResult, error) {
	if m.CreateSubscriptionFunc != nil {
		return m.CreateSubscriptionFunc(ctx, req)
	}
	return &adapter.SubscriptionResult{
		ProviderSubscriptionID: "sub_mock",
		ClientSecret:           "sub_mock_secret",
	}, nil
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
