//go:build !integration

package model_test

import (
	"testing"
	"time"

	"art-gallery-paywall/internal/domain/model"
)

func TestExpiryFrom(t *testing.T) {
	t.Run("monthly adds one calendar month", func(t *testing.T) {
		start := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
		got := model.ExpiryFrom(start, model.SubscriptionTypeMonthly)
		want := time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("yearly adds one calendar year", func(t *testing.T) {
		start := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
		got := model.ExpiryFrom(start, model.SubscriptionTypeYearly)
		want := time.Date(2027, time.March, 15, 10, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("month-end start dates normalize forward", func(t *testing.T) {
		// One month after Jan 31 lands on Mar 2/3 rather than a nonexistent
		// Feb 31. AddDate normalization is the intended behavior.
		start := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
		got := model.ExpiryFrom(start, model.SubscriptionTypeMonthly)
		want := start.AddDate(0, 1, 0)
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		if got.Before(start.AddDate(0, 0, 28)) {
			t.Errorf("expiry %v is implausibly early", got)
		}
	})
}

func TestUserSubscription_IsActive(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		status model.SubscriptionStatus
		expiry time.Time
		want   bool
	}{
		{"active and unexpired", model.SubscriptionStatusActive, now.AddDate(0, 0, 10), true},
		{"active but expired", model.SubscriptionStatusActive, now.AddDate(0, 0, -1), false},
		{"inactive even if unexpired", model.SubscriptionStatusInactive, now.AddDate(0, 0, 10), false},
		{"expiring this instant", model.SubscriptionStatusActive, now, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &model.UserSubscription{Status: tc.status, ExpiresAt: tc.expiry}
			if got := sub.IsActive(now); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNewPurchase(t *testing.T) {
	t.Run("single purchase requires an artwork id", func(t *testing.T) {
		if _, err := model.NewPurchase("p1", "u1", "", "pi_1", 500, model.PurchaseKindSingle); err == nil {
			t.Error("expected an error for a single purchase with no artwork")
		}
	})

	t.Run("lifetime purchase needs no artwork id", func(t *testing.T) {
		if _, err := model.NewPurchase("p1", "u1", "", "pi_1", 4900, model.PurchaseKindLifetime); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("anonymous purchases are allowed", func(t *testing.T) {
		if _, err := model.NewPurchase("p1", "", "art-1", "pi_1", 500, model.PurchaseKindSingle); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("provider payment id is required", func(t *testing.T) {
		if _, err := model.NewPurchase("p1", "u1", "art-1", "", 500, model.PurchaseKindSingle); err == nil {
			t.Error("expected an error for a missing payment id")
		}
	})

	t.Run("amount must be positive", func(t *testing.T) {
		if _, err := model.NewPurchase("p1", "u1", "art-1", "pi_1", 0, model.PurchaseKindSingle); err == nil {
			t.Error("expected an error for a zero amount")
		}
	})
}

func TestNewArtwork(t *testing.T) {
	t.Run("valid artwork", func(t *testing.T) {
		a, err := model.NewArtwork("a1", "Title", "/img.jpg", "/img_blur.jpg", 500)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if a.Price() != 5.00 {
			t.Errorf("expected decimal price 5.00, got %v", a.Price())
		}
	})

	t.Run("price must be positive", func(t *testing.T) {
		if _, err := model.NewArtwork("a1", "Title", "/img.jpg", "", -100); err == nil {
			t.Error("expected an error for a negative price")
		}
	})
}
