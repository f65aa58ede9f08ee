package model

import (
	"time"

	"art-gallery-paywall/internal/domain"
)

type SubscriptionType string

const (
	SubscriptionTypeMonthly SubscriptionType = "monthly"
	SubscriptionTypeYearly  SubscriptionType = "yearly"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

// UserSubscription is the authoritative subscription record, upserted by the
// webhook ingestor keyed by ProviderSubscriptionID. Rows are soft-deactivated
// on provider cancellation, never deleted.
type UserSubscription struct {
	ID                     string // UUID
	UserID                 string
	ProviderSubscriptionID string // unique; e.g. "sub_..."
	Type                   SubscriptionType
	Status                 SubscriptionStatus
	ExpiresAt              time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewUserSubscription constructs a subscription granted by a provider event.
// Expiry is one calendar month or one calendar year from now depending on the
// billing interval.
func NewUserSubscription(id, userID, providerSubID string, subType SubscriptionType, active bool, now time.Time) (*UserSubscription, error) {
	if id == "" || userID == "" || providerSubID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if subType != SubscriptionTypeMonthly && subType != SubscriptionTypeYearly {
		return nil, domain.ErrInvalidArgument
	}
	status := SubscriptionStatusInactive
	if active {
		status = SubscriptionStatusActive
	}
	return &UserSubscription{
		ID:                     id,
		UserID:                 userID,
		ProviderSubscriptionID: providerSubID,
		Type:                   subType,
		Status:                 status,
		ExpiresAt:              ExpiryFrom(now, subType),
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

// ExpiryFrom computes the expiry instant for a billing interval starting at t.
// Calendar arithmetic, not a fixed number of hours: one month from Jan 31 is
// handled by time.AddDate's normalization.
func ExpiryFrom(t time.Time, subType SubscriptionType) time.Time {
	if subType == SubscriptionTypeYearly {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// IsActive reports whether the subscription currently grants entitlement.
func (s *UserSubscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.ExpiresAt)
}
