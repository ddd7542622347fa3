package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the financial state a completed transaction mutates: a wallet
// balance in minor currency units and an optional subscription window.
type Account struct {
	ID                    uuid.UUID
	PhoneNumber           string
	DisplayName           string
	BalanceCents          int64
	SubscriptionExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActiveSubscription reports whether the subscription window covers now.
func (a *Account) HasActiveSubscription(now time.Time) bool {
	return a.SubscriptionExpiresAt != nil && a.SubscriptionExpiresAt.After(now)
}

// NextExpiry computes the expiry after stacking one more period. Extension is
// additive from the later of now and the current expiry, so buying again never
// shortens remaining access.
func (a *Account) NextExpiry(now time.Time, period time.Duration) time.Time {
	if a.SubscriptionExpiresAt != nil && a.SubscriptionExpiresAt.After(now) {
		return a.SubscriptionExpiresAt.Add(period)
	}
	return now.Add(period)
}
