package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextExpiry_StacksOnActiveSubscription(t *testing.T) {
	now := time.Now()
	current := now.Add(10 * 24 * time.Hour)
	account := &Account{SubscriptionExpiresAt: &current}

	next := account.NextExpiry(now, 30*24*time.Hour)

	assert.Equal(t, current.Add(30*24*time.Hour), next)
}

func TestNextExpiry_ExpiredSubscriptionStartsFromNow(t *testing.T) {
	now := time.Now()
	lapsed := now.Add(-5 * 24 * time.Hour)
	account := &Account{SubscriptionExpiresAt: &lapsed}

	next := account.NextExpiry(now, 30*24*time.Hour)

	assert.Equal(t, now.Add(30*24*time.Hour), next)
}

func TestNextExpiry_NoSubscriptionStartsFromNow(t *testing.T) {
	now := time.Now()
	account := &Account{}

	next := account.NextExpiry(now, 30*24*time.Hour)

	assert.Equal(t, now.Add(30*24*time.Hour), next)
}

func TestHasActiveSubscription(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.False(t, (&Account{}).HasActiveSubscription(now))
	assert.True(t, (&Account{SubscriptionExpiresAt: &future}).HasActiveSubscription(now))
	assert.False(t, (&Account{SubscriptionExpiresAt: &past}).HasActiveSubscription(now))
}
