// Package domain defines the domain models for the payment service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus represents the current state of a top-up or subscription
// charge in its lifecycle.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Purpose is the financial effect a transaction applies when it completes.
type Purpose string

const (
	PurposeTopup        Purpose = "topup"
	PurposeSubscription Purpose = "subscription"
)

// Transaction represents one mobile-money charge attempt. Reference is the
// gateway-issued identifier, assigned at creation time and never rewritten.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Reference   string
	AmountCents int64
	PhoneNumber string
	Purpose     Purpose
	Status      TransactionStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransitionTo validates whether a transaction can move from its current
// status to the target status. Transitions are one-directional:
//
//   - pending → completed
//   - pending → failed
//
// completed and failed are terminal; nothing moves out of them.
func (t *Transaction) CanTransitionTo(target TransactionStatus) error {
	switch t.Status {
	case StatusPending:
		if target == StatusCompleted || target == StatusFailed {
			return nil
		}
	case StatusCompleted, StatusFailed:
		return NewInvalidTransitionError(t.Status, target)
	}
	return NewInvalidTransitionError(t.Status, target)
}

func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}
