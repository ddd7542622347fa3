package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    TransactionStatus
		to      TransactionStatus
		allowed bool
	}{
		{"pending to completed", StatusPending, StatusCompleted, true},
		{"pending to failed", StatusPending, StatusFailed, true},
		{"pending to pending", StatusPending, StatusPending, false},
		{"completed to failed", StatusCompleted, StatusFailed, false},
		{"completed to pending", StatusCompleted, StatusPending, false},
		{"failed to completed", StatusFailed, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := &Transaction{Status: tt.from}
			err := txn.CanTransitionTo(tt.to)

			if tt.allowed {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var domainErr *DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, ErrCodeInvalidTransition, domainErr.Code)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, (&Transaction{Status: StatusPending}).IsTerminal())
	assert.True(t, (&Transaction{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Transaction{Status: StatusFailed}).IsTerminal())
}
