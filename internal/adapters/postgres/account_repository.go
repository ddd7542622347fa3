package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

type AccountRepository struct {
	q Executor
}

func NewAccountRepository(db *DB) ports.AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// FindByID retrieves an account by its id
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, phone_number, display_name, balance_cents, subscription_expires_at,
			created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var a domain.Account
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.PhoneNumber,
		&a.DisplayName,
		&a.BalanceCents,
		&a.SubscriptionExpiresAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewAccountNotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

// CreditBalance increments the wallet balance server-side. A read-then-write
// round trip from the application tier would race concurrent settlements for
// the same account; the single-statement increment cannot.
func (r *AccountRepository) CreditBalance(ctx context.Context, id uuid.UUID, amountCents int64) error {
	query := `
		UPDATE accounts
		SET balance_cents = balance_cents + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id, amountCents)
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewAccountNotFoundError(id.String())
	}
	return nil
}

// ExtendSubscription stacks one period onto the subscription window. GREATEST
// picks the later of now and the current expiry, so an active subscription
// keeps its remaining days and an expired one restarts from now.
func (r *AccountRepository) ExtendSubscription(ctx context.Context, id uuid.UUID, period time.Duration) error {
	query := `
		UPDATE accounts
		SET subscription_expires_at =
				GREATEST(NOW(), COALESCE(subscription_expires_at, NOW())) + make_interval(secs => $2),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id, period.Seconds())
	if err != nil {
		return fmt.Errorf("failed to extend subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewAccountNotFoundError(id.String())
	}
	return nil
}
