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

const transactionColumns = `id, account_id, reference, amount_cents, phone_number, purpose, status, created_at, updated_at`

type TransactionRepository struct {
	db *DB
	q  Executor
}

func NewTransactionRepository(db *DB) ports.TransactionRepository {
	return &TransactionRepository{
		db: db,
		q:  db.Pool,
	}
}

// Insert saves a new transaction. The reference column carries a unique
// constraint; a second insert with the same gateway reference is a bug
// upstream and surfaces as an error here.
func (r *TransactionRepository) Insert(ctx context.Context, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, account_id, reference, amount_cents, phone_number, purpose, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		t.ID,
		t.AccountID,
		t.Reference,
		t.AmountCents,
		t.PhoneNumber,
		t.Purpose,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("duplicate transaction reference %s: %w", t.Reference, err)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by its internal id
func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	row := r.q.QueryRow(ctx, query, id)
	return scanTransaction(row, id.String())
}

// FindByReference retrieves a transaction by its gateway reference
func (r *TransactionRepository) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`

	row := r.q.QueryRow(ctx, query, reference)
	return scanTransaction(row, reference)
}

// FindByReferenceForUpdate retrieves a transaction with a row-level lock
func (r *TransactionRepository) FindByReferenceForUpdate(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1 FOR UPDATE`

	row := r.q.QueryRow(ctx, query, reference)
	return scanTransaction(row, reference)
}

// FindByAccountID retrieves the transaction history for an account, newest first
func (r *TransactionRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query transactions by account_id: %w", err)
	}

	results, err := pgx.CollectRows(rows, collectTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return results, nil
}

// FindStalePending returns pending transactions older than the cutoff, oldest
// first, so the sweeper can re-attach watchers after a restart.
func (r *TransactionRepository) FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error) {
	cutoff := time.Now().Add(-olderThan)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = 'pending'
			AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale pending transactions: %w", err)
	}

	results, err := pgx.CollectRows(rows, collectTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan stale pending transactions: %w", err)
	}
	return results, nil
}

// UpdateStatus transitions a transaction to a terminal status. The WHERE
// clause conditions the write on the row still being pending, so a writer
// racing a concurrent finalizer loses cleanly instead of overwriting it.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) error {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	if result.RowsAffected() == 0 {
		current, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return findErr
		}
		return domain.NewAlreadyFinalizedError(current.Reference, current.Status)
	}

	return nil
}

func collectTransaction(row pgx.CollectableRow) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Reference,
		&t.AmountCents,
		&t.PhoneNumber,
		&t.Purpose,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return &t, err
}

// scanTransaction scans a pgx.Row into a domain.Transaction.
func scanTransaction(row pgx.Row, key string) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Reference,
		&t.AmountCents,
		&t.PhoneNumber,
		&t.Purpose,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewTransactionNotFoundError(key)
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	return &t, nil
}
