package postgres

import (
	"context"
	"fmt"

	"github.com/sule1997/cinema-stream/internal/core/ports"
)

type UnitOfWork struct {
	db *DB
}

func NewUnitOfWork(db *DB) ports.UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithinTx executes a function within a database transaction, handing it
// repositories whose executor is the transaction.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ports.TransactionRepository, ports.AccountRepository) error) error {
	tx, err := u.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer rollback in case of panic or error (if commit isn't reached)
	defer tx.Rollback(ctx)

	transactions := &TransactionRepository{
		db: u.db,
		q:  tx, // Switch the executor to the transaction
	}
	accounts := &AccountRepository{q: tx}

	if err := fn(transactions, accounts); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
