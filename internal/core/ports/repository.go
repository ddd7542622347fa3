package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sule1997/cinema-stream/internal/core/domain"
)

// TransactionRepository defines the interface for the persisted transaction
// ledger. Rows are an audit trail: the core never deletes them.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *domain.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	FindByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	// FindByReferenceForUpdate takes a row-level lock; callers must be inside WithTx.
	FindByReferenceForUpdate(ctx context.Context, reference string) (*domain.Transaction, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error)
	// FindStalePending returns pending rows older than olderThan, for the
	// restart-recovery sweep.
	FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error)
	// UpdateStatus transitions a row to a terminal status. The write is
	// conditioned on the row still being pending; if another writer finalized
	// it first, ErrCodeAlreadyFinalized comes back and nothing changes.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) error
}

// UnitOfWork executes a function with repositories bound to one database
// transaction, so a settlement's account effect and status mark commit or
// roll back together.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(transactions TransactionRepository, accounts AccountRepository) error) error
}

// AccountRepository mutates the financial effect target. Both mutations run
// server-side in a single statement so concurrent settlements of different
// transactions for the same account cannot lose an update.
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	// CreditBalance executes balance = balance + amount atomically.
	CreditBalance(ctx context.Context, id uuid.UUID, amountCents int64) error
	// ExtendSubscription stacks one period from max(now, current expiry).
	ExtendSubscription(ctx context.Context, id uuid.UUID, period time.Duration) error
}

// AccountCache holds the display snapshot of an account so the storefront can
// render balance and subscription state without a database round trip. Misses
// and cache failures are non-fatal; the repository is the source of truth.
type AccountCache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, bool)
	Set(ctx context.Context, account *domain.Account)
	Invalidate(ctx context.Context, id uuid.UUID)
}
