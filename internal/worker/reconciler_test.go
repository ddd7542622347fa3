package worker_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/service"
	"github.com/sule1997/cinema-stream/internal/worker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

type reconcilerFixture struct {
	transactions *service.MockTransactionRepository
	accounts     *service.MockAccountRepository
	gateway      *service.MockGatewayPort
	settler      *service.SettlementService
	account      *domain.Account
	txn          *domain.Transaction
}

func newReconcilerFixture(t *testing.T, purpose domain.Purpose) *reconcilerFixture {
	t.Helper()

	transactions := service.NewMockTransactionRepository()
	accounts := service.NewMockAccountRepository()
	cache := service.NewMockAccountCache()
	uow := service.NewMockUnitOfWork(transactions, accounts)

	account := &domain.Account{
		ID:          uuid.New(),
		PhoneNumber: "255712345678",
		DisplayName: "Neema",
	}
	accounts.Seed(account)

	now := time.Now()
	txn := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Reference:   "tran-rec-1",
		AmountCents: 1000,
		PhoneNumber: account.PhoneNumber,
		Purpose:     purpose,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, transactions.Insert(context.Background(), txn))

	return &reconcilerFixture{
		transactions: transactions,
		accounts:     accounts,
		gateway:      &service.MockGatewayPort{},
		settler:      service.NewSettlementService(uow, cache, 30*24*time.Hour, testLogger()),
		account:      account,
		txn:          txn,
	}
}

func (f *reconcilerFixture) status() domain.TransactionStatus {
	stored, err := f.transactions.FindByReference(context.Background(), f.txn.Reference)
	if err != nil {
		return ""
	}
	return stored.Status
}

func TestReconciler_CreditsTopupOnSuccess(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeTopup)

	calls := 0
	f.gateway.GetStatusFn = func(ctx context.Context, reference string) (*domain.StatusResponse, error) {
		calls++
		status := "pending"
		if calls >= 2 {
			status = "success"
		}
		return &domain.StatusResponse{Reference: reference, RawStatus: status}, nil
	}

	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Millisecond, 10, testLogger())
	r.Watch(f.txn)

	require.Eventually(t, func() bool {
		return f.status() == domain.StatusCompleted
	}, time.Second, time.Millisecond)
	r.Stop()

	assert.Equal(t, 2, f.gateway.GetCalls("GetStatus"))
	assert.Equal(t, int64(1000), f.accounts.Balance(f.account.ID))
	assert.Equal(t, 1, f.accounts.CreditCalls)
}

func TestReconciler_ExtendsSubscriptionOnSuccess(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeSubscription)

	f.gateway.GetStatusFn = func(ctx context.Context, reference string) (*domain.StatusResponse, error) {
		return &domain.StatusResponse{Reference: reference, RawStatus: "completed"}, nil
	}

	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Millisecond, 10, testLogger())
	r.Watch(f.txn)

	require.Eventually(t, func() bool {
		return f.status() == domain.StatusCompleted
	}, time.Second, time.Millisecond)
	r.Stop()

	expiry := f.accounts.Expiry(f.account.ID)
	require.NotNil(t, expiry)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *expiry, time.Minute)
	assert.Zero(t, f.accounts.Balance(f.account.ID))
}

func TestReconciler_MarksFailedOnGatewayFailure(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeTopup)

	f.gateway.GetStatusFn = func(ctx context.Context, reference string) (*domain.StatusResponse, error) {
		return &domain.StatusResponse{Reference: reference, RawStatus: "cancelled"}, nil
	}

	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Millisecond, 10, testLogger())
	r.Watch(f.txn)

	require.Eventually(t, func() bool {
		return f.status() == domain.StatusFailed
	}, time.Second, time.Millisecond)
	r.Stop()

	assert.Equal(t, 1, f.gateway.GetCalls("GetStatus"))
	assert.Zero(t, f.accounts.Balance(f.account.ID))
	assert.Zero(t, f.accounts.CreditCalls)
}

func TestReconciler_ExhaustedBudgetMarksFailed(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeTopup)

	f.gateway.GetStatusFn = func(ctx context.Context, reference string) (*domain.StatusResponse, error) {
		return &domain.StatusResponse{Reference: reference, RawStatus: "processing"}, nil
	}

	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Millisecond, 3, testLogger())
	r.Watch(f.txn)

	require.Eventually(t, func() bool {
		return f.status() == domain.StatusFailed
	}, time.Second, time.Millisecond)
	r.Stop()

	assert.Equal(t, 3, f.gateway.GetCalls("GetStatus"))
	assert.Zero(t, f.accounts.Balance(f.account.ID))
}

func TestReconciler_TransientErrorConsumesAttempt(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeTopup)

	calls := 0
	f.gateway.GetStatusFn = func(ctx context.Context, reference string) (*domain.StatusResponse, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return &domain.StatusResponse{Reference: reference, RawStatus: "success"}, nil
	}

	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Millisecond, 10, testLogger())
	r.Watch(f.txn)

	require.Eventually(t, func() bool {
		return f.status() == domain.StatusCompleted
	}, time.Second, time.Millisecond)
	r.Stop()

	assert.Equal(t, 2, f.gateway.GetCalls("GetStatus"))
	assert.Equal(t, int64(1000), f.accounts.Balance(f.account.ID))
}

func TestReconciler_StopLeavesTransactionPending(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeTopup)

	// Long interval so the watcher is parked between attempts when Stop hits.
	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Hour, 10, testLogger())
	r.Watch(f.txn)

	require.Eventually(t, func() bool {
		return f.gateway.GetCalls("GetStatus") == 1
	}, time.Second, time.Millisecond)
	r.Stop()

	assert.Equal(t, domain.StatusPending, f.status())
	assert.Equal(t, 1, f.gateway.GetCalls("GetStatus"))
	assert.Zero(t, f.accounts.Balance(f.account.ID))
}
