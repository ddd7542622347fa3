package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/worker"
)

func TestSweeper_RewatchesStalePending(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeTopup)

	// Backdate the row past the grace age, as if its watcher died with the
	// previous process.
	stale := *f.txn
	stale.CreatedAt = time.Now().Add(-10 * time.Minute)
	require.NoError(t, f.transactions.Insert(context.Background(), &stale))

	f.gateway.GetStatusFn = func(ctx context.Context, reference string) (*domain.StatusResponse, error) {
		return &domain.StatusResponse{Reference: reference, RawStatus: "success"}, nil
	}

	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Millisecond, 3, testLogger())
	s := worker.NewSweeper(f.transactions, r, time.Minute, 5*time.Minute, 100, testLogger())

	s.RunOnce(context.Background())

	require.Eventually(t, func() bool {
		return f.status() == domain.StatusCompleted
	}, time.Second, time.Millisecond)
	r.Stop()

	assert.Equal(t, int64(1000), f.accounts.Balance(f.account.ID))
}

func TestSweeper_LeavesFreshPendingAlone(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeTopup)

	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Millisecond, 3, testLogger())
	s := worker.NewSweeper(f.transactions, r, time.Minute, 5*time.Minute, 100, testLogger())

	s.RunOnce(context.Background())
	r.Stop()

	assert.Equal(t, domain.StatusPending, f.status())
	assert.Zero(t, f.gateway.GetCalls("GetStatus"))
}

func TestSweeper_DoubleWatchSettlesOnce(t *testing.T) {
	f := newReconcilerFixture(t, domain.PurposeTopup)

	stale := *f.txn
	stale.CreatedAt = time.Now().Add(-10 * time.Minute)
	require.NoError(t, f.transactions.Insert(context.Background(), &stale))

	f.gateway.GetStatusFn = func(ctx context.Context, reference string) (*domain.StatusResponse, error) {
		return &domain.StatusResponse{Reference: reference, RawStatus: "success"}, nil
	}

	r := worker.NewReconciler(f.gateway, domain.NewStatusMap(nil), f.settler, time.Millisecond, 3, testLogger())
	s := worker.NewSweeper(f.transactions, r, time.Minute, 5*time.Minute, 100, testLogger())

	// Sweep twice: both cycles see the same pending row and attach a watcher.
	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	require.Eventually(t, func() bool {
		return f.status() == domain.StatusCompleted
	}, time.Second, time.Millisecond)
	r.Stop()

	assert.Equal(t, int64(1000), f.accounts.Balance(f.account.ID))
	assert.Equal(t, 1, f.accounts.CreditCalls)
}
