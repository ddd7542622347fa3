package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

// Settler applies the terminal outcome of a transaction. Implemented by
// service.SettlementService; both calls are idempotent per reference.
type Settler interface {
	ApplySuccess(ctx context.Context, reference string) error
	ApplyFailure(ctx context.Context, reference, reason string) error
}

const (
	failureReasonGateway = "gateway_failed"
	failureReasonTimeout = "timeout"
)

// Reconciler watches pending transactions until the gateway reports a
// terminal status or the polling budget runs out. Each watched transaction
// gets its own goroutine; the watcher outlives the HTTP request that created
// the transaction and is detached from its context.
type Reconciler struct {
	gateway  ports.GatewayPort
	statuses *domain.StatusMap
	settler  Settler

	interval    time.Duration
	maxAttempts int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

func NewReconciler(
	gateway ports.GatewayPort,
	statuses *domain.StatusMap,
	settler Settler,
	interval time.Duration,
	maxAttempts int,
	logger *slog.Logger,
) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler{
		gateway:     gateway,
		statuses:    statuses,
		settler:     settler,
		interval:    interval,
		maxAttempts: maxAttempts,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Watch starts reconciling a pending transaction in the background. It
// returns immediately; the caller's context is deliberately not used, so the
// watcher survives the request that initiated the payment.
func (r *Reconciler) Watch(t *domain.Transaction) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reconcile(r.ctx, t.Reference)
	}()
}

// Stop cancels all watchers and waits for them to exit. Transactions still
// pending at shutdown are picked up by the sweeper after restart.
func (r *Reconciler) Stop() {
	r.cancel()
	r.wg.Wait()
}

// reconcile polls the gateway up to maxAttempts times. A transient error
// consumes an attempt like any other check; an exhausted budget marks the
// transaction failed.
func (r *Reconciler) reconcile(ctx context.Context, reference string) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		resp, err := r.gateway.GetStatus(ctx, reference)
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Info("reconciliation interrupted", "reference", reference, "attempt", attempt)
				return
			}
			r.logger.Warn("status check failed",
				"reference", reference,
				"attempt", attempt,
				"error", err,
			)
		} else {
			switch r.statuses.Normalize(resp.RawStatus) {
			case domain.GatewaySuccess:
				if err := r.settler.ApplySuccess(ctx, reference); err != nil {
					r.logger.Error("failed to apply successful payment", "reference", reference, "error", err)
				}
				return
			case domain.GatewayFailed:
				if err := r.settler.ApplyFailure(ctx, reference, failureReasonGateway); err != nil {
					r.logger.Error("failed to mark payment failed", "reference", reference, "error", err)
				}
				return
			}
			// PENDING and UNKNOWN both mean keep polling.
		}

		if attempt == r.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			r.logger.Info("reconciliation interrupted", "reference", reference, "attempt", attempt)
			return
		case <-time.After(r.interval):
		}
	}

	r.logger.Warn("polling budget exhausted", "reference", reference, "attempts", r.maxAttempts)
	if err := r.settler.ApplyFailure(ctx, reference, failureReasonTimeout); err != nil {
		r.logger.Error("failed to mark timed-out payment", "reference", reference, "error", err)
	}
}
