package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/sule1997/cinema-stream/internal/core/ports"
)

// Sweeper re-attaches watchers to pending transactions that nobody is
// polling, which happens after a restart or a crash mid-reconciliation. It
// only considers rows older than the grace age, so transactions still inside
// a live watcher's polling budget are left alone. Double-watching a row is
// harmless either way: settlement is idempotent.
type Sweeper struct {
	repo       ports.TransactionRepository
	reconciler *Reconciler

	interval  time.Duration
	graceAge  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewSweeper(
	repo ports.TransactionRepository,
	reconciler *Reconciler,
	interval time.Duration,
	graceAge time.Duration,
	batchSize int,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		repo:       repo,
		reconciler: reconciler,
		interval:   interval,
		graceAge:   graceAge,
		batchSize:  batchSize,
		logger:     logger,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("starting pending-transaction sweeper",
		"interval", s.interval,
		"grace_age", s.graceAge,
		"batch_size", s.batchSize,
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping pending-transaction sweeper")
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

// RunOnce executes a single sweep cycle.
func (s *Sweeper) RunOnce(ctx context.Context) {
	s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	stale, err := s.repo.FindStalePending(ctx, s.graceAge, s.batchSize)
	if err != nil {
		s.logger.Error("failed to fetch stale pending transactions", "error", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	s.logger.Info("re-watching stale pending transactions", "count", len(stale))

	for _, t := range stale {
		s.reconciler.Watch(t)
	}
}
