package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

// Failure reasons recorded in the log stream. The ledger only stores the
// terminal status; the reason distinguishes an explicit gateway failure from
// a reconciliation timeout, which the UI surfaces differently.
const (
	FailureReasonGateway = "gateway_failed"
	FailureReasonTimeout = "timeout"
)

// SettlementService is the sole writer of a transaction's financial effect.
// Both the server reconciler and the client-driven confirm path converge
// here, so every entry point is idempotent per transaction reference.
type SettlementService struct {
	uow                ports.UnitOfWork
	cache              ports.AccountCache
	subscriptionPeriod time.Duration
	logger             *slog.Logger
}

func NewSettlementService(
	uow ports.UnitOfWork,
	cache ports.AccountCache,
	subscriptionPeriod time.Duration,
	logger *slog.Logger,
) *SettlementService {
	return &SettlementService{
		uow:                uow,
		cache:              cache,
		subscriptionPeriod: subscriptionPeriod,
		logger:             logger,
	}
}

// ApplySuccess applies the transaction's financial effect and marks it
// completed, in one database transaction. The row is locked and re-checked
// under the lock: if another writer finalized it first, nothing is applied
// and the call returns nil. Calling this twice for the same reference credits
// the account exactly once.
func (s *SettlementService) ApplySuccess(ctx context.Context, reference string) error {
	var accountID uuid.UUID
	var applied bool

	err := s.uow.WithinTx(ctx, func(transactions ports.TransactionRepository, accounts ports.AccountRepository) error {
		t, err := transactions.FindByReferenceForUpdate(ctx, reference)
		if err != nil {
			return err
		}

		if t.IsTerminal() {
			return domain.NewAlreadyFinalizedError(t.Reference, t.Status)
		}

		switch t.Purpose {
		case domain.PurposeSubscription:
			if err := accounts.ExtendSubscription(ctx, t.AccountID, s.subscriptionPeriod); err != nil {
				return err
			}
		default:
			if err := accounts.CreditBalance(ctx, t.AccountID, t.AmountCents); err != nil {
				return err
			}
		}

		if err := transactions.UpdateStatus(ctx, t.ID, domain.StatusCompleted); err != nil {
			return err
		}

		accountID = t.AccountID
		applied = true
		return nil
	})

	if err != nil {
		if isAlreadyFinalized(err) {
			s.logger.Info("settlement skipped, transaction already finalized", "reference", reference)
			return nil
		}
		return err
	}

	if applied {
		s.cache.Invalidate(ctx, accountID)
		s.logger.Info("settlement applied", "reference", reference, "account_id", accountID)
	}
	return nil
}

// ApplyFailure marks the transaction failed without touching the account.
// Idempotent the same way ApplySuccess is: a row already finalized by a
// concurrent writer is left alone.
func (s *SettlementService) ApplyFailure(ctx context.Context, reference string, reason string) error {
	err := s.uow.WithinTx(ctx, func(transactions ports.TransactionRepository, accounts ports.AccountRepository) error {
		t, err := transactions.FindByReferenceForUpdate(ctx, reference)
		if err != nil {
			return err
		}

		if t.IsTerminal() {
			return domain.NewAlreadyFinalizedError(t.Reference, t.Status)
		}

		return transactions.UpdateStatus(ctx, t.ID, domain.StatusFailed)
	})

	if err != nil {
		if isAlreadyFinalized(err) {
			s.logger.Info("failure mark skipped, transaction already finalized", "reference", reference)
			return nil
		}
		return err
	}

	s.logger.Info("transaction marked failed", "reference", reference, "reason", reason)
	return nil
}

func isAlreadyFinalized(err error) bool {
	var domainErr *domain.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeAlreadyFinalized
}
