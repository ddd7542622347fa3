package service

import (
	"context"
	"log/slog"

	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
)

// StatusResult is the client-facing view of one status check.
type StatusResult struct {
	Reference         string                   `json:"reference"`
	NormalizedStatus  domain.GatewayStatus     `json:"normalized_status"`
	TransactionStatus domain.TransactionStatus `json:"transaction_status"`
}

// StatusService answers the client poller. It is advisory: the reconciler
// applies the authoritative effect whether or not anyone is still watching.
type StatusService struct {
	transactions ports.TransactionRepository
	gateway      ports.GatewayPort
	statuses     *domain.StatusMap
	settler      *SettlementService
	logger       *slog.Logger
}

func NewStatusService(
	transactions ports.TransactionRepository,
	gateway ports.GatewayPort,
	statuses *domain.StatusMap,
	settler *SettlementService,
	logger *slog.Logger,
) *StatusService {
	return &StatusService{
		transactions: transactions,
		gateway:      gateway,
		statuses:     statuses,
		settler:      settler,
		logger:       logger,
	}
}

// CheckStatus returns the normalized status for a transaction. If the local
// record is already terminal the gateway is not queried again; otherwise one
// status check is made.
func (s *StatusService) CheckStatus(ctx context.Context, reference string) (*StatusResult, error) {
	t, err := s.transactions.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if t.IsTerminal() {
		normalized := domain.GatewayFailed
		if t.Status == domain.StatusCompleted {
			normalized = domain.GatewaySuccess
		}
		return &StatusResult{
			Reference:         reference,
			NormalizedStatus:  normalized,
			TransactionStatus: t.Status,
		}, nil
	}

	resp, err := s.gateway.GetStatus(ctx, reference)
	if err != nil {
		// A transient gateway error is not a payment outcome. Report the
		// record as still pending and let the caller poll again.
		s.logger.Warn("gateway status check failed", "reference", reference, "error", err)
		return &StatusResult{
			Reference:         reference,
			NormalizedStatus:  domain.GatewayUnknown,
			TransactionStatus: t.Status,
		}, nil
	}

	return &StatusResult{
		Reference:         reference,
		NormalizedStatus:  s.statuses.Normalize(resp.RawStatus),
		TransactionStatus: t.Status,
	}, nil
}

// Confirm is the client-driven settlement path: when the poller observes a
// terminal gateway status it may push the outcome here instead of waiting for
// the server reconciler. Settlement is idempotent, so racing the reconciler
// is safe; whoever arrives second is a no-op.
func (s *StatusService) Confirm(ctx context.Context, reference string) (*StatusResult, error) {
	result, err := s.CheckStatus(ctx, reference)
	if err != nil {
		return nil, err
	}

	switch result.NormalizedStatus {
	case domain.GatewaySuccess:
		if err := s.settler.ApplySuccess(ctx, reference); err != nil {
			return nil, err
		}
		result.TransactionStatus = domain.StatusCompleted
	case domain.GatewayFailed:
		if err := s.settler.ApplyFailure(ctx, reference, FailureReasonGateway); err != nil {
			return nil, err
		}
		result.TransactionStatus = domain.StatusFailed
	}

	return result, nil
}
