package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sule1997/cinema-stream/internal/config"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/ports"
	"github.com/sule1997/cinema-stream/internal/utils"
)

// Scheduler hands a freshly created pending transaction to the background
// reconciler. Implemented by worker.Reconciler.
type Scheduler interface {
	Watch(t *domain.Transaction)
}

// InitiateResult is what the caller needs to begin polling.
type InitiateResult struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Reference     string    `json:"reference"`
	Message       string    `json:"message"`
}

// InitiateService validates a payment request, obtains a charge from the
// gateway, persists the pending transaction and hands it to the reconciler.
// It never waits for reconciliation: the caller gets the reference back as
// soon as the charge exists.
type InitiateService struct {
	transactions ports.TransactionRepository
	accounts     ports.AccountRepository
	gateway      ports.GatewayPort
	scheduler    Scheduler
	cfg          config.PaymentConfig
	logger       *slog.Logger
}

func NewInitiateService(
	transactions ports.TransactionRepository,
	accounts ports.AccountRepository,
	gateway ports.GatewayPort,
	scheduler Scheduler,
	cfg config.PaymentConfig,
	logger *slog.Logger,
) *InitiateService {
	return &InitiateService{
		transactions: transactions,
		accounts:     accounts,
		gateway:      gateway,
		scheduler:    scheduler,
		cfg:          cfg,
		logger:       logger,
	}
}

// InitiateTopup starts a wallet top-up charge.
func (s *InitiateService) InitiateTopup(ctx context.Context, accountID uuid.UUID, amountCents int64, phoneNumber, name string) (*InitiateResult, error) {
	if amountCents < s.cfg.MinTopupCents {
		return nil, domain.NewAmountBelowMinimumError(amountCents, s.cfg.MinTopupCents)
	}
	return s.initiate(ctx, accountID, amountCents, phoneNumber, name, domain.PurposeTopup)
}

// InitiateSubscription starts a subscription purchase at the configured
// price. The amount is not caller-chosen.
func (s *InitiateService) InitiateSubscription(ctx context.Context, accountID uuid.UUID, phoneNumber, name string) (*InitiateResult, error) {
	return s.initiate(ctx, accountID, s.cfg.SubscriptionCents, phoneNumber, name, domain.PurposeSubscription)
}

func (s *InitiateService) initiate(ctx context.Context, accountID uuid.UUID, amountCents int64, phoneNumber, name string, purpose domain.Purpose) (*InitiateResult, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Fall back to the account's registered details, the way the storefront
	// pre-fills the dialog.
	if phoneNumber == "" {
		phoneNumber = account.PhoneNumber
	}
	if name == "" {
		name = account.DisplayName
	}
	if name == "" {
		name = "User"
	}

	ok, msisdn, err := utils.ValidateMSISDN(phoneNumber)
	if !ok {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeInvalidPhoneNumber,
			Message: "phone number is not a valid mobile-money number",
			Err:     err,
		}
	}

	// The transaction row is only created after the gateway accepts the
	// charge. A gateway rejection leaves nothing behind to reconcile.
	charge, err := s.gateway.CreateCharge(ctx, domain.ChargeRequest{
		PhoneNumber: msisdn,
		AmountCents: amountCents,
		Name:        name,
	})
	if err != nil {
		s.logger.Error("charge creation failed",
			"account_id", accountID,
			"amount_cents", amountCents,
			"purpose", purpose,
			"error", err,
		)
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeGatewayRejected,
			Message: "payment could not be initiated",
			Err:     err,
		}
	}

	now := time.Now()
	t := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Reference:   charge.Reference,
		AmountCents: amountCents,
		PhoneNumber: msisdn,
		Purpose:     purpose,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.transactions.Insert(ctx, t); err != nil {
		// The charge exists at the gateway but we have no row to reconcile
		// against. Surface the error; the payer's money is only moved once
		// they approve on the phone, and an unrecorded charge is never
		// credited.
		s.logger.Error("failed to store transaction", "reference", charge.Reference, "error", err)
		return nil, err
	}

	s.scheduler.Watch(t)

	s.logger.Info("payment initiated",
		"reference", t.Reference,
		"account_id", accountID,
		"amount_cents", amountCents,
		"purpose", purpose,
	)

	return &InitiateResult{
		TransactionID: t.ID,
		Reference:     t.Reference,
		Message:       "Payment initiated. Please complete the payment on your phone.",
	}, nil
}
