package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/sule1997/cinema-stream/internal/core/domain"
	"github.com/sule1997/cinema-stream/internal/core/service"
)

type InitiationService interface {
	InitiateTopup(ctx context.Context, accountID uuid.UUID, amountCents int64, phoneNumber, name string) (*service.InitiateResult, error)
	InitiateSubscription(ctx context.Context, accountID uuid.UUID, phoneNumber, name string) (*service.InitiateResult, error)
}

type StatusCheckService interface {
	CheckStatus(ctx context.Context, reference string) (*service.StatusResult, error)
	Confirm(ctx context.Context, reference string) (*service.StatusResult, error)
}

type AccountQueryService interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetTransactionHistory(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*domain.Transaction, error)
	GetGatewayBalance(ctx context.Context) (*domain.GatewayBalance, error)
}

type PaymentHandler struct {
	initiation InitiationService
	status     StatusCheckService
	query      AccountQueryService
	validate   *validator.Validate
}

func NewPaymentHandler(
	initiation InitiationService,
	status StatusCheckService,
	query AccountQueryService,
) *PaymentHandler {
	return &PaymentHandler{
		initiation: initiation,
		status:     status,
		query:      query,
		validate:   validator.New(),
	}
}

func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /topup", h.HandleTopup)
	mux.HandleFunc("POST /subscriptions", h.HandleSubscribe)
	mux.HandleFunc("GET /transactions/{reference}/status", h.HandleStatus)
	mux.HandleFunc("POST /transactions/{reference}/confirm", h.HandleConfirm)
	mux.HandleFunc("GET /accounts/{accountID}", h.HandleAccount)
	mux.HandleFunc("GET /accounts/{accountID}/transactions", h.HandleTransactionHistory)
	mux.HandleFunc("GET /gateway/balance", h.HandleGatewayBalance)
}
