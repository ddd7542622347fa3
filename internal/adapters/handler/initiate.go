package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/sule1997/cinema-stream/internal/core/domain"
)

type TopupRequest struct {
	AccountID   string `json:"account_id" validate:"required,uuid4"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

type SubscribeRequest struct {
	AccountID   string `json:"account_id" validate:"required,uuid4"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

// HandleTopup starts a wallet top-up. The response carries the gateway
// reference the client polls with; the money lands when the reconciler
// confirms the charge.
func (h *PaymentHandler) HandleTopup(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var req TopupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: err.Error(),
		})
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		respondWithError(w, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "account_id is not a valid UUID",
		})
		return
	}

	result, err := h.initiation.InitiateTopup(r.Context(), accountID, req.AmountCents, req.PhoneNumber, req.Name)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, result)
}

// HandleSubscribe starts a subscription purchase. The price is fixed by
// configuration, so the request carries no amount.
func (h *PaymentHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var req SubscribeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: err.Error(),
		})
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		respondWithError(w, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "account_id is not a valid UUID",
		})
		return
	}

	result, err := h.initiation.InitiateSubscription(r.Context(), accountID, req.PhoneNumber, req.Name)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, result)
}
