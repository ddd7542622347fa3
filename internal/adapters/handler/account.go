package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sule1997/cinema-stream/internal/core/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HandleAccount returns the account snapshot: balance and subscription
// expiry, served cache-first.
func (h *PaymentHandler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.PathValue("accountID"))
	if err != nil {
		respondWithError(w, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "account ID is not a valid UUID",
		})
		return
	}

	account, err := h.query.GetAccount(r.Context(), accountID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// HandleTransactionHistory lists an account's charge attempts, newest first.
func (h *PaymentHandler) HandleTransactionHistory(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.PathValue("accountID"))
	if err != nil {
		respondWithError(w, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "account ID is not a valid UUID",
		})
		return
	}

	limit := queryInt(r, "limit", defaultHistoryLimit)
	if limit < 1 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	history, err := h.query.GetTransactionHistory(r.Context(), accountID, limit, offset)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
