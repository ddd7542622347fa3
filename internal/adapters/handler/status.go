package handler

import (
	"net/http"

	"github.com/sule1997/cinema-stream/internal/core/domain"
)

// HandleStatus reports the current status of a transaction. The check is
// read-only from the client's point of view: it never settles.
func (h *PaymentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")
	if reference == "" {
		respondWithError(w, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "transaction reference is required",
		})
		return
	}

	result, err := h.status.CheckStatus(r.Context(), reference)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// HandleConfirm lets a client that observed a terminal status push the
// outcome instead of waiting for the server reconciler. Settlement is
// idempotent, so confirming a transaction the reconciler already settled is
// a no-op.
func (h *PaymentHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")
	if reference == "" {
		respondWithError(w, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "transaction reference is required",
		})
		return
	}

	result, err := h.status.Confirm(r.Context(), reference)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
