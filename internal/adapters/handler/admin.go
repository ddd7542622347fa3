package handler

import "net/http"

// HandleGatewayBalance reports the float held at the payment processor. Admin
// screens use this to spot a drained collection account.
func (h *PaymentHandler) HandleGatewayBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.query.GetGatewayBalance(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, balance)
}
