package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sule1997/cinema-stream/internal/core/domain"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

func respondWithError(w http.ResponseWriter, err error) {
	var domainErr *domain.DomainError
	code := "INTERNAL_ERROR"
	message := err.Error()
	status := http.StatusInternalServerError

	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message

		switch domainErr.Code {
		case domain.ErrCodeValidation, domain.ErrCodeAmountBelowMinimum, domain.ErrCodeInvalidPhoneNumber:
			status = http.StatusBadRequest
		case domain.ErrCodeTransactionNotFound, domain.ErrCodeAccountNotFound:
			status = http.StatusNotFound
		case domain.ErrCodeInvalidTransition, domain.ErrCodeAlreadyFinalized:
			status = http.StatusConflict
		case domain.ErrCodeGatewayRejected:
			status = http.StatusBadGateway
		case domain.ErrCodeGatewayNotConfigured:
			status = http.StatusServiceUnavailable
		default:
			status = http.StatusBadRequest
		}
	}

	respondWithJSON(w, status, &APIError{
		Code:    code,
		Message: message,
	})
}
