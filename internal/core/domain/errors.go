package domain

import "fmt"

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Domain validation errors
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeAmountBelowMinimum   = "AMOUNT_BELOW_MINIMUM"
	ErrCodeInvalidPhoneNumber   = "INVALID_PHONE_NUMBER"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeAlreadyFinalized     = "ALREADY_FINALIZED"
	ErrCodeTransactionNotFound  = "TRANSACTION_NOT_FOUND"
	ErrCodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	ErrCodeGatewayRejected      = "GATEWAY_REJECTED"
	ErrCodeGatewayNotConfigured = "GATEWAY_NOT_CONFIGURED"
)

func NewInvalidTransitionError(from, to TransactionStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewAmountBelowMinimumError(amount, minimum int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeAmountBelowMinimum,
		Message: fmt.Sprintf("amount %d is below the minimum of %d", amount, minimum),
	}
}

func NewTransactionNotFoundError(reference string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTransactionNotFound,
		Message: fmt.Sprintf("transaction %s not found", reference),
	}
}

func NewAccountNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAccountNotFound,
		Message: fmt.Sprintf("account %s not found", id),
	}
}

func NewAlreadyFinalizedError(reference string, status TransactionStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeAlreadyFinalized,
		Message: fmt.Sprintf("transaction %s is already %s", reference, status),
	}
}
