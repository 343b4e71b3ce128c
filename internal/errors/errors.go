package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ValidationError   ErrorCode = "validation_error"
	WalletNotFound    ErrorCode = "wallet_not_found"
	InsufficientFunds ErrorCode = "insufficient_funds"
	StorageFailure    ErrorCode = "storage_failure"
)

// AppError is the error type surfaced by the core. Every failure path maps
// to one of the four codes above; infrastructure errors are wrapped as
// StorageFailure and never swallowed.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps the error code to the caller-visible status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ValidationError:
		return http.StatusUnprocessableEntity
	case WalletNotFound:
		return http.StatusNotFound
	case InsufficientFunds:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrWalletNotFound    = NewAppError(WalletNotFound, "wallet not found")
	ErrInsufficientFunds = NewAppError(InsufficientFunds, "not enough credits to withdraw")
	ErrNegativeBalance   = NewAppError(ValidationError, "initial balance must not be negative")
	ErrNonPositiveAmount = NewAppError(ValidationError, "amount must be positive")
	ErrAmountScale       = NewAppError(ValidationError, "amount must have at most two decimal places")
	ErrBalanceScale      = NewAppError(ValidationError, "initial balance must have at most two decimal places")
)
