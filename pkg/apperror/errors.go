package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrUserSuspended() *AppError {
	return New("AUTH_004", "User account is suspended", http.StatusForbidden)
}

// ---- Transfer Business Logic (XFER) ----

func ErrInsufficientBalance() *AppError {
	return New("XFER_001", "Amount plus fee exceeds available balance", http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New("XFER_002", "Invalid amount", http.StatusBadRequest)
}

func ErrDuplicateReference() *AppError {
	return New("XFER_003", "Duplicate transfer reference", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("XFER_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrStepIncomplete(step string) *AppError {
	return New("XFER_005", fmt.Sprintf("Step %s is incomplete", step), http.StatusUnprocessableEntity)
}

func ErrMethodUnavailable(currency string) *AppError {
	return New("XFER_006", fmt.Sprintf("No transfer method available for currency %s", currency), http.StatusUnprocessableEntity)
}

func ErrMissingMethodFields(fields string) *AppError {
	return New("XFER_007", fmt.Sprintf("Missing required fields: %s", fields), http.StatusBadRequest)
}

func ErrQuoteSuperseded() *AppError {
	return New("XFER_008", "Exchange quote was superseded by a newer draft revision", http.StatusConflict)
}

func ErrDraftExpired() *AppError {
	return New("XFER_009", "Transfer draft has expired", http.StatusGone)
}

func ErrDraftNotConfirmable() *AppError {
	return New("XFER_010", "Draft must be at the review step to confirm", http.StatusUnprocessableEntity)
}

// ---- Exchange Rates (FX) ----

func ErrRateUnavailable(err error) *AppError {
	return Wrap("FX_001", "Exchange rate provider unavailable", http.StatusBadGateway, err)
}

func ErrUnsupportedCurrency(code string) *AppError {
	return New("FX_002", fmt.Sprintf("Unsupported currency: %s", code), http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a generic bad-request validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
