package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")

	// ErrProvider is returned when a payment processor call fails or returns an unexpected shape.
	ErrProvider = errors.New("payment processor error")
	// ErrPersistence is returned when a store read or write fails.
	ErrPersistence = errors.New("persistence error")
	// ErrProviderPersistenceInconsistency marks a remote side effect that succeeded
	// while the follow-up persisted write did not.
	ErrProviderPersistenceInconsistency = errors.New("processor object created but not persisted")
)

// Entity-scoped variants. Each one matches ErrNotFound with errors.Is.
var (
	ErrUserNotFound             = fmt.Errorf("user: %w", ErrNotFound)
	ErrBusinessNotFound         = fmt.Errorf("business: %w", ErrNotFound)
	ErrProductNotFound          = fmt.Errorf("product: %w", ErrNotFound)
	ErrPurchaseNotFound         = fmt.Errorf("purchase: %w", ErrNotFound)
	ErrScheduledPaymentNotFound = fmt.Errorf("scheduled payment: %w", ErrNotFound)
	ErrPayoutAccountMissing     = fmt.Errorf("payout account: %w", ErrNotFound)

	ErrProfileSave = fmt.Errorf("customer profile save failed: %w", ErrProviderPersistenceInconsistency)
)

// Error codes returned to clients
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeProvider     = "PROVIDER_ERROR"
	CodePersistence  = "PERSISTENCE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrValidation)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

// Validation wraps a user-facing validation message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StatusFor maps an error from any layer to the HTTP status the transport should use.
func StatusFor(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &appErr):
		return appErr.Status
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrProviderPersistenceInconsistency):
		return http.StatusInternalServerError
	case errors.Is(err, ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeFor returns the client-facing code for an error.
func CodeFor(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	switch StatusFor(err) {
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusConflict:
		return CodeConflict
	case http.StatusBadGateway:
		return CodeProvider
	}
	if errors.Is(err, ErrPersistence) {
		return CodePersistence
	}
	return CodeInternal
}
