// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrDuplicateKey       = errors.New("resource already exists")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidScore       = errors.New("score must be between 1 and 5")
	ErrRatingExists       = errors.New("rating already exists for this book")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrTransactionFailed  = errors.New("transaction failed")
)

// AppError is an error with everything needed to render it to a client.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Details    any
	Retryable  bool
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) WithDetails(details any) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrUnauthenticated, message, http.StatusUnauthorized, "UNAUTHENTICATED")
}

func DuplicateError(resource string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		resource+" already exists",
		http.StatusConflict,
		"DUPLICATE_RESOURCE",
	)
}

func StoreUnavailableError(err error) *AppError {
	appErr := NewAppError(
		err,
		"service temporarily unavailable, retry later",
		http.StatusServiceUnavailable,
		"STORE_UNAVAILABLE",
	)
	appErr.Retryable = true
	return appErr
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: an error chain may wrap several sentinels, and the first
// match wins.
var errorMappings = []errorMapping{
	{ErrStoreUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "service temporarily unavailable, retry later"},
	{ErrTransactionFailed, http.StatusInternalServerError, "TRANSACTION_FAILED", "transaction failed"},
	{ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE", "account is inactive"},
	{ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired"},
	{ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID", "token is invalid"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"},
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN", "insufficient permissions"},
	{ErrBookNotFound, http.StatusNotFound, "BOOK_NOT_FOUND", "book not found"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND", "resource not found"},
	{ErrInvalidScore, http.StatusUnprocessableEntity, "INVALID_SCORE", "score must be between 1 and 5"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT", "invalid input"},
	{ErrRatingExists, http.StatusConflict, "RATING_ALREADY_EXISTS", "rating already exists for this book"},
	{ErrDuplicateKey, http.StatusConflict, "DUPLICATE_RESOURCE", "resource already exists"},
}

// FromError converts any error into an AppError. Unknown errors become an
// opaque 500 so internal details never reach the client.
func FromError(err error) *AppError {
	if appErr, ok := IsAppError(err); ok {
		return appErr
	}

	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return NewAppError(err, inputErr.Reason, http.StatusBadRequest, "INVALID_INPUT")
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			appErr := NewAppError(err, m.message, m.status, m.code)
			appErr.Retryable = m.target == ErrStoreUnavailable
			return appErr
		}
	}

	return NewAppError(
		err,
		"an unexpected error occurred",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	)
}

// InputError carries a client facing reason and matches ErrInvalidInput.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func InvalidInput(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}
