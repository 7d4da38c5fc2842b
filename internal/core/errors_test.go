// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
		{ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
		{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{ErrBookNotFound, http.StatusNotFound, "BOOK_NOT_FOUND"},
		{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{ErrInvalidScore, http.StatusUnprocessableEntity, "INVALID_SCORE"},
		{ErrRatingExists, http.StatusConflict, "RATING_ALREADY_EXISTS"},
		{ErrDuplicateKey, http.StatusConflict, "DUPLICATE_RESOURCE"},
		{ErrStoreUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{ErrTransactionFailed, http.StatusInternalServerError, "TRANSACTION_FAILED"},
		{errors.New("kaboom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			appErr := FromError(fmt.Errorf("op: %w", tt.err))
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.code == "STORE_UNAVAILABLE", appErr.Retryable)
		})
	}
}

func TestFromErrorPrefersUnavailable(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrTransactionFailed, fmt.Errorf("commit: %w", ErrStoreUnavailable))

	appErr := FromError(err)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)
	assert.True(t, appErr.Retryable)
}

func TestFromErrorInputReason(t *testing.T) {
	err := fmt.Errorf("list books: %w", InvalidInput("size must be >= %d", 1))

	require.ErrorIs(t, err, ErrInvalidInput)
	appErr := FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "size must be >= 1", appErr.Message)
}

func TestHandleErrorWritesEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	rec := httptest.NewRecorder()

	HandleError(rec, req, fmt.Errorf("list: %w", ErrStoreUnavailable))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "STORE_UNAVAILABLE", body.Error.Code)
	assert.True(t, body.Error.Retryable)
}

func TestHandleErrorHidesInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	rec := httptest.NewRecorder()

	HandleError(rec, req, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestValidationFailedEnvelope(t *testing.T) {
	type request struct {
		ISBN string `validate:"required,max=30"`
	}
	err := validator.New().Struct(request{ISBN: "1234567890123456789012345678901"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	ValidationFailed(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Equal(t, "isbn must be at most 30", body.Error.Details)
}

func TestBadRequestUsesInvalidInput(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "invalid request body")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_INPUT", body.Error.Code)
}

func TestPaginatedMeta(t *testing.T) {
	rec := httptest.NewRecorder()

	Paginated(rec, []string{"a", "b"}, 2, 2, 5)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Meta)
	assert.Equal(t, Meta{Page: 2, Size: 2, Total: 5, TotalPages: 3}, *body.Meta)
}
