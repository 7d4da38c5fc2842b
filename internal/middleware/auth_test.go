// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

type stubVerifier struct {
	claims map[string]*AccessTokenClaims
	errs   map[string]error
}

func (v *stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if err, ok := v.errs[token]; ok {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if c, ok := v.claims[token]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
}

type stubLookup struct {
	accounts map[string]*Account
	err      error
	calls    int
}

func (l *stubLookup) GetAccount(_ context.Context, userID string) (*Account, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	a, ok := l.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	return a, nil
}

func newFixtures() (*stubVerifier, *stubLookup) {
	verifier := &stubVerifier{
		claims: map[string]*AccessTokenClaims{
			"user-token":     {UserID: "u1", Role: core.RoleUser},
			"admin-token":    {UserID: "a1", Role: core.RoleAdmin},
			"inactive-admin": {UserID: "a2", Role: core.RoleAdmin},
			"demoted-admin":  {UserID: "a3", Role: core.RoleAdmin},
			"ghost-token":    {UserID: "gone", Role: core.RoleUser},
		},
		errs: map[string]error{
			"expired-token": core.ErrTokenExpired,
		},
	}
	lookup := &stubLookup{accounts: map[string]*Account{
		"u1": {ID: "u1", Role: core.RoleUser, Status: core.StatusActive},
		"a1": {ID: "a1", Role: core.RoleAdmin, Status: core.StatusActive},
		"a2": {ID: "a2", Role: core.RoleAdmin, Status: core.StatusInactive},
		"a3": {ID: "a3", Role: core.RoleUser, Status: core.StatusActive},
	}}
	return verifier, lookup
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		required core.Role
		wantErr  error
		wantRole core.Role
	}{
		{"missing header", "", core.RoleUser, core.ErrUnauthenticated, ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", core.RoleUser, core.ErrUnauthenticated, ""},
		{"bearer without token", "Bearer ", core.RoleUser, core.ErrUnauthenticated, ""},
		{"garbage token", "Bearer nope", core.RoleUser, core.ErrTokenInvalid, ""},
		{"expired token", "Bearer expired-token", core.RoleUser, core.ErrTokenExpired, ""},
		{"user on user route", "Bearer user-token", core.RoleUser, nil, core.RoleUser},
		{"lowercase scheme", "bearer user-token", core.RoleUser, nil, core.RoleUser},
		{"user on admin route", "Bearer user-token", core.RoleAdmin, core.ErrForbidden, ""},
		{"admin on user route", "Bearer admin-token", core.RoleUser, nil, core.RoleAdmin},
		{"admin on admin route", "Bearer admin-token", core.RoleAdmin, nil, core.RoleAdmin},
		{"inactive admin", "Bearer inactive-admin", core.RoleAdmin, core.ErrAccountInactive, ""},
		{"inactive admin on user route", "Bearer inactive-admin", core.RoleUser, core.ErrAccountInactive, ""},
		{"demoted admin", "Bearer demoted-admin", core.RoleAdmin, core.ErrForbidden, ""},
		{"deleted account", "Bearer ghost-token", core.RoleUser, core.ErrUnauthenticated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier, lookup := newFixtures()

			identity, err := Resolve(context.Background(), verifier, lookup, tt.header, tt.required)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, identity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, identity.Role)
		})
	}
}

func TestInactiveIsNotForbidden(t *testing.T) {
	verifier, lookup := newFixtures()

	_, err := Resolve(context.Background(), verifier, lookup, "Bearer inactive-admin", core.RoleAdmin)

	require.ErrorIs(t, err, core.ErrAccountInactive)
	assert.False(t, errors.Is(err, core.ErrForbidden))
}

func TestAuthenticateLooksUpAccountOnce(t *testing.T) {
	verifier, lookup := newFixtures()

	_, _, err := Authenticate(context.Background(), verifier, lookup, "Bearer user-token")
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.calls)
}

func TestAuthenticatePropagatesStoreFailure(t *testing.T) {
	verifier, lookup := newFixtures()
	lookup.err = fmt.Errorf("get account: %w", core.ErrStoreUnavailable)

	_, _, err := Authenticate(context.Background(), verifier, lookup, "Bearer user-token")
	require.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestAuthenticateSkipsLookupOnBadToken(t *testing.T) {
	verifier, lookup := newFixtures()

	_, _, err := Authenticate(context.Background(), verifier, lookup, "Bearer expired-token")
	require.ErrorIs(t, err, core.ErrTokenExpired)
	assert.Zero(t, lookup.calls)
}

func newAdminRouter(verifier TokenVerifier, lookup AccountLookup, hits *int) http.Handler {
	r := chi.NewRouter()
	r.Route("/admin", func(r chi.Router) {
		r.Use(Authenticator(verifier, lookup))
		r.Use(RequireAdmin)
		r.Delete("/books/{bookID}", func(w http.ResponseWriter, r *http.Request) {
			*hits++
			core.NoContent(w)
		})
	})
	r.With(Authenticator(verifier, lookup)).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			core.InternalServerError(w, errors.New("missing identity"))
			return
		}
		core.OK(w, map[string]string{"id": identity.UserID, "role": string(identity.Role)})
	})
	return r
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestAdminRouteHTTP(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		status   int
		code     string
		wantHits int
	}{
		{"no token", "", http.StatusUnauthorized, "UNAUTHENTICATED", 0},
		{"user forbidden", "Bearer user-token", http.StatusForbidden, "FORBIDDEN", 0},
		{"inactive admin", "Bearer inactive-admin", http.StatusForbidden, "ACCOUNT_INACTIVE", 0},
		{"expired", "Bearer expired-token", http.StatusUnauthorized, "TOKEN_EXPIRED", 0},
		{"admin allowed", "Bearer admin-token", http.StatusNoContent, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier, lookup := newFixtures()
			hits := 0
			router := newAdminRouter(verifier, lookup, &hits)

			req := httptest.NewRequest(http.MethodDelete, "/admin/books/b1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantHits, hits)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeErrorCode(t, rec))
			}
		})
	}
}

func TestAuthenticatorStoresStoredRole(t *testing.T) {
	verifier, lookup := newFixtures()
	hits := 0
	router := newAdminRouter(verifier, lookup, &hits)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer demoted-admin")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"USER"`)
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
