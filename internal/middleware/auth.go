// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

const IdentityKey contextKey = "identity"

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	ID        string
	UserID    string
	Role      core.Role
	ExpiresAt time.Time
}

// Account is the stored state of a user as seen by the authorization check.
type Account struct {
	ID     string
	Role   core.Role
	Status core.Status
}

// AccountLookup resolves the current stored state of a user. It returns an
// error wrapping core.ErrNotFound when the user does not exist.
type AccountLookup interface {
	GetAccount(ctx context.Context, userID string) (*Account, error)
}

// Authenticate turns an Authorization header into the caller's identity.
// The stored account is consulted once per request, its role is
// authoritative over the token claim, and an inactive account is rejected
// with core.ErrAccountInactive.
func Authenticate(
	ctx context.Context,
	verifier TokenVerifier,
	lookup AccountLookup,
	authHeader string,
) (*core.Identity, *AccessTokenClaims, error) {
	token := tokenFromHeader(authHeader)
	if token == "" {
		return nil, nil, fmt.Errorf("authenticate: %w", core.ErrUnauthenticated)
	}

	claims, err := verifier.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}

	account, err := lookup.GetAccount(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil, fmt.Errorf("authenticate: %w", core.ErrUnauthenticated)
		}
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}

	if account.Status != core.StatusActive {
		return nil, nil, fmt.Errorf("authenticate: %w", core.ErrAccountInactive)
	}

	return &core.Identity{UserID: account.ID, Role: account.Role}, claims, nil
}

// Authorize checks that identity holds a role satisfying required.
func Authorize(identity *core.Identity, required core.Role) error {
	if identity == nil {
		return core.ErrUnauthenticated
	}
	if !identity.Role.Satisfies(required) {
		return core.ErrForbidden
	}
	return nil
}

// Resolve authenticates the header and enforces required in one step.
func Resolve(
	ctx context.Context,
	verifier TokenVerifier,
	lookup AccountLookup,
	authHeader string,
	required core.Role,
) (*core.Identity, error) {
	identity, _, err := Authenticate(ctx, verifier, lookup, authHeader)
	if err != nil {
		return nil, err
	}

	if err := Authorize(identity, required); err != nil {
		return nil, err
	}

	return identity, nil
}

func Authenticator(
	verifier TokenVerifier,
	lookup AccountLookup,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _, err := Authenticate(
				r.Context(),
				verifier,
				lookup,
				r.Header.Get("Authorization"),
			)
			if err != nil {
				core.HandleError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity)))
		})
	}
}

// RequireRole must run after Authenticator.
func RequireRole(required core.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if err := Authorize(&identity, required); err != nil {
				core.HandleError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(core.RoleAdmin)(next)
}

func tokenFromHeader(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func WithIdentity(ctx context.Context, identity core.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) (core.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(core.Identity)
	return identity, ok
}

func GetUserID(ctx context.Context) string {
	if identity, ok := GetIdentity(ctx); ok {
		return identity.UserID
	}
	return ""
}

func GetUserRole(ctx context.Context) core.Role {
	if identity, ok := GetIdentity(ctx); ok {
		return identity.Role
	}
	return ""
}

