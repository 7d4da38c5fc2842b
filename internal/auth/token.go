// AngelaMos | 2026
// token.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/bookstore-api/internal/config"
	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

const (
	claimRole = "role"
	claimType = "type"

	tokenTypeAccess = "access"
)

// TokenService issues and verifies HS256 access tokens. It holds no per
// token state: a token is valid until its expiry.
type TokenService struct {
	secret []byte
	config config.JWTConfig
	now    func() time.Time
}

type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 bytes")
	}
	if cfg.AccessTokenExpire <= 0 {
		return nil, fmt.Errorf("access token lifetime must be positive")
	}

	return &TokenService{
		secret: []byte(cfg.Secret),
		config: cfg,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service reading time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

func (s *TokenService) TTL() time.Duration {
	return s.config.AccessTokenExpire
}

func (s *TokenService) Issue(userID string, role core.Role) (*IssuedToken, error) {
	if userID == "" || !role.Valid() {
		return nil, fmt.Errorf("issue token: %w", core.ErrInvalidInput)
	}

	// JWT dates carry whole seconds.
	now := s.now().Truncate(time.Second)
	expiresAt := now.Add(s.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(s.config.Issuer).
		Audience([]string{s.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		Expiration(expiresAt).
		NotBefore(now).
		Claim(claimRole, string(role)).
		Claim(claimType, tokenTypeAccess).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *TokenService) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), s.secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get(claimType, &tokenType); err != nil ||
		tokenType != tokenTypeAccess {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var roleStr string
	if err := token.Get(claimRole, &roleStr); err != nil ||
		!core.Role(roleStr).Valid() {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	jti, _ := token.JwtID()
	exp, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		ID:        jti,
		UserID:    subject,
		Role:      core.Role(roleStr),
		ExpiresAt: exp,
	}, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, jwt.TokenExpiredError()) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
