// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

// Credentials is what login needs to know about a stored user.
type Credentials struct {
	ID           string
	PasswordHash string
	Role         core.Role
	Status       core.Status
}

type UserProvider interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	GetAccount(ctx context.Context, userID string) (*middleware.Account, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	tokens     *TokenService
	sessions   SessionStore
	users      UserProvider
	refreshTTL time.Duration
}

func NewService(
	tokens *TokenService,
	sessions SessionStore,
	users UserProvider,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		tokens:     tokens,
		sessions:   sessions,
		users:      users,
		refreshTTL: refreshTTL,
	}
}

// Login verifies credentials and issues an access and refresh token. The
// password is always hashed, even for unknown emails, so response timing
// does not reveal which accounts exist.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	creds, err := s.users.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&creds.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	if creds.Status != core.StatusActive {
		return nil, fmt.Errorf("login: %w", core.ErrAccountInactive)
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, creds.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed", "user_id", creds.ID, "error", err)
		}
	}

	return s.issuePair(ctx, creds.ID, creds.Role)
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed whether or not the exchange succeeds.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*AuthResponse, error) {
	userID, err := s.sessions.Consume(ctx, core.HashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	account, err := s.users.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if account.Status != core.StatusActive {
		return nil, fmt.Errorf("refresh: %w", core.ErrAccountInactive)
	}

	return s.issuePair(ctx, account.ID, account.Role)
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *Service) issuePair(
	ctx context.Context,
	userID string,
	role core.Role,
) (*AuthResponse, error) {
	access, err := s.tokens.Issue(userID, role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := core.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	if err := s.sessions.Save(ctx, userID, core.HashToken(refresh), s.refreshTTL); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		User: UserSummary{ID: userID, Role: string(role)},
		Tokens: TokenResponse{
			AccessToken:  access.Token,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.tokens.TTL() / time.Second),
			ExpiresAt:    access.ExpiresAt,
		},
	}, nil
}
