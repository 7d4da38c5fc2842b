// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookstore-api/internal/auth"
	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
)

// SessionRevoker ends any refresh session a user holds.
type SessionRevoker interface {
	Revoke(ctx context.Context, userID string) error
}

type Service struct {
	repo     Repository
	sessions SessionRevoker
}

var (
	_ auth.UserProvider        = (*Service)(nil)
	_ middleware.AccountLookup = (*Service)(nil)
)

func NewService(repo Repository, sessions SessionRevoker) *Service {
	return &Service{repo: repo, sessions: sessions}
}

func (s *Service) GetCredentials(
	ctx context.Context,
	email string,
) (*auth.Credentials, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return &auth.Credentials{
		ID:           user.ID,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Status:       user.Status,
	}, nil
}

func (s *Service) GetAccount(
	ctx context.Context,
	userID string,
) (*middleware.Account, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &middleware.Account{
		ID:     user.ID,
		Role:   user.Role,
		Status: user.Status,
	}, nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Register creates an active USER account. Emails are unique without
// regard to case.
func (s *Service) Register(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         core.RoleUser,
		Status:       core.StatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthenticated)
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthenticated)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	return user, nil
}

// DeleteMe deactivates the caller's account. Rows written by the user are
// kept, and the account can no longer authenticate.
func (s *Service) DeleteMe(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("delete me: %w", core.ErrUnauthenticated)
	}

	if _, err := s.repo.UpdateStatus(ctx, userID, core.StatusInactive); err != nil {
		return err
	}

	s.revokeSessions(ctx, userID)
	return nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Role != "" && !params.Role.Valid() {
		return nil, 0, core.InvalidInput("unknown role %q", params.Role)
	}
	if params.Status != "" && !params.Status.Valid() {
		return nil, 0, core.InvalidInput("unknown status %q", params.Status)
	}
	return s.repo.List(ctx, params)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateUserStatus changes an account's status. Admins cannot change their
// own status.
func (s *Service) UpdateUserStatus(
	ctx context.Context,
	actor core.Identity,
	id string,
	status core.Status,
) (*User, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, core.InvalidInput("unknown status %q", status)
	}
	if !core.ValidID(id) {
		return nil, fmt.Errorf("update status: %w", core.ErrNotFound)
	}
	if actor.UserID == id {
		return nil, core.InvalidInput("cannot change your own status")
	}

	user, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if status == core.StatusInactive {
		s.revokeSessions(ctx, id)
	}

	slog.InfoContext(ctx, "user status changed",
		"user_id", id,
		"status", status,
		"by", actor.UserID,
	)
	return user, nil
}

// UpdateUserRole changes an account's role. Admins cannot demote
// themselves.
func (s *Service) UpdateUserRole(
	ctx context.Context,
	actor core.Identity,
	id string,
	role core.Role,
) (*User, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, core.InvalidInput("unknown role %q", role)
	}
	if !core.ValidID(id) {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	if actor.UserID == id {
		return nil, core.InvalidInput("cannot change your own role")
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user role changed",
		"user_id", id,
		"role", role,
		"by", actor.UserID,
	)
	return user, nil
}

func (s *Service) revokeSessions(ctx context.Context, userID string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		slog.WarnContext(ctx, "revoke sessions failed",
			"user_id", userID,
			"error", err,
		)
	}
}
