// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/bookstore-api/internal/config"
	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/user"
)

const minPasswordLength = 8

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	name := flag.String("name", "Administrator", "admin display name")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	if err := run(*configPath, *email, *name, os.Getenv("ADMIN_PASSWORD")); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

// run creates the admin account, or promotes and reactivates it when the
// email is already registered.
func run(configPath, email, name, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("admin email is required (-email or ADMIN_EMAIL)")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exit

	repo := user.NewRepository(db.DB, db.QueryTimeout)

	existing, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := repo.UpdateRole(ctx, existing.ID, core.RoleAdmin); err != nil {
			return err
		}
		if _, err := repo.UpdateStatus(ctx, existing.ID, core.StatusActive); err != nil {
			return err
		}
		slog.Info("existing user promoted to admin", "user_id", existing.ID)
		return nil
	case !errors.Is(err, core.ErrNotFound):
		return err
	}

	if len(password) < minPasswordLength {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", minPasswordLength)
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &user.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         core.RoleAdmin,
		Status:       core.StatusActive,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	slog.Info("admin user created", "user_id", admin.ID, "email", email)
	return nil
}
