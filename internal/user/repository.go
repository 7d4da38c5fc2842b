// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateStatus(ctx context.Context, id string, status core.Status) (*User, error)
	UpdateRole(ctx context.Context, id string, role core.Role) (*User, error)
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
}

const userColumns = `id, email, password_hash, name, phone, address, role, status,
		       created_at, updated_at`

var listColumns = []any{
	"id", "email", "password_hash", "name", "phone", "address",
	"role", "status", "created_at", "updated_at",
}

type repository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewRepository(db *sqlx.DB, timeout time.Duration) Repository {
	return &repository{db: db, timeout: timeout}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO users (id, email, password_hash, name, phone, address, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Phone,
		user.Address,
		user.Role,
		user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return core.StoreError("create user", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get user", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get user by email", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE users
		SET name = $2, phone = $3, address = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.Phone,
		user.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return core.StoreError("update user", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return core.StoreError("update password", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.StoreError("update password", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	status core.Status,
) (*User, error) {
	return r.setColumn(ctx, "update status", "status", id, string(status))
}

func (r *repository) UpdateRole(
	ctx context.Context,
	id string,
	role core.Role,
) (*User, error) {
	return r.setColumn(ctx, "update role", "role", id, string(role))
}

func (r *repository) setColumn(
	ctx context.Context,
	op, column, id, value string,
) (*User, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := core.Dialect.Update("users").
		Prepared(true).
		Set(goqu.Record{column: value, "updated_at": goqu.L("NOW()")}).
		Where(goqu.Ex{"id": id}).
		Returning(listColumns...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var user User
	err = r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError(op, err)
	}

	return &user, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	ds := core.Dialect.From("users")

	if params.Search != "" {
		pattern := "%" + core.EscapeLike(params.Search) + "%"
		ds = ds.Where(goqu.Or(
			goqu.I("email").ILike(pattern),
			goqu.I("name").ILike(pattern),
		))
	}
	if params.Role != "" {
		ds = ds.Where(goqu.Ex{"role": string(params.Role)})
	}
	if params.Status != "" {
		ds = ds.Where(goqu.Ex{"status": string(params.Status)})
	}

	count, page, err := core.PageQueries(
		ds,
		listColumns,
		[]exp.OrderedExpression{goqu.I("created_at").Desc(), goqu.I("id").Asc()},
		params.PageParams,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return core.SelectPage[User](ctx, r.db, "list users", count, page)
}
