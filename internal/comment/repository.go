// AngelaMos | 2026
// repository.go

package comment

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
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*Comment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Comment, int, error)
}

var (
	listColumns = []any{
		"id", "user_id", "book_id", "content", "created_at", "updated_at",
	}

	sorting = core.Sortable{
		Columns: map[string]string{
			"created_at": "created_at",
			"updated_at": "updated_at",
		},
		Default: []exp.OrderedExpression{goqu.I("created_at").Desc(), goqu.I("id").Asc()},
	}
)

type repository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewRepository(db *sqlx.DB, timeout time.Duration) Repository {
	return &repository{db: db, timeout: timeout}
}

func (r *repository) Create(ctx context.Context, comment *Comment) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO comments (id, user_id, book_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		comment.ID,
		comment.UserID,
		comment.BookID,
		comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		// The book can vanish between the existence check and the insert.
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create comment: %w", core.ErrBookNotFound)
		}
		return core.StoreError("create comment", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Comment, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, user_id, book_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1`

	var comment Comment
	err := r.db.GetContext(ctx, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get comment", err)
	}

	return &comment, nil
}

func (r *repository) UpdateContent(
	ctx context.Context,
	id, content string,
) (*Comment, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE comments
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, book_id, content, created_at, updated_at`

	var comment Comment
	err := r.db.GetContext(ctx, &comment, query, id, content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("update comment", err)
	}

	return &comment, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return core.StoreError("delete comment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.StoreError("delete comment", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete comment: %w", core.ErrNotFound)
	}

	return nil
}

// List returns comments newest first unless another order is requested,
// filtered by book or author and an optional case-insensitive keyword.
func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Comment, int, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	ds := core.Dialect.From("comments")
	if params.BookID != "" {
		ds = ds.Where(goqu.Ex{"book_id": params.BookID})
	}
	if params.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": params.UserID})
	}
	if params.Keyword != "" {
		ds = ds.Where(goqu.I("content").ILike("%" + core.EscapeLike(params.Keyword) + "%"))
	}

	count, page, err := core.PageQueries(
		ds,
		listColumns,
		sorting.OrderBy(params.Sort),
		params.PageParams,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	return core.SelectPage[Comment](ctx, r.db, "list comments", count, page)
}
