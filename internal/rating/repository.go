// AngelaMos | 2026
// repository.go

package rating

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
	Create(ctx context.Context, rating *Rating) error
	Upsert(ctx context.Context, rating *Rating) error
	Get(ctx context.Context, userID, bookID string) (*Rating, error)
	UpdateScore(ctx context.Context, userID, bookID string, score int) (*Rating, error)
	Delete(ctx context.Context, userID, bookID string) error
	List(ctx context.Context, params ListParams) ([]Rating, int, error)
}

const ratingColumns = `id, user_id, book_id, score, created_at, updated_at`

var (
	listColumns = []any{
		"id", "user_id", "book_id", "score", "created_at", "updated_at",
	}

	// sorting defaults to newest first.
	sorting = core.Sortable{
		Columns: map[string]string{
			"created_at": "created_at",
			"updated_at": "updated_at",
			"score":      "score",
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

// Create inserts a new rating. The (user_id, book_id) unique constraint is
// the final arbiter: a concurrent insert that wins the race surfaces here
// as core.ErrRatingExists.
func (r *repository) Create(ctx context.Context, rating *Rating) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO ratings (id, user_id, book_id, score)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rating.ID,
		rating.UserID,
		rating.BookID,
		rating.Score,
	).Scan(&rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		return classify("create rating", err)
	}

	return nil
}

// Upsert inserts a rating or replaces the score of the caller's existing
// one in a single statement. rating.ID is set to the stored row's id.
func (r *repository) Upsert(ctx context.Context, rating *Rating) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := core.Dialect.Insert("ratings").
		Prepared(true).
		Rows(goqu.Record{
			"id":      rating.ID,
			"user_id": rating.UserID,
			"book_id": rating.BookID,
			"score":   rating.Score,
		}).
		OnConflict(goqu.DoUpdate("user_id, book_id", goqu.Record{
			"score":      goqu.L("EXCLUDED.score"),
			"updated_at": goqu.L("NOW()"),
		})).
		Returning("id", "created_at", "updated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("upsert rating: build query: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).
		Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		return classify("upsert rating", err)
	}

	return nil
}

func (r *repository) Get(ctx context.Context, userID, bookID string) (*Rating, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE user_id = $1 AND book_id = $2`

	var rating Rating
	err := r.db.GetContext(ctx, &rating, query, userID, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get rating: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get rating", err)
	}

	return &rating, nil
}

func (r *repository) UpdateScore(
	ctx context.Context,
	userID, bookID string,
	score int,
) (*Rating, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE ratings
		SET score = $3, updated_at = NOW()
		WHERE user_id = $1 AND book_id = $2
		RETURNING ` + ratingColumns

	var rating Rating
	err := r.db.GetContext(ctx, &rating, query, userID, bookID, score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update rating: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, classify("update rating", err)
	}

	return &rating, nil
}

func (r *repository) Delete(ctx context.Context, userID, bookID string) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM ratings WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		return core.StoreError("delete rating", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.StoreError("delete rating", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete rating: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Rating, int, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	ds := core.Dialect.From("ratings")
	if params.BookID != "" {
		ds = ds.Where(goqu.Ex{"book_id": params.BookID})
	}
	if params.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": params.UserID})
	}
	if params.MinScore != nil {
		ds = ds.Where(goqu.C("score").Gte(*params.MinScore))
	}
	if params.MaxScore != nil {
		ds = ds.Where(goqu.C("score").Lte(*params.MaxScore))
	}

	count, page, err := core.PageQueries(
		ds,
		listColumns,
		sorting.OrderBy(params.Sort),
		params.PageParams,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}

	return core.SelectPage[Rating](ctx, r.db, "list ratings", count, page)
}

func classify(op string, err error) error {
	switch {
	case core.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, core.ErrRatingExists)
	case core.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, core.ErrBookNotFound)
	case core.IsCheckViolation(err):
		return fmt.Errorf("%s: %w", op, core.ErrInvalidScore)
	default:
		return core.StoreError(op, err)
	}
}
