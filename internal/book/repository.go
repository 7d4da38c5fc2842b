// AngelaMos | 2026
// repository.go

package book

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
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id string) (*Book, error)
	Update(ctx context.Context, book *Book) error
	DeleteWithDependents(ctx context.Context, id string) (*DeleteResult, error)
	List(ctx context.Context, params ListParams) ([]Book, int, error)
	TopRated(ctx context.Context, limit int) ([]RankedBook, error)
	MostCommented(ctx context.Context, limit int) ([]RankedBook, error)
	Exists(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context, id string) (*Stats, error)
}

const bookColumns = `id, isbn, title, price, publisher, publication_date, summary,
		       authors, categories, created_at, updated_at`

var (
	listColumns = []any{
		"id", "isbn", "title", "price", "publisher", "publication_date",
		"summary", "authors", "categories", "created_at", "updated_at",
	}

	// sortColumns whitelists what a caller may order the catalogue by.
	sortColumns = map[string]string{
		"title":            "title",
		"price":            "price",
		"publication_date": "publication_date",
		"created_at":       "created_at",
	}
)

type repository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewRepository(db *sqlx.DB, timeout time.Duration) Repository {
	return &repository{db: db, timeout: timeout}
}

func (r *repository) Create(ctx context.Context, book *Book) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO books (id, isbn, title, price, publisher, publication_date,
		                   summary, authors, categories)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		book.ID,
		book.ISBN,
		book.Title,
		book.Price,
		book.Publisher,
		book.PublicationDate,
		book.Summary,
		book.Authors,
		book.Categories,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create book: %w", core.ErrDuplicateKey)
		}
		if core.IsCheckViolation(err) {
			return fmt.Errorf("create book: %w", core.InvalidInput("price must be >= 0"))
		}
		return core.StoreError("create book", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Book, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	var book Book
	err := r.db.GetContext(ctx, &book, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get book: %w", core.ErrBookNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get book", err)
	}

	return &book, nil
}

func (r *repository) Update(ctx context.Context, book *Book) error {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE books
		SET isbn = $2, title = $3, price = $4, publisher = $5,
		    publication_date = $6, summary = $7, authors = $8,
		    categories = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &book.UpdatedAt, query,
		book.ID,
		book.ISBN,
		book.Title,
		book.Price,
		book.Publisher,
		book.PublicationDate,
		book.Summary,
		book.Authors,
		book.Categories,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update book: %w", core.ErrBookNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update book: %w", core.ErrDuplicateKey)
		}
		return core.StoreError("update book", err)
	}

	return nil
}

// DeleteWithDependents removes a book and everything that references it in
// one transaction: ratings, then comments, then the book row. The book is
// locked first so no new rating or comment can attach mid delete.
func (r *repository) DeleteWithDependents(
	ctx context.Context,
	id string,
) (*DeleteResult, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	result := &DeleteResult{}

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked string
		err := tx.GetContext(ctx, &locked,
			`SELECT id FROM books WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete book: %w", core.ErrBookNotFound)
		}
		if err != nil {
			return core.StoreError("lock book", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM ratings WHERE book_id = $1`, id)
		if err != nil {
			return core.StoreError("delete ratings", err)
		}
		if result.Ratings, err = res.RowsAffected(); err != nil {
			return core.StoreError("delete ratings", err)
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE book_id = $1`, id)
		if err != nil {
			return core.StoreError("delete comments", err)
		}
		if result.Comments, err = res.RowsAffected(); err != nil {
			return core.StoreError("delete comments", err)
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
		if err != nil {
			return core.StoreError("delete book", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return core.StoreError("delete book", err)
		}
		if rows == 0 {
			return fmt.Errorf("delete book: %w", core.ErrBookNotFound)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Book, int, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	count, page, err := core.PageQueries(
		filtered(core.Dialect.From("books"), params),
		listColumns,
		orderBy(params),
		params.PageParams,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return core.SelectPage[Book](ctx, r.db, "list books", count, page)
}

func filtered(ds *goqu.SelectDataset, params ListParams) *goqu.SelectDataset {
	if params.Search != "" {
		ds = ds.Where(goqu.I("title").ILike("%" + core.EscapeLike(params.Search) + "%"))
	}
	if params.Category != "" {
		ds = ds.Where(goqu.L(
			"? = ANY(string_to_array(categories, ','))",
			params.Category,
		))
	}
	if params.MinPrice != nil {
		ds = ds.Where(goqu.C("price").Gte(*params.MinPrice))
	}
	if params.MaxPrice != nil {
		ds = ds.Where(goqu.C("price").Lte(*params.MaxPrice))
	}
	return ds
}

// orderBy always ends with id ascending so equal sort keys page
// deterministically.
func orderBy(params ListParams) []exp.OrderedExpression {
	column, ok := sortColumns[params.Sort]
	if !ok {
		column = "created_at"
	}

	primary := goqu.I(column).Asc()
	if params.Order == "desc" {
		primary = goqu.I(column).Desc()
	}

	return []exp.OrderedExpression{primary, goqu.I("id").Asc()}
}

func (r *repository) TopRated(ctx context.Context, limit int) ([]RankedBook, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT b.id, b.isbn, b.title, b.price, b.publisher, b.publication_date,
		       b.summary, b.authors, b.categories, b.created_at, b.updated_at,
		       COUNT(r.id) AS rating_count,
		       AVG(r.score)::float8 AS average_rating
		FROM books b
		JOIN ratings r ON r.book_id = b.id
		GROUP BY b.id
		ORDER BY average_rating DESC, rating_count DESC, b.id ASC
		LIMIT $1`

	books := []RankedBook{}
	if err := r.db.SelectContext(ctx, &books, query, limit); err != nil {
		return nil, core.StoreError("top rated books", err)
	}

	return books, nil
}

func (r *repository) MostCommented(ctx context.Context, limit int) ([]RankedBook, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT b.id, b.isbn, b.title, b.price, b.publisher, b.publication_date,
		       b.summary, b.authors, b.categories, b.created_at, b.updated_at,
		       COUNT(c.id) AS comment_count
		FROM books b
		JOIN comments c ON c.book_id = b.id
		GROUP BY b.id
		ORDER BY comment_count DESC, b.id ASC
		LIMIT $1`

	books := []RankedBook{}
	if err := r.db.SelectContext(ctx, &books, query, limit); err != nil {
		return nil, core.StoreError("most commented books", err)
	}

	return books, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id)
	if err != nil {
		return false, core.StoreError("check book exists", err)
	}

	return exists, nil
}

func (r *repository) Stats(ctx context.Context, id string) (*Stats, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT b.id AS book_id,
		       (SELECT COUNT(*) FROM ratings r WHERE r.book_id = b.id) AS rating_count,
		       (SELECT COUNT(*) FROM comments c WHERE c.book_id = b.id) AS comment_count,
		       (SELECT AVG(r.score)::float8 FROM ratings r WHERE r.book_id = b.id) AS average_rating
		FROM books b
		WHERE b.id = $1`

	var stats Stats
	err := r.db.GetContext(ctx, &stats, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book stats: %w", core.ErrBookNotFound)
	}
	if err != nil {
		return nil, core.StoreError("book stats", err)
	}

	return &stats, nil
}
