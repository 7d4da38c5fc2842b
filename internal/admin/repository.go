// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

// DashboardStats are catalogue wide totals. AverageRating is nil while no
// rating exists.
type DashboardStats struct {
	Books         int      `db:"books"          json:"books"`
	Users         int      `db:"users"          json:"users"`
	Comments      int      `db:"comments"       json:"comments"`
	Ratings       int      `db:"ratings"        json:"ratings"`
	AverageRating *float64 `db:"average_rating" json:"average_rating"`
}

type Repository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type repository struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewRepository(db *sqlx.DB, timeout time.Duration) Repository {
	return &repository{db: db, timeout: timeout}
}

func (r *repository) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	ctx, cancel := core.WithQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT (SELECT COUNT(*) FROM books)    AS books,
		       (SELECT COUNT(*) FROM users)    AS users,
		       (SELECT COUNT(*) FROM comments) AS comments,
		       (SELECT COUNT(*) FROM ratings)  AS ratings,
		       (SELECT AVG(score)::float8 FROM ratings) AS average_rating`

	var stats DashboardStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, core.StoreError("dashboard stats", err)
	}

	return &stats, nil
}
