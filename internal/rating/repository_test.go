// AngelaMos | 2026
// repository_test.go

package rating

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewRepository(sqlx.NewDb(mockDB, "pgx"), time.Second), mock
}

func TestCreateConstraintMapping(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"unique pair", "23505", core.ErrRatingExists},
		{"missing book", "23503", core.ErrBookNotFound},
		{"score check", "23514", core.ErrInvalidScore},
		{"shutdown", "57P01", core.ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery("INSERT INTO ratings").
				WithArgs("r1", reader.UserID, bookA, 4).
				WillReturnError(&pgconn.PgError{Code: tt.code})

			err := repo.Create(context.Background(), &Rating{
				ID: "r1", UserID: reader.UserID, BookID: bookA, Score: 4,
			})

			require.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpsertUsesOnConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Now().Add(-time.Hour)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO "ratings" .* ON CONFLICT \(user_id, book_id\) DO UPDATE SET "score"=EXCLUDED\.score,"updated_at"=NOW\(\) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("existing", created, now))

	rating := &Rating{ID: "fresh", UserID: reader.UserID, BookID: bookA, Score: 2}
	require.NoError(t, repo.Upsert(context.Background(), rating))

	assert.Equal(t, "existing", rating.ID)
	assert.Equal(t, created, rating.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateScoreMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE ratings")).
		WithArgs(reader.UserID, bookA, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateScore(context.Background(), reader.UserID, bookA, 3)

	require.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithScoreFloor(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "ratings" WHERE \(\("book_id" = \$1\) AND \("score" >= \$2\)\)`).
		WithArgs(bookA, 4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY "created_at" DESC, "id" ASC LIMIT \$3`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "book_id", "score", "created_at", "updated_at"},
		).AddRow("r1", reader.UserID, bookA, 5, now, now))
	mock.ExpectCommit()

	floor := 4
	ratings, total, err := repo.List(context.Background(), ListParams{
		PageParams: core.PageParams{Page: 0, Size: 20},
		BookID:     bookA,
		MinScore:   &floor,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrderedByScore(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "ratings" WHERE \("book_id" = \$1\)`).
		WithArgs(bookA).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`ORDER BY "score" ASC, "id" ASC LIMIT \$2`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "book_id", "score", "created_at", "updated_at"},
		).
			AddRow("r1", reader.UserID, bookA, 2, now, now).
			AddRow("r2", other.UserID, bookA, 5, now, now))
	mock.ExpectCommit()

	ratings, total, err := repo.List(context.Background(), ListParams{
		PageParams: core.PageParams{Page: 0, Size: 10},
		BookID:     bookA,
		Sort:       core.SortParams{Column: "score", Order: "asc"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, ratings, 2)
	assert.Equal(t, 2, ratings[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
