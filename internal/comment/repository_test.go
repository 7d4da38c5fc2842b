// AngelaMos | 2026
// repository_test.go

package comment

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

func TestCreateMapsForeignKeyToBookNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO comments").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "comments_book_id_fkey"})

	err := repo.Create(context.Background(), &Comment{ID: "c1", UserID: "u1", BookID: bookGone, Content: "hi"})

	require.ErrorIs(t, err, core.ErrBookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingComment(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM comments WHERE id = $1`)).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "c1")

	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestListByBookWithKeyword(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "comments" WHERE \(\("book_id" = \$1\) AND \("content" ILIKE \$2\)\)`).
		WithArgs(bookA, "%100\\%%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM "comments" .* ORDER BY "created_at" DESC, "id" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "book_id", "content", "created_at", "updated_at"}).
			AddRow("c1", "u1", bookA, "100% worth it", now, now))
	mock.ExpectCommit()

	comments, total, err := repo.List(context.Background(), ListParams{
		PageParams: core.PageParams{Size: 10},
		BookID:     bookA,
		Keyword:    "100%",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, comments, 1)
	assert.Equal(t, "100% worth it", comments[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrderedByUpdatedAt(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "comments" WHERE \("book_id" = \$1\)`).
		WithArgs(bookA).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY "updated_at" DESC, "id" ASC LIMIT \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "book_id", "content", "created_at", "updated_at"}).
			AddRow("c1", "u1", bookA, "edited", now, now))
	mock.ExpectCommit()

	comments, total, err := repo.List(context.Background(), ListParams{
		PageParams: core.PageParams{Size: 10},
		BookID:     bookA,
		Sort:       core.SortParams{Column: "updated_at"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, comments, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
