// AngelaMos | 2026
// service_test.go

package comment

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

const (
	bookA    = "3c0b4f0e-1f7e-4b8e-a6f1-000000000001"
	bookGone = "3c0b4f0e-1f7e-4b8e-a6f1-0000000000ff"
)

var (
	author   = core.Identity{UserID: "9a1b2c3d-0000-4000-8000-000000000001", Role: core.RoleUser}
	stranger = core.Identity{UserID: "9a1b2c3d-0000-4000-8000-000000000002", Role: core.RoleUser}
	admin    = core.Identity{UserID: "9a1b2c3d-0000-4000-8000-000000000003", Role: core.RoleAdmin}
)

type fakeBooks map[string]bool

func (f fakeBooks) Exists(_ context.Context, id string) error {
	if !f[id] {
		return fmt.Errorf("book exists: %w", core.ErrBookNotFound)
	}
	return nil
}

type fakeRepo struct {
	comments map[string]*Comment
	inserts  int
}

func (f *fakeRepo) Create(_ context.Context, c *Comment) error {
	f.inserts++
	clone := *c
	f.comments[c.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (f *fakeRepo) UpdateContent(_ context.Context, id, content string) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("update comment: %w", core.ErrNotFound)
	}
	c.Content = content
	clone := *c
	return &clone, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return fmt.Errorf("delete comment: %w", core.ErrNotFound)
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, params ListParams) ([]Comment, int, error) {
	var out []Comment
	for _, c := range f.comments {
		if params.BookID != "" && c.BookID != params.BookID {
			continue
		}
		if params.UserID != "" && c.UserID != params.UserID {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{comments: map[string]*Comment{}}
	return NewService(repo, fakeBooks{bookA: true}), repo
}

func TestCreateComment(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, author, bookA, "  Great read  ")
	require.NoError(t, err)
	assert.Equal(t, "Great read", c.Content)
	assert.Equal(t, author.UserID, c.UserID)

	_, err = svc.Create(ctx, author, bookA, "Second thoughts")
	require.NoError(t, err, "comments are not unique per user and book")
	assert.Equal(t, 2, repo.inserts)
}

func TestCreateCommentRejects(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, author, bookGone, "hello")
	assert.ErrorIs(t, err, core.ErrBookNotFound)

	_, err = svc.Create(ctx, author, bookA, "   ")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	assert.Zero(t, repo.inserts)
}

func TestOnlyAuthorMayEditOrDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, author, bookA, "original")
	require.NoError(t, err)

	_, err = svc.Update(ctx, stranger, c.ID, "hijacked")
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, stranger, c.ID), core.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, admin, c.ID), core.ErrForbidden)
	assert.Equal(t, "original", repo.comments[c.ID].Content)

	updated, err := svc.Update(ctx, author, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, svc.Delete(ctx, author, c.ID))
	assert.Empty(t, repo.comments)

	assert.ErrorIs(t, svc.Delete(ctx, author, c.ID), core.ErrNotFound)
	_, err = svc.Update(ctx, author, "nope", "x")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListComments(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, author, bookA, "one")
	require.NoError(t, err)
	_, err = svc.Create(ctx, stranger, bookA, "two")
	require.NoError(t, err)

	page, err := svc.ListByBook(ctx, bookA, core.PageParams{Page: 0, Size: 10}, core.SortParams{}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	_, err = svc.ListByBook(ctx, bookGone, core.PageParams{Page: 0, Size: 10}, core.SortParams{}, "")
	assert.ErrorIs(t, err, core.ErrBookNotFound)

	mine, err := svc.ListByUser(ctx, author, author.UserID, core.PageParams{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	_, err = svc.ListByUser(ctx, stranger, author.UserID, core.PageParams{Size: 10})
	assert.ErrorIs(t, err, core.ErrForbidden)

	theirs, err := svc.ListByUser(ctx, admin, stranger.UserID, core.PageParams{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, theirs.Total)
}

func TestListCommentsSortWhitelist(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	page := core.PageParams{Page: 0, Size: 10}

	for _, sort := range []core.SortParams{
		{Column: "updated_at"},
		{Column: "created_at", Order: "asc"},
		{Order: "desc"},
	} {
		_, err := svc.ListByBook(ctx, bookA, page, sort, "")
		assert.NoError(t, err, "%+v", sort)
	}

	for _, sort := range []core.SortParams{
		{Column: "content"},
		{Column: "created_at; DROP TABLE comments"},
		{Column: "created_at", Order: "sideways"},
	} {
		_, err := svc.ListByBook(ctx, bookA, page, sort, "")
		assert.ErrorIs(t, err, core.ErrInvalidInput, "%+v", sort)
	}
}
