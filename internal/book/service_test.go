// AngelaMos | 2026
// service_test.go

package book

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

type fakeRepo struct {
	books   map[string]*Book
	stats   map[string]*Stats
	deleted []string
}

func newFakeRepo(books ...Book) *fakeRepo {
	f := &fakeRepo{books: map[string]*Book{}, stats: map[string]*Stats{}}
	for i := range books {
		b := books[i]
		f.books[b.ID] = &b
	}
	return f
}

func (f *fakeRepo) Create(_ context.Context, b *Book) error {
	for _, existing := range f.books {
		if existing.ISBN == b.ISBN {
			return fmt.Errorf("create book: %w", core.ErrDuplicateKey)
		}
	}
	clone := *b
	f.books[b.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, fmt.Errorf("get book: %w", core.ErrBookNotFound)
	}
	clone := *b
	return &clone, nil
}

func (f *fakeRepo) Update(_ context.Context, b *Book) error {
	if _, ok := f.books[b.ID]; !ok {
		return fmt.Errorf("update book: %w", core.ErrBookNotFound)
	}
	clone := *b
	f.books[b.ID] = &clone
	return nil
}

func (f *fakeRepo) DeleteWithDependents(_ context.Context, id string) (*DeleteResult, error) {
	if _, ok := f.books[id]; !ok {
		return nil, fmt.Errorf("delete book: %w", core.ErrBookNotFound)
	}
	delete(f.books, id)
	f.deleted = append(f.deleted, id)
	return &DeleteResult{}, nil
}

// List mirrors the store's ordering: the requested column, then id.
func (f *fakeRepo) List(_ context.Context, params ListParams) ([]Book, int, error) {
	matched := make([]Book, 0, len(f.books))
	for _, b := range f.books {
		if params.Search != "" &&
			!strings.Contains(strings.ToLower(b.Title), strings.ToLower(params.Search)) {
			continue
		}
		matched = append(matched, *b)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Title != matched[j].Title {
			return matched[i].Title < matched[j].Title
		}
		return matched[i].ID < matched[j].ID
	})

	start := min(params.Offset(), len(matched))
	end := min(start+params.Size, len(matched))
	return matched[start:end], len(matched), nil
}

func (f *fakeRepo) TopRated(context.Context, int) ([]RankedBook, error) {
	return []RankedBook{}, nil
}

func (f *fakeRepo) MostCommented(context.Context, int) ([]RankedBook, error) {
	return []RankedBook{}, nil
}

func (f *fakeRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.books[id]
	return ok, nil
}

func (f *fakeRepo) Stats(_ context.Context, id string) (*Stats, error) {
	s, ok := f.stats[id]
	if !ok {
		return nil, fmt.Errorf("book stats: %w", core.ErrBookNotFound)
	}
	clone := *s
	return &clone, nil
}

var (
	admin  = core.Identity{UserID: "7d1e3c57-5f7a-4b0e-9c35-1a2b3c4d5e01", Role: core.RoleAdmin}
	reader = core.Identity{UserID: "7d1e3c57-5f7a-4b0e-9c35-1a2b3c4d5e02", Role: core.RoleUser}
)

func bookID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}

func catalogue(n int) []Book {
	titles := []string{"Alpha", "Beta", "Gamma"}
	books := make([]Book, 0, n)
	for i := range n {
		books = append(books, Book{
			ID:    bookID(i + 1),
			ISBN:  fmt.Sprintf("97800000%05d", i),
			Title: titles[i%len(titles)],
		})
	}
	return books
}

func TestListPagesConcatenateToFullOrderedSet(t *testing.T) {
	svc := NewService(newFakeRepo(catalogue(23)...))
	ctx := context.Background()

	full, err := svc.List(ctx, ListParams{PageParams: core.PageParams{Page: 0, Size: 100}})
	require.NoError(t, err)
	require.Len(t, full.Items, 23)

	for _, size := range []int{1, 4, 5, 10, 23, 30} {
		t.Run(fmt.Sprintf("size %d", size), func(t *testing.T) {
			first, err := svc.List(ctx, ListParams{PageParams: core.PageParams{Page: 0, Size: size}})
			require.NoError(t, err)
			assert.Equal(t, (23+size-1)/size, first.TotalPages())

			var ids []string
			for page := 0; page < first.TotalPages(); page++ {
				res, err := svc.List(ctx, ListParams{PageParams: core.PageParams{Page: page, Size: size}})
				require.NoError(t, err)
				for _, b := range res.Items {
					ids = append(ids, b.ID)
				}
			}

			want := make([]string, 0, len(full.Items))
			for _, b := range full.Items {
				want = append(want, b.ID)
			}
			assert.Equal(t, want, ids)
		})
	}
}

func TestListPastLastPageIsEmpty(t *testing.T) {
	svc := NewService(newFakeRepo(catalogue(3)...))

	res, err := svc.List(context.Background(), ListParams{PageParams: core.PageParams{Page: 5, Size: 2}})

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.TotalPages())
}

func TestListRejectsInvalidParams(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	lo, hi := 500, 100

	cases := map[string]ListParams{
		"negative page":  {PageParams: core.PageParams{Page: -1, Size: 10}},
		"zero size":      {PageParams: core.PageParams{Page: 0, Size: 0}},
		"unknown sort":   {PageParams: core.PageParams{Size: 10}, Sort: "isbn; DROP TABLE books"},
		"unknown order":  {PageParams: core.PageParams{Size: 10}, Order: "sideways"},
		"inverted range": {PageParams: core.PageParams{Size: 10}, MinPrice: &lo, MaxPrice: &hi},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.List(ctx, params)
			assert.ErrorIs(t, err, core.ErrInvalidInput)
		})
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	repo := newFakeRepo(catalogue(1)...)
	svc := NewService(repo)
	ctx := context.Background()
	price := 1000

	_, err := svc.Create(ctx, reader, CreateBookRequest{ISBN: "9780000000999", Title: "X", Price: &price})
	assert.ErrorIs(t, err, core.ErrForbidden)

	title := "Renamed"
	_, err = svc.Update(ctx, reader, bookID(1), UpdateBookRequest{Title: &title})
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.Delete(ctx, reader, bookID(1))
	assert.ErrorIs(t, err, core.ErrForbidden)

	assert.Len(t, repo.books, 1)
	assert.Equal(t, "Alpha", repo.books[bookID(1)].Title)
	assert.Empty(t, repo.deleted)
}

func TestCreateBook(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	price := 4599

	b, err := svc.Create(context.Background(), admin, CreateBookRequest{
		ISBN:            "9780134190440",
		Title:           " The Go Programming Language ",
		Price:           &price,
		PublicationDate: "2015-10-26",
		Authors:         []string{"Alan Donovan", " Brian Kernighan "},
	})
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", b.Title)
	assert.Equal(t, TextList{"Alan Donovan", "Brian Kernighan"}, b.Authors)
	require.NotNil(t, b.PublicationDate)
	assert.Equal(t, 2015, b.PublicationDate.Year())

	_, err = svc.Create(context.Background(), admin, CreateBookRequest{
		ISBN:  "9780134190440",
		Title: "Copy",
		Price: &price,
	})
	require.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.Equal(t, "DUPLICATE_RESOURCE", core.FromError(err).Code)

	negative := -1
	_, err = svc.Create(context.Background(), admin, CreateBookRequest{ISBN: "9780000000001", Title: "Neg", Price: &negative})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.Create(context.Background(), admin, CreateBookRequest{
		ISBN:            "9780000000002",
		Title:           "Bad date",
		Price:           &price,
		PublicationDate: "26/10/2015",
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDeleteBook(t *testing.T) {
	repo := newFakeRepo(catalogue(2)...)
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, admin, bookID(1)))
	assert.Equal(t, []string{bookID(1)}, repo.deleted)

	assert.ErrorIs(t, svc.Delete(ctx, admin, bookID(1)), core.ErrBookNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, admin, "not-a-uuid"), core.ErrBookNotFound)
}

func TestStatsRoundsAverage(t *testing.T) {
	repo := newFakeRepo(catalogue(2)...)
	avg := 3.666666
	repo.stats[bookID(1)] = &Stats{BookID: bookID(1), RatingCount: 3, CommentCount: 1, AverageRating: &avg}
	repo.stats[bookID(2)] = &Stats{BookID: bookID(2)}
	svc := NewService(repo)

	s, err := svc.Stats(context.Background(), bookID(1))
	require.NoError(t, err)
	require.NotNil(t, s.AverageRating)
	assert.InDelta(t, 3.67, *s.AverageRating, 1e-9)

	s, err = svc.Stats(context.Background(), bookID(2))
	require.NoError(t, err)
	assert.Nil(t, s.AverageRating)
	assert.Zero(t, s.RatingCount)

	_, err = svc.Stats(context.Background(), bookID(9))
	assert.ErrorIs(t, err, core.ErrBookNotFound)
}

func TestRankingLimits(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	for _, limit := range []int{0, -1, 101} {
		_, err := svc.TopRated(ctx, limit)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		_, err = svc.MostCommented(ctx, limit)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	}

	_, err := svc.TopRated(ctx, 100)
	assert.NoError(t, err)
}

func TestExists(t *testing.T) {
	svc := NewService(newFakeRepo(catalogue(1)...))

	assert.NoError(t, svc.Exists(context.Background(), bookID(1)))
	assert.ErrorIs(t, svc.Exists(context.Background(), bookID(2)), core.ErrBookNotFound)
	assert.ErrorIs(t, svc.Exists(context.Background(), "42"), core.ErrBookNotFound)
}
