// AngelaMos | 2026
// pagination_test.go

package core

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestPagerResolve(t *testing.T) {
	p := Pager{DefaultSize: 10, MaxSize: 50}

	params, err := p.Resolve(3, 20)
	require.NoError(t, err)
	assert.Equal(t, 60, params.Offset())

	params, err = p.Resolve(0, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, params.Size)

	_, err = p.Resolve(-1, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = p.Resolve(0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPagerResolveOffsetBound(t *testing.T) {
	p := Pager{DefaultSize: 10, MaxSize: 50}

	_, err := p.Resolve(math.MaxInt64/50, 100)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Pager{MaxSize: 100}.Resolve(math.MaxInt64/50, 100)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = p.Resolve(math.MaxInt, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = p.Resolve(MaxOffset/50+1, 50)
	assert.ErrorIs(t, err, ErrInvalidInput)

	params, err := p.Resolve(MaxOffset/50, 50)
	require.NoError(t, err)
	assert.Positive(t, params.Offset())
	assert.LessOrEqual(t, params.Offset(), MaxOffset)

	params, err = p.Resolve(MaxOffset, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxOffset, params.Offset())

	_, err = p.ParsePage(httptest.NewRequest("GET", "/books?page=184467440737095516&size=100", nil))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPagerParsePage(t *testing.T) {
	p := Pager{DefaultSize: 10, MaxSize: 50}

	params, err := p.ParsePage(httptest.NewRequest("GET", "/books", nil))
	require.NoError(t, err)
	assert.Equal(t, PageParams{Page: 0, Size: 10}, params)

	params, err = p.ParsePage(httptest.NewRequest("GET", "/books?page=2&size=5", nil))
	require.NoError(t, err)
	assert.Equal(t, PageParams{Page: 2, Size: 5}, params)

	_, err = p.ParsePage(httptest.NewRequest("GET", "/books?page=abc", nil))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
