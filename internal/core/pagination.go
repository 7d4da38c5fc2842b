// AngelaMos | 2026
// pagination.go

package core

import (
	"math"
	"net/http"
	"strconv"

	"github.com/carterperez-dev/bookstore-api/internal/config"
)

// PageParams addresses one page of an ordered result. Page is a zero based
// index.
type PageParams struct {
	Page int
	Size int
}

func (p PageParams) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of an ordered result together with the total number of
// matching rows at the time it was read.
type Page[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int
}

func (p Page[T]) TotalPages() int {
	return TotalPages(p.Total, p.Size)
}

func TotalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// MaxOffset bounds page*size so the offset handed to the store never
// overflows.
const MaxOffset = math.MaxInt32

type Pager struct {
	DefaultSize int
	MaxSize     int
}

func NewPager(cfg config.PaginationConfig) Pager {
	return Pager{DefaultSize: cfg.DefaultPageSize, MaxSize: cfg.MaxPageSize}
}

// Resolve validates a page request. Negative pages and sizes below one are
// rejected, and so is any page whose offset would pass MaxOffset. A size
// above the maximum is clamped.
func (p Pager) Resolve(page, size int) (PageParams, error) {
	if page < 0 {
		return PageParams{}, InvalidInput("page must be >= 0")
	}
	if size < 1 {
		return PageParams{}, InvalidInput("size must be >= 1")
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	if page > MaxOffset/size {
		return PageParams{}, InvalidInput("page must be <= %d for size %d", MaxOffset/size, size)
	}
	return PageParams{Page: page, Size: size}, nil
}

// ParsePage reads the page and size query parameters, applying defaults for
// absent values.
func (p Pager) ParsePage(r *http.Request) (PageParams, error) {
	page, err := QueryInt(r, "page", 0)
	if err != nil {
		return PageParams{}, err
	}

	size, err := QueryInt(r, "size", p.DefaultSize)
	if err != nil {
		return PageParams{}, err
	}

	return p.Resolve(page, size)
}

func QueryInt(r *http.Request, key string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal, nil
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, InvalidInput("%s must be an integer", key)
	}

	return parsed, nil
}

func QueryOptionalInt(r *http.Request, key string) (*int, error) {
	if r.URL.Query().Get(key) == "" {
		return nil, nil
	}

	v, err := QueryInt(r, key, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
