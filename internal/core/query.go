// AngelaMos | 2026
// query.go

package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

// Dialect builds PostgreSQL statements with numbered placeholders.
var Dialect = goqu.Dialect("postgres")

type Query struct {
	SQL  string
	Args []any
}

// PageQueries derives the count statement and the page statement from one
// filtered dataset, so both always share the same predicate.
func PageQueries(
	ds *goqu.SelectDataset,
	columns []any,
	order []exp.OrderedExpression,
	page PageParams,
) (Query, Query, error) {
	ds = ds.Prepared(true)

	countSQL, countArgs, err := ds.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return Query{}, Query{}, fmt.Errorf("build count query: %w", err)
	}

	pageSQL, pageArgs, err := ds.Select(columns...).
		Order(order...).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset())).
		ToSQL()
	if err != nil {
		return Query{}, Query{}, fmt.Errorf("build page query: %w", err)
	}

	return Query{SQL: countSQL, Args: countArgs}, Query{SQL: pageSQL, Args: pageArgs}, nil
}

// SelectPage reads the total and one page inside a single read only
// snapshot so the two describe the same set of rows.
func SelectPage[T any](
	ctx context.Context,
	db *sqlx.DB,
	op string,
	count, page Query,
) ([]T, int, error) {
	var (
		total int
		items = []T{}
	)

	err := InTxWithOptions(ctx, db, ReadOnlySnapshot, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &total, count.SQL, count.Args...); err != nil {
			return StoreError(op+": count", err)
		}
		if err := tx.SelectContext(ctx, &items, page.SQL, page.Args...); err != nil {
			return StoreError(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// SortParams is a requested ordering. Column is a public sort name that a
// Sortable maps to a real column.
type SortParams struct {
	Column string
	Order  string
}

// ParseSort reads the sort and order query parameters.
func ParseSort(r *http.Request) SortParams {
	q := r.URL.Query()
	return SortParams{
		Column: strings.TrimSpace(q.Get("sort")),
		Order:  strings.ToLower(strings.TrimSpace(q.Get("order"))),
	}
}

// Sortable whitelists the columns a list may be ordered by. Default applies
// when no column is requested.
type Sortable struct {
	Columns map[string]string
	Default []exp.OrderedExpression
}

func (s Sortable) Validate(p SortParams) error {
	if p.Column != "" {
		if _, ok := s.Columns[p.Column]; !ok {
			return InvalidInput("cannot sort by %q", p.Column)
		}
	}
	switch p.Order {
	case "", "asc", "desc":
		return nil
	default:
		return InvalidInput("order must be asc or desc")
	}
}

// OrderBy orders by the requested column, descending unless asc is asked
// for, with id as the tie-break. Unknown columns fall back to Default.
func (s Sortable) OrderBy(p SortParams) []exp.OrderedExpression {
	column, ok := s.Columns[p.Column]
	if !ok {
		return s.Default
	}

	primary := goqu.I(column).Desc()
	if p.Order == "asc" {
		primary = goqu.I(column).Asc()
	}

	return []exp.OrderedExpression{primary, goqu.I("id").Asc()}
}
