// AngelaMos | 2026
// entity.go

package book

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

type Book struct {
	ID              string     `db:"id"`
	ISBN            string     `db:"isbn"`
	Title           string     `db:"title"`
	Price           int        `db:"price"`
	Publisher       string     `db:"publisher"`
	PublicationDate *time.Time `db:"publication_date"`
	Summary         string     `db:"summary"`
	Authors         TextList   `db:"authors"`
	Categories      TextList   `db:"categories"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// RankedBook is a book together with the aggregate it was ranked by.
type RankedBook struct {
	Book
	RatingCount   int      `db:"rating_count"`
	CommentCount  int      `db:"comment_count"`
	AverageRating *float64 `db:"average_rating"`
}

// Stats summarises the ratings and comments attached to one book.
// AverageRating is nil while the book has no ratings.
type Stats struct {
	BookID        string   `db:"book_id"       json:"book_id"`
	RatingCount   int      `db:"rating_count"  json:"rating_count"`
	CommentCount  int      `db:"comment_count" json:"comment_count"`
	AverageRating *float64 `db:"average_rating" json:"average_rating"`
}

// DeleteResult reports what a cascading book delete removed.
type DeleteResult struct {
	Ratings  int64
	Comments int64
}

// TextList is an ordered list of short strings stored as one comma
// separated column.
type TextList []string

const textListSeparator = ","

func (l TextList) Value() (driver.Value, error) {
	return strings.Join(l, textListSeparator), nil
}

func (l *TextList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = TextList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan text list: unsupported type %T", src)
	}

	*l = ParseTextList(raw)
	return nil
}

// ParseTextList splits a stored column back into its items, dropping empty
// entries.
func ParseTextList(raw string) TextList {
	parts := strings.Split(raw, textListSeparator)
	out := make(TextList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeTextList trims items and drops blanks. Commas inside an item
// would split it on read, so they are rejected by validation upstream.
func NormalizeTextList(items []string) TextList {
	out := make(TextList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
