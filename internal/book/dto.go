// AngelaMos | 2026
// dto.go

package book

import (
	"time"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

const dateLayout = "2006-01-02"

type CreateBookRequest struct {
	ISBN            string   `json:"isbn"                       validate:"required,max=30"`
	Title           string   `json:"title"                      validate:"required,min=1,max=255"`
	Price           *int     `json:"price"                      validate:"required,min=0"`
	Publisher       string   `json:"publisher"                  validate:"max=255"`
	PublicationDate string   `json:"publication_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Summary         string   `json:"summary"                    validate:"max=5000"`
	Authors         []string `json:"authors"                    validate:"max=20,dive,required,max=100,excludesall=0x2C"`
	Categories      []string `json:"categories"                 validate:"max=20,dive,required,max=50,excludesall=0x2C"`
}

type UpdateBookRequest struct {
	ISBN            *string   `json:"isbn,omitempty"             validate:"omitempty,min=1,max=30"`
	Title           *string   `json:"title,omitempty"            validate:"omitempty,min=1,max=255"`
	Price           *int      `json:"price,omitempty"            validate:"omitempty,min=0"`
	Publisher       *string   `json:"publisher,omitempty"        validate:"omitempty,max=255"`
	PublicationDate *string   `json:"publication_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Summary         *string   `json:"summary,omitempty"          validate:"omitempty,max=5000"`
	Authors         *[]string `json:"authors,omitempty"          validate:"omitempty,max=20,dive,required,max=100,excludesall=0x2C"`
	Categories      *[]string `json:"categories,omitempty"       validate:"omitempty,max=20,dive,required,max=50,excludesall=0x2C"`
}

// ListParams selects one page of the catalogue. Sort names a whitelisted
// column, Order is asc or desc.
type ListParams struct {
	core.PageParams
	Search   string
	Category string
	MinPrice *int
	MaxPrice *int
	Sort     string
	Order    string
}

type BookResponse struct {
	ID              string    `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Price           int       `json:"price"`
	Publisher       string    `json:"publisher"`
	PublicationDate *string   `json:"publication_date"`
	Summary         string    `json:"summary"`
	Authors         []string  `json:"authors"`
	Categories      []string  `json:"categories"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type RankedBookResponse struct {
	BookResponse
	RatingCount   int      `json:"rating_count"`
	CommentCount  int      `json:"comment_count"`
	AverageRating *float64 `json:"average_rating"`
}

func ToBookResponse(b *Book) BookResponse {
	var published *string
	if b.PublicationDate != nil {
		s := b.PublicationDate.Format(dateLayout)
		published = &s
	}

	authors := []string(b.Authors)
	if authors == nil {
		authors = []string{}
	}
	categories := []string(b.Categories)
	if categories == nil {
		categories = []string{}
	}

	return BookResponse{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Price:           b.Price,
		Publisher:       b.Publisher,
		PublicationDate: published,
		Summary:         b.Summary,
		Authors:         authors,
		Categories:      categories,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func ToBookResponseList(books []Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, ToBookResponse(&books[i]))
	}
	return out
}

func ToRankedBookResponseList(books []RankedBook) []RankedBookResponse {
	out := make([]RankedBookResponse, 0, len(books))
	for i := range books {
		out = append(out, RankedBookResponse{
			BookResponse:  ToBookResponse(&books[i].Book),
			RatingCount:   books[i].RatingCount,
			CommentCount:  books[i].CommentCount,
			AverageRating: RoundAverage(books[i].AverageRating),
		})
	}
	return out
}
