// AngelaMos | 2026
// service.go

package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

const maxRankingLimit = 100

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) (*core.Page[Book], error) {
	if params.Page < 0 || params.Size < 1 {
		return nil, core.InvalidInput("page must be >= 0 and size >= 1")
	}
	if params.Sort != "" {
		if _, ok := sortColumns[params.Sort]; !ok {
			return nil, core.InvalidInput("cannot sort by %q", params.Sort)
		}
	}
	switch params.Order {
	case "", "asc", "desc":
	default:
		return nil, core.InvalidInput("order must be asc or desc")
	}
	if params.MinPrice != nil && params.MaxPrice != nil &&
		*params.MinPrice > *params.MaxPrice {
		return nil, core.InvalidInput("min_price must not exceed max_price")
	}

	books, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &core.Page[Book]{
		Items: books,
		Page:  params.Page,
		Size:  params.Size,
		Total: total,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Book, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("get book: %w", core.ErrBookNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

// Exists fails with core.ErrBookNotFound unless the book is present.
func (s *Service) Exists(ctx context.Context, id string) error {
	if !core.ValidID(id) {
		return fmt.Errorf("book exists: %w", core.ErrBookNotFound)
	}

	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("book exists: %w", core.ErrBookNotFound)
	}
	return nil
}

func (s *Service) Create(
	ctx context.Context,
	actor core.Identity,
	req CreateBookRequest,
) (*Book, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if req.Price == nil || *req.Price < 0 {
		return nil, core.InvalidInput("price must be >= 0")
	}

	published, err := parseDate(req.PublicationDate)
	if err != nil {
		return nil, err
	}

	book := &Book{
		ID:              uuid.New().String(),
		ISBN:            strings.TrimSpace(req.ISBN),
		Title:           strings.TrimSpace(req.Title),
		Price:           *req.Price,
		Publisher:       strings.TrimSpace(req.Publisher),
		PublicationDate: published,
		Summary:         req.Summary,
		Authors:         NormalizeTextList(req.Authors),
		Categories:      NormalizeTextList(req.Categories),
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, duplicateISBN(err)
	}

	slog.InfoContext(ctx, "book created",
		"book_id", book.ID,
		"isbn", book.ISBN,
		"by", actor.UserID,
	)
	return book, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor core.Identity,
	id string,
	req UpdateBookRequest,
) (*Book, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ISBN != nil {
		book.ISBN = strings.TrimSpace(*req.ISBN)
	}
	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, core.InvalidInput("price must be >= 0")
		}
		book.Price = *req.Price
	}
	if req.Publisher != nil {
		book.Publisher = strings.TrimSpace(*req.Publisher)
	}
	if req.PublicationDate != nil {
		published, err := parseDate(*req.PublicationDate)
		if err != nil {
			return nil, err
		}
		book.PublicationDate = published
	}
	if req.Summary != nil {
		book.Summary = *req.Summary
	}
	if req.Authors != nil {
		book.Authors = NormalizeTextList(*req.Authors)
	}
	if req.Categories != nil {
		book.Categories = NormalizeTextList(*req.Categories)
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, duplicateISBN(err)
	}

	return book, nil
}

// Delete removes a book along with its ratings and comments. Either all of
// them are gone afterwards or none are.
func (s *Service) Delete(ctx context.Context, actor core.Identity, id string) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if !core.ValidID(id) {
		return fmt.Errorf("delete book: %w", core.ErrBookNotFound)
	}

	ctx, span := core.StartSpan(ctx, "book.Delete", attribute.String("book.id", id))
	defer span.End()

	result, err := s.repo.DeleteWithDependents(ctx, id)
	if err != nil {
		core.SetSpanError(ctx, err)
		return err
	}

	core.AddSpanEvent(ctx, "book.deleted",
		attribute.Int64("ratings", result.Ratings),
		attribute.Int64("comments", result.Comments),
	)
	slog.InfoContext(ctx, "book deleted",
		"book_id", id,
		"ratings_removed", result.Ratings,
		"comments_removed", result.Comments,
		"by", actor.UserID,
	)
	return nil
}

func (s *Service) TopRated(ctx context.Context, limit int) ([]RankedBook, error) {
	if limit < 1 || limit > maxRankingLimit {
		return nil, core.InvalidInput("limit must be between 1 and %d", maxRankingLimit)
	}
	return s.repo.TopRated(ctx, limit)
}

func (s *Service) MostCommented(ctx context.Context, limit int) ([]RankedBook, error) {
	if limit < 1 || limit > maxRankingLimit {
		return nil, core.InvalidInput("limit must be between 1 and %d", maxRankingLimit)
	}
	return s.repo.MostCommented(ctx, limit)
}

// Stats returns rating and comment aggregates for one book. The average is
// rounded to two decimals and stays nil while there are no ratings.
func (s *Service) Stats(ctx context.Context, id string) (*Stats, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("book stats: %w", core.ErrBookNotFound)
	}

	stats, err := s.repo.Stats(ctx, id)
	if err != nil {
		return nil, err
	}

	stats.AverageRating = RoundAverage(stats.AverageRating)
	return stats, nil
}

// RoundAverage rounds to two decimals. A nil or NaN average stays nil.
func RoundAverage(avg *float64) *float64 {
	if avg == nil || math.IsNaN(*avg) {
		return nil
	}
	rounded := math.Round(*avg*100) / 100
	return &rounded
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, core.InvalidInput("publication_date must be YYYY-MM-DD")
	}
	return &t, nil
}

func duplicateISBN(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.DuplicateError("isbn")
	}
	return err
}
