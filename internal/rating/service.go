// AngelaMos | 2026
// service.go

package rating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookstore-api/internal/book"
	"github.com/carterperez-dev/bookstore-api/internal/config"
	"github.com/carterperez-dev/bookstore-api/internal/core"
)

// BookCatalog is the slice of the book service ratings depend on. Both
// methods fail with core.ErrBookNotFound for an unknown book.
type BookCatalog interface {
	Exists(ctx context.Context, bookID string) error
	Stats(ctx context.Context, bookID string) (*book.Stats, error)
}

type Service struct {
	repo      Repository
	books     BookCatalog
	overwrite bool
}

// NewService builds the rating service. policy is one of
// config.DuplicateRatingReject or config.DuplicateRatingOverwrite.
func NewService(repo Repository, books BookCatalog, policy string) *Service {
	return &Service{
		repo:      repo,
		books:     books,
		overwrite: policy == config.DuplicateRatingOverwrite,
	}
}

// Create records actor's score for a book. A user holds at most one rating
// per book; a second attempt either fails with core.ErrRatingExists or
// replaces the score, depending on the configured policy.
func (s *Service) Create(
	ctx context.Context,
	actor core.Identity,
	bookID string,
	score int,
) (*Rating, error) {
	if !ValidScore(score) {
		return nil, fmt.Errorf("create rating: %w", core.ErrInvalidScore)
	}

	if err := s.books.Exists(ctx, bookID); err != nil {
		return nil, err
	}

	rating := &Rating{
		ID:     uuid.New().String(),
		UserID: actor.UserID,
		BookID: bookID,
		Score:  score,
	}

	if s.overwrite {
		if err := s.repo.Upsert(ctx, rating); err != nil {
			return nil, err
		}
		return rating, nil
	}

	_, err := s.repo.Get(ctx, actor.UserID, bookID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("create rating: %w", core.ErrRatingExists)
	case !errors.Is(err, core.ErrNotFound):
		return nil, err
	}

	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, err
	}

	return rating, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor core.Identity,
	bookID string,
	score int,
) (*Rating, error) {
	if !ValidScore(score) {
		return nil, fmt.Errorf("update rating: %w", core.ErrInvalidScore)
	}
	if !core.ValidID(bookID) {
		return nil, fmt.Errorf("update rating: %w", core.ErrBookNotFound)
	}

	return s.repo.UpdateScore(ctx, actor.UserID, bookID, score)
}

func (s *Service) Delete(ctx context.Context, actor core.Identity, bookID string) error {
	if !core.ValidID(bookID) {
		return fmt.Errorf("delete rating: %w", core.ErrBookNotFound)
	}

	if err := s.repo.Delete(ctx, actor.UserID, bookID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "rating deleted", "book_id", bookID, "by", actor.UserID)
	return nil
}

func (s *Service) ListByBook(
	ctx context.Context,
	bookID string,
	page core.PageParams,
	sort core.SortParams,
	minScore, maxScore *int,
) (*core.Page[Rating], error) {
	if err := scoreRange(minScore, maxScore); err != nil {
		return nil, err
	}
	if err := s.books.Exists(ctx, bookID); err != nil {
		return nil, err
	}

	return s.list(ctx, ListParams{
		PageParams: page,
		BookID:     bookID,
		MinScore:   minScore,
		MaxScore:   maxScore,
		Sort:       sort,
	})
}

// ListByUser lists one user's ratings. Only that user and admins may read
// them this way.
func (s *Service) ListByUser(
	ctx context.Context,
	actor core.Identity,
	userID string,
	page core.PageParams,
) (*core.Page[Rating], error) {
	if actor.UserID != userID {
		if err := actor.RequireAdmin(); err != nil {
			return nil, err
		}
	}
	if !core.ValidID(userID) {
		return nil, fmt.Errorf("list ratings: %w", core.ErrNotFound)
	}

	return s.list(ctx, ListParams{PageParams: page, UserID: userID})
}

// Summary reports rating and comment aggregates for a book. The average is
// nil while the book has no ratings.
func (s *Service) Summary(ctx context.Context, bookID string) (*book.Stats, error) {
	return s.books.Stats(ctx, bookID)
}

func (s *Service) list(ctx context.Context, params ListParams) (*core.Page[Rating], error) {
	if params.Page < 0 || params.Size < 1 {
		return nil, core.InvalidInput("page must be >= 0 and size >= 1")
	}
	if err := sorting.Validate(params.Sort); err != nil {
		return nil, err
	}

	ratings, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &core.Page[Rating]{
		Items: ratings,
		Page:  params.Page,
		Size:  params.Size,
		Total: total,
	}, nil
}

func scoreRange(minScore, maxScore *int) error {
	if minScore != nil && !ValidScore(*minScore) {
		return core.InvalidInput("min_score must be between %d and %d", MinScore, MaxScore)
	}
	if maxScore != nil && !ValidScore(*maxScore) {
		return core.InvalidInput("max_score must be between %d and %d", MinScore, MaxScore)
	}
	if minScore != nil && maxScore != nil && *minScore > *maxScore {
		return core.InvalidInput("min_score must not exceed max_score")
	}
	return nil
}
