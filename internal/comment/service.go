// AngelaMos | 2026
// service.go

package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/bookstore-api/internal/core"
)

// BookChecker fails with core.ErrBookNotFound for an unknown book.
type BookChecker interface {
	Exists(ctx context.Context, bookID string) error
}

type Service struct {
	repo  Repository
	books BookChecker
}

func NewService(repo Repository, books BookChecker) *Service {
	return &Service{repo: repo, books: books}
}

func (s *Service) Create(
	ctx context.Context,
	actor core.Identity,
	bookID, content string,
) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, core.InvalidInput("content must not be empty")
	}

	if err := s.books.Exists(ctx, bookID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:      uuid.New().String(),
		UserID:  actor.UserID,
		BookID:  bookID,
		Content: content,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Service) ListByBook(
	ctx context.Context,
	bookID string,
	page core.PageParams,
	sort core.SortParams,
	keyword string,
) (*core.Page[Comment], error) {
	if err := s.books.Exists(ctx, bookID); err != nil {
		return nil, err
	}

	return s.list(ctx, ListParams{
		PageParams: page,
		BookID:     bookID,
		Keyword:    strings.TrimSpace(keyword),
		Sort:       sort,
	})
}

// ListByUser lists one author's comments. Only the author and admins may
// read them this way.
func (s *Service) ListByUser(
	ctx context.Context,
	actor core.Identity,
	userID string,
	page core.PageParams,
) (*core.Page[Comment], error) {
	if actor.UserID != userID {
		if err := actor.RequireAdmin(); err != nil {
			return nil, err
		}
	}
	if !core.ValidID(userID) {
		return nil, fmt.Errorf("list comments: %w", core.ErrNotFound)
	}

	return s.list(ctx, ListParams{PageParams: page, UserID: userID})
}

func (s *Service) list(ctx context.Context, params ListParams) (*core.Page[Comment], error) {
	if params.Page < 0 || params.Size < 1 {
		return nil, core.InvalidInput("page must be >= 0 and size >= 1")
	}
	if err := sorting.Validate(params.Sort); err != nil {
		return nil, err
	}

	comments, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return &core.Page[Comment]{
		Items: comments,
		Page:  params.Page,
		Size:  params.Size,
		Total: total,
	}, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor core.Identity,
	id, content string,
) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, core.InvalidInput("content must not be empty")
	}

	if _, err := s.ownedBy(ctx, actor, id); err != nil {
		return nil, err
	}

	return s.repo.UpdateContent(ctx, id, content)
}

func (s *Service) Delete(ctx context.Context, actor core.Identity, id string) error {
	comment, err := s.ownedBy(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "comment deleted",
		"comment_id", id,
		"book_id", comment.BookID,
		"by", actor.UserID,
	)
	return nil
}

// ownedBy loads a comment and checks actor wrote it.
func (s *Service) ownedBy(
	ctx context.Context,
	actor core.Identity,
	id string,
) (*Comment, error) {
	if !core.ValidID(id) {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.UserID != actor.UserID {
		return nil, fmt.Errorf("comment %s: %w", id, core.ErrForbidden)
	}

	return comment, nil
}
