package service

import (
	"context"
	"errors"
	"time"

	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/idx"
)

// ErrForbidden is returned when an authenticated member tries to mutate a
// resource they do not own. The gate produces identity; this is where the
// authorization decision lives.
var ErrForbidden = errors.New("forbidden")

// BoardService implements the board mutations behind the protected routes.
type BoardService struct {
	Store store.Store
}

func (s *BoardService) Create(ctx context.Context, authorID, title, content string) (domain.Board, error) {
	now := time.Now()
	b := domain.Board{
		ID:        idx.New().String(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Boards().Create(ctx, b); err != nil {
		return domain.Board{}, err
	}
	return b, nil
}

func (s *BoardService) List(ctx context.Context) ([]domain.Board, error) {
	return s.Store.Boards().List(ctx)
}

// Update modifies a post after checking the requester owns it.
func (s *BoardService) Update(ctx context.Context, id, requesterID, title, content string) error {
	b, err := s.Store.Boards().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.AuthorID != requesterID {
		return ErrForbidden
	}
	return s.Store.Boards().Update(ctx, id, title, content)
}

// Delete removes a post after checking the requester owns it.
func (s *BoardService) Delete(ctx context.Context, id, requesterID string) error {
	b, err := s.Store.Boards().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.AuthorID != requesterID {
		return ErrForbidden
	}
	return s.Store.Boards().Delete(ctx, id)
}
