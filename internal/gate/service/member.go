package service

import (
	"context"
	"time"

	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/cryptox"
	"github.com/wherehouse/gate/pkg/idx"
)

// MemberService handles registration and member edits. A username change
// re-issues the session token with the updated claim; see the handler.
type MemberService struct {
	Store store.Store
}

func (s *MemberService) Register(ctx context.Context, username, nickname, password string, roles []string) (domain.Member, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Member{}, err
	}

	now := time.Now()
	m := domain.Member{
		ID:           idx.New().String(),
		Username:     username,
		Nickname:     nickname,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Members().Create(ctx, m); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

func (s *MemberService) GetByID(ctx context.Context, id string) (domain.Member, error) {
	return s.Store.Members().GetByID(ctx, id)
}

// UpdateUsername changes a member's login name. Members may only edit
// themselves.
func (s *MemberService) UpdateUsername(ctx context.Context, id, requesterID, username string) error {
	if id != requesterID {
		return ErrForbidden
	}
	return s.Store.Members().UpdateUsername(ctx, id, username)
}

// UpdateNickname changes a member's display name, same ownership rule.
func (s *MemberService) UpdateNickname(ctx context.Context, id, requesterID, nickname string) error {
	if id != requesterID {
		return ErrForbidden
	}
	return s.Store.Members().UpdateNickname(ctx, id, nickname)
}
