package service

import (
	"context"
	"errors"

	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/cryptox"
	"github.com/wherehouse/gate/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")

// LoginService is the credential-verification oracle: it answers whether a
// userid/password pair identifies a member, and nothing else. How the result
// becomes a session token is the vault's business.
type LoginService struct {
	Store store.Store
}

// Authenticate verifies the password against the stored argon2id hash.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *LoginService) Authenticate(ctx context.Context, userid, password string) (domain.Member, error) {
	m, err := s.Store.Members().GetByUsername(ctx, userid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Info("login failed: unknown username")
			return domain.Member{}, ErrInvalidCredentials
		}
		return domain.Member{}, err
	}

	if err := cryptox.VerifyPassword(password, m.PasswordHash); err != nil {
		slogx.FromContext(ctx).Info("login failed: password mismatch", "user_id", m.ID)
		return domain.Member{}, ErrInvalidCredentials
	}

	return m, nil
}
