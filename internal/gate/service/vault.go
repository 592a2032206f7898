package service

import (
	"context"
	"errors"
	"time"

	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/cryptox"
	"github.com/wherehouse/gate/pkg/jwtx"
	"github.com/wherehouse/gate/pkg/slogx"
)

// Verification failure modes, in the order the checks run. The gate treats
// them all as 401 but logs them distinctly.
var (
	ErrNoToken      = errors.New("vault: no token presented")
	ErrNoVaultEntry = errors.New("vault: no entry for token")
	ErrBadSignature = errors.New("vault: signature mismatch")
	ErrTokenExpired = errors.New("vault: token expired")
)

// VaultService issues, verifies, re-issues, and revokes tokens against the
// shared key vault. Every token is signed with its own random key; presence
// of that key in the vault is the revocation authority, so a structurally
// perfect token with no vault entry is dead.
type VaultService struct {
	Store store.Store
}

// Issue creates a token for the member and stores its signing key under the
// token string with a TTL matching the token lifetime. The two expiry
// mechanisms (vault TTL, claims expiration) start aligned but are checked
// independently.
func (s *VaultService) Issue(ctx context.Context, m domain.Member) (string, error) {
	key, err := cryptox.GenerateSigningKey()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwtx.NewClaims(m.Username, m.ID, m.Roles, now)

	token, err := jwtx.Issue(claims, key)
	if err != nil {
		return "", err
	}

	if err := s.Store.Keys().Put(ctx, token, cryptox.EncodeKey(key), claims.RemainingValidity(now)); err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("token issued",
		"user_id", m.ID,
		"token_fp", cryptox.FingerprintToken(token),
	)
	return token, nil
}

// Verify runs the full admission check for a presented token:
// vault lookup, then signature, then claims expiration. The vault lookup
// dominates: a revoked token fails here no matter how valid it looks.
func (s *VaultService) Verify(ctx context.Context, token string) (jwtx.Claims, error) {
	if token == "" {
		return jwtx.Claims{}, ErrNoToken
	}

	encoded, err := s.Store.Keys().Get(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.Claims{}, ErrNoVaultEntry
		}
		// An unreachable vault degrades to "no entry": fail-closed.
		slogx.FromContext(ctx).Error("vault lookup failed",
			"token_fp", cryptox.FingerprintToken(token),
			"error", err,
		)
		return jwtx.Claims{}, ErrNoVaultEntry
	}

	key, err := cryptox.DecodeKey(encoded)
	if err != nil {
		return jwtx.Claims{}, ErrNoVaultEntry
	}

	claims, err := jwtx.Verify(token, key)
	if err != nil {
		return jwtx.Claims{}, ErrBadSignature
	}

	if claims.Expired(time.Now()) {
		return jwtx.Claims{}, ErrTokenExpired
	}

	return claims, nil
}

// Reissue overwrites one named claim and returns a new token signed with the
// same key, stored in the vault under the new token string. The old token
// string stays verifiable against that key until its own expiration; callers
// wanting hard rotation must revoke the old token explicitly.
func (s *VaultService) Reissue(ctx context.Context, token, claimName string, value any) (string, error) {
	encoded, err := s.Store.Keys().Get(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNoVaultEntry
		}
		return "", err
	}

	key, err := cryptox.DecodeKey(encoded)
	if err != nil {
		return "", ErrNoVaultEntry
	}

	newToken, err := jwtx.ModifyClaim(token, key, claimName, value)
	if err != nil {
		return "", err
	}

	claims, err := jwtx.Verify(newToken, key)
	if err != nil {
		return "", err
	}

	if err := s.Store.Keys().Put(ctx, newToken, encoded, claims.RemainingValidity(time.Now())); err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("token reissued",
		"claim", claimName,
		"old_token_fp", cryptox.FingerprintToken(token),
		"new_token_fp", cryptox.FingerprintToken(newToken),
	)
	return newToken, nil
}

// Revoke deletes the token's vault entry, killing the session immediately
// regardless of remaining TTL. The username is logged when decodable, but
// revocation proceeds either way.
func (s *VaultService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	log := slogx.FromContext(ctx)
	if claims, err := jwtx.ParseUnverified(token); err == nil {
		log = log.With("username", claims.Username)
	}

	if err := s.Store.Keys().Delete(ctx, token); err != nil {
		log.Error("vault delete failed", "token_fp", cryptox.FingerprintToken(token), "error", err)
		return err
	}

	log.Info("token revoked", "token_fp", cryptox.FingerprintToken(token))
	return nil
}
