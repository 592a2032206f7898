package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/internal/gate/store/drivers/sqlite"
	"github.com/wherehouse/gate/pkg/cryptox"
	"github.com/wherehouse/gate/pkg/jwtx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testMember() domain.Member {
	return domain.Member{
		ID:       "member-1",
		Username: "alice",
		Roles:    []string{"member"},
	}
}

func TestVaultIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	vault := &VaultService{Store: newTestStore(t)}

	token, err := vault.Issue(ctx, testMember())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := vault.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "member-1", claims.UserID)
}

func TestVaultVerifyFailureModes(t *testing.T) {
	ctx := context.Background()
	vault := &VaultService{Store: newTestStore(t)}

	t.Run("empty token", func(t *testing.T) {
		_, err := vault.Verify(ctx, "")
		require.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("unknown token has no vault entry", func(t *testing.T) {
		_, err := vault.Verify(ctx, "eyJhbGciOiJIUzI1NiJ9.e30.sig")
		require.ErrorIs(t, err, ErrNoVaultEntry)
	})

	t.Run("vault entry under a tampered token does not help", func(t *testing.T) {
		token, err := vault.Issue(ctx, testMember())
		require.NoError(t, err)

		tampered := token + "x"
		// The tampered string has no vault entry of its own.
		_, err = vault.Verify(ctx, tampered)
		require.ErrorIs(t, err, ErrNoVaultEntry)
	})

	t.Run("entry present but signature wrong", func(t *testing.T) {
		st := newTestStore(t)
		v := &VaultService{Store: st}

		token, err := v.Issue(ctx, testMember())
		require.NoError(t, err)

		// Re-key the entry so the stored material no longer matches the
		// signature.
		otherKey, err := cryptox.GenerateSigningKey()
		require.NoError(t, err)
		require.NoError(t, st.Keys().Put(ctx, token, cryptox.EncodeKey(otherKey), time.Hour))

		_, err = v.Verify(ctx, token)
		require.ErrorIs(t, err, ErrBadSignature)
	})
}

func TestVaultRevocationDominatesValidity(t *testing.T) {
	ctx := context.Background()
	vault := &VaultService{Store: newTestStore(t)}

	token, err := vault.Issue(ctx, testMember())
	require.NoError(t, err)

	_, err = vault.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, vault.Revoke(ctx, token))

	// The token is cryptographically untouched yet dead.
	_, err = vault.Verify(ctx, token)
	require.ErrorIs(t, err, ErrNoVaultEntry)

	// Revoking again is a no-op, not an error.
	require.NoError(t, vault.Revoke(ctx, token))
}

func TestVaultReissueKeepsOldTokenAlive(t *testing.T) {
	ctx := context.Background()
	vault := &VaultService{Store: newTestStore(t)}

	oldToken, err := vault.Issue(ctx, testMember())
	require.NoError(t, err)

	newToken, err := vault.Reissue(ctx, oldToken, jwtx.ClaimUsername, "alice2")
	require.NoError(t, err)
	require.NotEqual(t, oldToken, newToken)

	newClaims, err := vault.Verify(ctx, newToken)
	require.NoError(t, err)
	require.Equal(t, "alice2", newClaims.Username)

	// Both tokens share one signing key and both have live vault entries.
	oldClaims, err := vault.Verify(ctx, oldToken)
	require.NoError(t, err)
	require.Equal(t, "alice", oldClaims.Username)

	// Revoking the old token kills it without touching the new one.
	require.NoError(t, vault.Revoke(ctx, oldToken))
	_, err = vault.Verify(ctx, oldToken)
	require.ErrorIs(t, err, ErrNoVaultEntry)
	_, err = vault.Verify(ctx, newToken)
	require.NoError(t, err)
}

func TestVaultReissueRequiresLiveEntry(t *testing.T) {
	ctx := context.Background()
	vault := &VaultService{Store: newTestStore(t)}

	token, err := vault.Issue(ctx, testMember())
	require.NoError(t, err)
	require.NoError(t, vault.Revoke(ctx, token))

	_, err = vault.Reissue(ctx, token, jwtx.ClaimUsername, "ghost")
	require.ErrorIs(t, err, ErrNoVaultEntry)
}
