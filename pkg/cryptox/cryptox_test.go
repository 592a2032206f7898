package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSigningKeys(t *testing.T) {
	t.Parallel()

	t.Run("generated keys are distinct", func(t *testing.T) {
		a, err := GenerateSigningKey()
		require.NoError(t, err)
		require.Len(t, a, SigningKeySize)

		b, err := GenerateSigningKey()
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("encode decode round trip", func(t *testing.T) {
		key, err := GenerateSigningKey()
		require.NoError(t, err)

		decoded, err := DecodeKey(EncodeKey(key))
		require.NoError(t, err)
		require.Equal(t, key, decoded)
	})

	t.Run("decode rejects invalid encoding", func(t *testing.T) {
		_, err := DecodeKey("not base64url!!")
		require.Error(t, err)
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("some.jwt.token")
	require.NotEmpty(t, fp)
	require.NotContains(t, fp, "some.jwt.token")

	require.Equal(t, fp, FingerprintToken("some.jwt.token"))
	require.NotEqual(t, fp, FingerprintToken("other.jwt.token"))
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	t.Run("hash verifies its own password", func(t *testing.T) {
		hash, err := HashPassword("s3cret")
		require.NoError(t, err)
		require.Contains(t, hash, "$argon2id$")
		require.NoError(t, VerifyPassword("s3cret", hash))
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		hash, err := HashPassword("s3cret")
		require.NoError(t, err)
		require.ErrorIs(t, VerifyPassword("wrong", hash), ErrPasswordMismatch)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		a, err := HashPassword("s3cret")
		require.NoError(t, err)
		b, err := HashPassword("s3cret")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("mangled hash is rejected", func(t *testing.T) {
		require.Error(t, VerifyPassword("s3cret", "$md5$nope"))
	})
}
