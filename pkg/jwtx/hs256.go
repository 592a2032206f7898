package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrUnknownClaim = errors.New("jwtx: unknown claim name")
)

// Mutable claim names accepted by ModifyClaim.
const (
	ClaimUsername = "username"
	ClaimUserID   = "userId"
	ClaimRoles    = "roles"
)

// verifyParser accepts HS256 only and skips claim validation: expiration is
// the caller's concern (Claims.Expired), verification answers only "was this
// signed with the supplied key".
var verifyParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithoutClaimsValidation(),
)

// Issue serializes and signs claims with the supplied key. Two calls with
// identical claims produce distinct tokens once issuedAt differs; no
// determinism is promised.
func Issue(claims Claims, key []byte) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing failed: %w", err)
	}
	return token, nil
}

// Verify checks the token's signature against key and returns its claims.
// It deliberately does NOT check expiration; callers do that via
// Claims.Expired so that the vault lookup, signature, and expiry checks stay
// independently observable.
func Verify(token string, key []byte) (Claims, error) {
	var claims Claims
	parsed, err := verifyParser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		default:
			return Claims{}, fmt.Errorf("jwtx: verification failed: %w", err)
		}
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidSig
	}
	return claims, nil
}

// ModifyClaim decodes the token, overwrites one named claim, refreshes
// issuedAt/expiration, and re-signs with the SAME key. The previous token
// string remains verifiable against that key until its own expiration; hard
// rotation requires the caller to delete the old vault entry.
func ModifyClaim(token string, key []byte, name string, value any) (string, error) {
	claims, err := Verify(token, key)
	if err != nil {
		return "", err
	}

	switch name {
	case ClaimUsername:
		v, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s expects a string", ErrUnknownClaim, name)
		}
		claims.Username = v
	case ClaimUserID:
		v, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s expects a string", ErrUnknownClaim, name)
		}
		claims.UserID = v
	case ClaimRoles:
		v, ok := value.([]string)
		if !ok {
			return "", fmt.Errorf("%w: %s expects a string list", ErrUnknownClaim, name)
		}
		claims.Roles = v
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownClaim, name)
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(TokenTTL))

	return Issue(claims, key)
}

// ParseUnverified decodes claims without checking the signature. Only for
// best-effort uses like rate-limit identity resolution; never for
// authentication decisions.
func ParseUnverified(token string) (Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}
