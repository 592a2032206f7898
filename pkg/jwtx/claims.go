package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of every issued token. Expiration is always
// computed as issuedAt + TokenTTL; the vault entry carries the same TTL so
// both expiry mechanisms line up at issuance.
const TokenTTL = time.Hour

// Claims is the payload embedded in every token: who the subject is, what
// roles they hold, and the issue/expiry timestamps. The token is only
// meaningful while its signing key is still in the vault.
type Claims struct {
	jwt.RegisteredClaims

	// Username is the login identifier of the authenticated member.
	Username string `json:"username,omitempty"`

	// UserID is the member's stable internal id.
	UserID string `json:"userId,omitempty"`

	// Roles is the ordered list of granted role names.
	Roles []string `json:"roles,omitempty"`
}

// NewClaims builds claims for a fresh token issued at now.
func NewClaims(username, userID string, roles []string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Username: username,
		UserID:   userID,
		Roles:    roles,
	}
}

// Expired reports whether the claims-embedded expiration has passed. This is
// checked separately from signature verification: a token with a valid
// signature and a missing vault entry must already have failed before this.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(c.ExpiresAt.Time)
}

// RemainingValidity returns the duration until the claims expire, or zero if
// they already have. Used to align the vault entry TTL with the token.
func (c *Claims) RemainingValidity(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := c.ExpiresAt.Time.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}
