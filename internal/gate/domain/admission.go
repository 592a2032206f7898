package domain

import "time"

// VaultEntry maps a token string to its base64url-encoded signing key. The
// entry is the revocation authority: no entry means not authenticated, no
// matter what the token itself says.
type VaultEntry struct {
	Token       string
	KeyMaterial string
	ExpiresAt   time.Time
}

// RateCounter is one fixed window of request counts for a category and
// identifier. Count only grows within the window; the row disappears when
// the TTL lapses.
type RateCounter struct {
	Key       string
	Count     int64
	ExpiresAt *time.Time // nil until the window's TTL has been armed
}

// BannedIP records an address barred from the service until BannedUntil.
type BannedIP struct {
	IP          string
	Reason      string
	BannedUntil time.Time
}
