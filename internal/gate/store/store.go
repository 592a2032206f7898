package store

import (
	"context"
	"errors"
	"time"

	"github.com/wherehouse/gate/internal/gate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface over the shared store that
// coordinates all cross-request state: vault entries, rate counters, and
// bans, plus the member and board tables the business handlers read.
//
// Vault writes and any paired deletions are intentionally independent
// operations, not transactions; a crash between them leaves at worst an
// orphaned, TTL-bounded entry.
type Store interface {
	Keys() Keys
	Counters() Counters
	Bans() Bans
	Members() Members
	Boards() Boards

	ApplyMigrations() error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// Keys is the KeyVault: token string -> encoded signing key material, with a
// TTL. Exactly one live entry exists per currently-valid token.
type Keys interface {
	// Put is an idempotent upsert that starts (or restarts) the TTL countdown.
	Put(ctx context.Context, token, keyMaterial string, ttl time.Duration) error

	// Get returns the key material for a live entry, or ErrNotFound. An
	// entry past its TTL is indistinguishable from an absent one.
	Get(ctx context.Context, token string) (string, error)

	// Delete removes the entry. Best-effort: deleting a missing entry is
	// not an error, absence afterward is the only guarantee.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges lapsed entries (housekeeping).
	DeleteExpired(ctx context.Context) error
}

// Counters exposes the atomic fixed-window primitives the rate limiter is
// built on. Correctness under concurrency rests entirely on Increment being
// atomic; no in-process locking exists anywhere above this interface.
type Counters interface {
	// Increment atomically adds one to the counter and returns the new
	// count. A counter whose TTL has lapsed restarts from 1.
	Increment(ctx context.Context, key string) (int64, error)

	// Expire arms the counter's TTL. Idempotent, so the benign race where
	// two first-of-window requests both observe count==1 is harmless.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// TTL returns the remaining window for the key, or ErrNotFound when
	// the key is absent or its TTL was never armed.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// DeleteExpired purges lapsed counters (housekeeping).
	DeleteExpired(ctx context.Context) error
}

// Bans tracks addresses barred from the service.
type Bans interface {
	Ban(ctx context.Context, ban domain.BannedIP) error
	IsBanned(ctx context.Context, ip string) (bool, error)
	DeleteExpired(ctx context.Context) error
}

// Members backs the credential-verification oracle and member edits.
type Members interface {
	Create(ctx context.Context, m domain.Member) error
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByUsername(ctx context.Context, username string) (domain.Member, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateNickname(ctx context.Context, id, nickname string) error
}

// Boards stores recommendation-board posts.
type Boards interface {
	Create(ctx context.Context, b domain.Board) error
	GetByID(ctx context.Context, id string) (domain.Board, error)
	List(ctx context.Context) ([]domain.Board, error)
	Update(ctx context.Context, id, title, content string) error
	Delete(ctx context.Context, id string) error
}
