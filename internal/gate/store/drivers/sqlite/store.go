package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/wherehouse/gate/internal/gate/store"
	_ "modernc.org/sqlite"
)

// Store is the sqlite driver for the shared admission store. All expiry
// columns hold unix milliseconds so TTL comparisons happen in SQL against a
// caller-supplied "now".
type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Counter increments rely on serialized writes through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Keys() store.Keys         { return &keysRepo{db: s.db} }
func (s *Store) Counters() store.Counters { return &countersRepo{db: s.db} }
func (s *Store) Bans() store.Bans         { return &bansRepo{db: s.db} }
func (s *Store) Members() store.Members   { return &membersRepo{db: s.db} }
func (s *Store) Boards() store.Boards     { return &boardsRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func joinRoles(roles []string) string {
	return strings.Join(roles, " ")
}

func splitRoles(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
