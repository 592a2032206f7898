package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wherehouse/gate/internal/gate/store"
)

type countersRepo struct {
	db *sql.DB
}

// Increment is the limiter's atomicity anchor. A lapsed window is dropped
// and the upsert restarts the count from 1; both statements run in one
// transaction so concurrent callers each observe a distinct count.
func (r *countersRepo) Increment(ctx context.Context, key string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM rate_counters
		WHERE key = ? AND expires_at IS NOT NULL AND expires_at <= ?`,
		key, nowMillis(),
	); err != nil {
		return 0, err
	}

	var count int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO rate_counters (key, count, expires_at)
		VALUES (?, 1, NULL)
		ON CONFLICT(key) DO UPDATE SET count = count + 1
		RETURNING count`,
		key,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, tx.Commit()
}

func (r *countersRepo) Expire(ctx context.Context, key string, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		UPDATE rate_counters SET expires_at = ? WHERE key = ?`,
		expiresAt, key,
	)
	return err
}

func (r *countersRepo) TTL(ctx context.Context, key string) (time.Duration, error) {
	var expiresAt sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT expires_at FROM rate_counters WHERE key = ?`,
		key,
	).Scan(&expiresAt)
	if err != nil {
		return 0, mapNotFound(err)
	}
	if !expiresAt.Valid {
		return 0, store.ErrNotFound
	}

	remaining := time.Duration(expiresAt.Int64-nowMillis()) * time.Millisecond
	if remaining <= 0 {
		return 0, store.ErrNotFound
	}
	return remaining, nil
}

func (r *countersRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM rate_counters
		WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		nowMillis(),
	)
	return err
}
