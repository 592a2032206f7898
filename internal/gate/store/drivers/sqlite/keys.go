package sqlite

import (
	"context"
	"database/sql"
	"time"
)

type keysRepo struct {
	db *sql.DB
}

func (r *keysRepo) Put(ctx context.Context, token, keyMaterial string, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vault_keys (token, key_material, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET
			key_material = excluded.key_material,
			expires_at   = excluded.expires_at`,
		token, keyMaterial, expiresAt,
	)
	return err
}

func (r *keysRepo) Get(ctx context.Context, token string) (string, error) {
	var keyMaterial string
	err := r.db.QueryRowContext(ctx, `
		SELECT key_material FROM vault_keys
		WHERE token = ? AND expires_at > ?`,
		token, nowMillis(),
	).Scan(&keyMaterial)
	if err != nil {
		return "", mapNotFound(err)
	}
	return keyMaterial, nil
}

func (r *keysRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vault_keys WHERE token = ?`, token)
	return err
}

func (r *keysRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vault_keys WHERE expires_at <= ?`, nowMillis())
	return err
}
