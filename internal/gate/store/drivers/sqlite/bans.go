package sqlite

import (
	"context"
	"database/sql"

	"github.com/wherehouse/gate/internal/gate/domain"
)

type bansRepo struct {
	db *sql.DB
}

func (r *bansRepo) Ban(ctx context.Context, ban domain.BannedIP) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO banned_ips (ip, reason, banned_until)
		VALUES (?, ?, ?)
		ON CONFLICT(ip) DO UPDATE SET
			reason       = excluded.reason,
			banned_until = excluded.banned_until`,
		ban.IP, ban.Reason, ban.BannedUntil.UnixMilli(),
	)
	return err
}

func (r *bansRepo) IsBanned(ctx context.Context, ip string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM banned_ips WHERE ip = ? AND banned_until > ?`,
		ip, nowMillis(),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *bansRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM banned_ips WHERE banned_until <= ?`, nowMillis())
	return err
}
