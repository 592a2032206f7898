package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/wherehouse/gate/internal/gate/domain"
	"github.com/wherehouse/gate/internal/gate/store"
)

type membersRepo struct {
	db *sql.DB
}

func (r *membersRepo) Create(ctx context.Context, m domain.Member) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO members (id, username, nickname, password_hash, roles, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Username, m.Nickname, m.PasswordHash, joinRoles(m.Roles),
		m.CreatedAt.UnixMilli(), m.UpdatedAt.UnixMilli(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *membersRepo) GetByID(ctx context.Context, id string) (domain.Member, error) {
	return r.get(ctx, `SELECT id, username, nickname, password_hash, roles, created_at, updated_at
		FROM members WHERE id = ?`, id)
}

func (r *membersRepo) GetByUsername(ctx context.Context, username string) (domain.Member, error) {
	return r.get(ctx, `SELECT id, username, nickname, password_hash, roles, created_at, updated_at
		FROM members WHERE username = ?`, username)
}

func (r *membersRepo) get(ctx context.Context, query, arg string) (domain.Member, error) {
	var (
		m                    domain.Member
		roles                string
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&m.ID, &m.Username, &m.Nickname, &m.PasswordHash, &roles, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	m.Roles = splitRoles(roles)
	m.CreatedAt = time.UnixMilli(createdAt)
	m.UpdatedAt = time.UnixMilli(updatedAt)
	return m, nil
}

func (r *membersRepo) UpdateUsername(ctx context.Context, id, username string) error {
	return r.update(ctx, `UPDATE members SET username = ?, updated_at = ? WHERE id = ?`, username, id)
}

func (r *membersRepo) UpdateNickname(ctx context.Context, id, nickname string) error {
	return r.update(ctx, `UPDATE members SET nickname = ?, updated_at = ? WHERE id = ?`, nickname, id)
}

func (r *membersRepo) update(ctx context.Context, query, value, id string) error {
	res, err := r.db.ExecContext(ctx, query, value, nowMillis(), id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
