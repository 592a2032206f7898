package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wherehouse/gate/internal/gate/domain"
)

type boardsRepo struct {
	db *sql.DB
}

func (r *boardsRepo) Create(ctx context.Context, b domain.Board) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO boards (id, title, content, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Content, b.AuthorID, b.CreatedAt.UnixMilli(), b.UpdatedAt.UnixMilli(),
	)
	return err
}

func (r *boardsRepo) GetByID(ctx context.Context, id string) (domain.Board, error) {
	var (
		b                    domain.Board
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, content, author_id, created_at, updated_at
		FROM boards WHERE id = ?`, id,
	).Scan(&b.ID, &b.Title, &b.Content, &b.AuthorID, &createdAt, &updatedAt)
	if err != nil {
		return domain.Board{}, mapNotFound(err)
	}
	b.CreatedAt = time.UnixMilli(createdAt)
	b.UpdatedAt = time.UnixMilli(updatedAt)
	return b, nil
}

func (r *boardsRepo) List(ctx context.Context) ([]domain.Board, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, author_id, created_at, updated_at
		FROM boards ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Board
	for rows.Next() {
		var (
			b                    domain.Board
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Content, &b.AuthorID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		b.CreatedAt = time.UnixMilli(createdAt)
		b.UpdatedAt = time.UnixMilli(updatedAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *boardsRepo) Update(ctx context.Context, id, title, content string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE boards SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		title, content, nowMillis(), id,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *boardsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
