package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/stencil/internal/domain"
)

// StyleRepo — репозиторий стилей prompt.
type StyleRepo struct {
	pool *pgxpool.Pool
}

// NewStyleRepo создаёт новый StyleRepo.
func NewStyleRepo(pool *pgxpool.Pool) *StyleRepo {
	return &StyleRepo{pool: pool}
}

// GetByName возвращает стиль по имени.
func (r *StyleRepo) GetByName(ctx context.Context, name string) (*domain.Style, error) {
	query := `
		SELECT name, pre, post, is_default
		FROM styles
		WHERE name = $1
	`
	var style domain.Style
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&style.Name,
		&style.Pre,
		&style.Post,
		&style.IsDefault,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get style by name: %w", err)
	}
	return &style, nil
}

// GetDefault возвращает стиль по умолчанию.
// Если стиль по умолчанию не назначен — ErrNotFound.
func (r *StyleRepo) GetDefault(ctx context.Context) (*domain.Style, error) {
	query := `
		SELECT name, pre, post, is_default
		FROM styles
		WHERE is_default
		LIMIT 1
	`
	var style domain.Style
	err := r.pool.QueryRow(ctx, query).Scan(
		&style.Name,
		&style.Pre,
		&style.Post,
		&style.IsDefault,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default style: %w", err)
	}
	return &style, nil
}

// List возвращает все стили по имени.
func (r *StyleRepo) List(ctx context.Context) ([]domain.Style, error) {
	query := `
		SELECT name, pre, post, is_default
		FROM styles
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}
	defer rows.Close()

	var styles []domain.Style
	for rows.Next() {
		var style domain.Style
		if err := rows.Scan(
			&style.Name,
			&style.Pre,
			&style.Post,
			&style.IsDefault,
		); err != nil {
			return nil, fmt.Errorf("scan style: %w", err)
		}
		styles = append(styles, style)
	}
	return styles, rows.Err()
}

// Upsert создаёт стиль или обновляет существующий.
func (r *StyleRepo) Upsert(ctx context.Context, style *domain.Style) error {
	query := `
		INSERT INTO styles (name, pre, post, is_default)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name)
		DO UPDATE SET pre = EXCLUDED.pre, post = EXCLUDED.post, is_default = EXCLUDED.is_default
	`
	if _, err := r.pool.Exec(ctx, query, style.Name, style.Pre, style.Post, style.IsDefault); err != nil {
		return fmt.Errorf("upsert style: %w", err)
	}
	return nil
}

// SetDefault делает стиль стилем по умолчанию, снимая флаг с остальных.
func (r *StyleRepo) SetDefault(ctx context.Context, name string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE styles SET is_default = false WHERE is_default`); err != nil {
		return fmt.Errorf("clear default style: %w", err)
	}

	result, err := tx.Exec(ctx, `UPDATE styles SET is_default = true WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("set default style: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit default style: %w", err)
	}
	return nil
}

// Delete удаляет стиль.
func (r *StyleRepo) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM styles WHERE name = $1`
	result, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete style: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
