package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/stencil/internal/engine"
)

// PlaceholderRepo — репозиторий каталога плейсхолдеров.
//
// Каталог глобален и хранится как упорядоченный список имён.
// Пока каталог ни разу не сохранялся, действует встроенный список.
type PlaceholderRepo struct {
	pool *pgxpool.Pool
}

// NewPlaceholderRepo создаёт новый PlaceholderRepo.
func NewPlaceholderRepo(pool *pgxpool.Pool) *PlaceholderRepo {
	return &PlaceholderRepo{pool: pool}
}

// Load возвращает каталог; пустая таблица — встроенный список.
func (r *PlaceholderRepo) Load(ctx context.Context) (*engine.Catalog, error) {
	query := `
		SELECT name
		FROM placeholders
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load placeholders: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan placeholder: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return engine.DefaultCatalog(), nil
	}
	return engine.NewCatalog(names), nil
}

// Save заменяет сохранённый каталог целиком.
func (r *PlaceholderRepo) Save(ctx context.Context, catalog *engine.Catalog) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM placeholders`); err != nil {
		return fmt.Errorf("clear placeholders: %w", err)
	}

	for i, name := range catalog.Names() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO placeholders (name, position)
			VALUES ($1, $2)
		`, name, i); err != nil {
			return fmt.Errorf("insert placeholder %q: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit placeholders: %w", err)
	}
	return nil
}
