package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/stencil/internal/domain"
)

// SettingsRepo — репозиторий настроек шаблонов.
//
// Настройки workflow — один JSONB-снимок. Сохранение всегда заменяет
// снимок целиком: частично применённых настроек не бывает.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

// NewSettingsRepo создаёт новый SettingsRepo.
func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get возвращает настройки workflow.
// Отсутствие записи — не ошибка: возвращаются пустые настройки.
func (r *SettingsRepo) Get(ctx context.Context, workflowName string) (domain.Settings, error) {
	query := `
		SELECT data
		FROM workflow_settings
		WHERE workflow_name = $1
	`
	var raw []byte
	err := r.pool.QueryRow(ctx, query, workflowName).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

// Save заменяет снимок настроек workflow.
func (r *SettingsRepo) Save(ctx context.Context, workflowName string, settings domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	query := `
		INSERT INTO workflow_settings (workflow_name, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (workflow_name)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, workflowName, data, time.Now()); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Delete удаляет настройки workflow.
// Отсутствие записи — не ошибка: результат тот же.
func (r *SettingsRepo) Delete(ctx context.Context, workflowName string) error {
	query := `DELETE FROM workflow_settings WHERE workflow_name = $1`
	if _, err := r.pool.Exec(ctx, query, workflowName); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}
