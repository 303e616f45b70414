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

// WorkflowRepo — репозиторий workflow-документов.
//
// Документ хранится в двух экземплярах: рабочий (с применёнными
// значениями и токенами) и оригинал, каким он был загружен. Оригинал
// никогда не обновляется и служит для сброса конфигурации.
type WorkflowRepo struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepo создаёт новый WorkflowRepo.
func NewWorkflowRepo(pool *pgxpool.Pool) *WorkflowRepo {
	return &WorkflowRepo{pool: pool}
}

// Create сохраняет новый workflow. Имя уникально.
func (r *WorkflowRepo) Create(ctx context.Context, wf *domain.Workflow) error {
	query := `
		INSERT INTO workflows (name, document, original, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		wf.Name,
		wf.Document,
		wf.Original,
		wf.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetByName возвращает workflow по имени.
func (r *WorkflowRepo) GetByName(ctx context.Context, name string) (*domain.Workflow, error) {
	query := `
		SELECT name, document, original, created_at, updated_at
		FROM workflows
		WHERE name = $1
	`
	var wf domain.Workflow
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&wf.Name,
		&wf.Document,
		&wf.Original,
		&wf.CreatedAt,
		&wf.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow by name: %w", err)
	}
	return &wf, nil
}

// List возвращает все workflow без тел документов.
func (r *WorkflowRepo) List(ctx context.Context) ([]domain.Workflow, error) {
	query := `
		SELECT name, created_at, updated_at
		FROM workflows
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []domain.Workflow
	for rows.Next() {
		var wf domain.Workflow
		if err := rows.Scan(
			&wf.Name,
			&wf.CreatedAt,
			&wf.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		workflows = append(workflows, wf)
	}
	return workflows, rows.Err()
}

// UpdateDocument заменяет рабочий документ workflow.
func (r *WorkflowRepo) UpdateDocument(ctx context.Context, name string, document json.RawMessage) error {
	query := `
		UPDATE workflows
		SET document = $2, updated_at = $3
		WHERE name = $1
	`
	result, err := r.pool.Exec(ctx, query, name, document, time.Now())
	if err != nil {
		return fmt.Errorf("update workflow document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetDocument возвращает рабочий документ к оригиналу.
func (r *WorkflowRepo) ResetDocument(ctx context.Context, name string) error {
	query := `
		UPDATE workflows
		SET document = original, updated_at = $2
		WHERE name = $1
	`
	result, err := r.pool.Exec(ctx, query, name, time.Now())
	if err != nil {
		return fmt.Errorf("reset workflow document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет workflow (каскадно удалит его настройки).
func (r *WorkflowRepo) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM workflows WHERE name = $1`
	result, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
