package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/stencil/internal/domain"
)

// JobRepo — репозиторий заданий генерации.
type JobRepo struct {
	pool *pgxpool.Pool
}

// NewJobRepo создаёт новый JobRepo.
func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

// Create сохраняет новое задание.
func (r *JobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (id, workflow_name, prompt, width, height, style, seed, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.WorkflowName,
		job.Prompt,
		job.Width,
		job.Height,
		job.Style,
		job.Seed,
		job.Status,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID возвращает задание по ID.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query := `
		SELECT id, workflow_name, prompt, width, height, style, seed,
		       status, error, image_path, created_at, started_at, finished_at
		FROM jobs
		WHERE id = $1
	`
	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job by id: %w", err)
	}
	return job, nil
}

// List возвращает последние задания.
func (r *JobRepo) List(ctx context.Context, limit int) ([]domain.Job, error) {
	query := `
		SELECT id, workflow_name, prompt, width, height, style, seed,
		       status, error, image_path, created_at, started_at, finished_at
		FROM jobs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// ListQueued возвращает задания, ожидающие выполнения.
// Используется polling-циклом воркера как страховка на случай
// потерянных сообщений очереди.
func (r *JobRepo) ListQueued(ctx context.Context, limit int) ([]domain.Job, error) {
	query := `
		SELECT id, workflow_name, prompt, width, height, style, seed,
		       status, error, image_path, created_at, started_at, finished_at
		FROM jobs
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, domain.JobStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("list queued jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Update сохраняет статус и результат задания.
func (r *JobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET status = $2, error = $3, image_path = $4, started_at = $5, finished_at = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Status,
		job.Error,
		job.ImagePath,
		job.StartedAt,
		job.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireStale помечает зависшие задания как проваленные.
// Возвращает число затронутых заданий.
func (r *JobRepo) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE jobs
		SET status = $1, error = 'expired by scheduler', finished_at = NOW()
		WHERE status = ANY($2) AND created_at < NOW() - $3::interval
	`
	active := []string{string(domain.JobStatusQueued), string(domain.JobStatusRunning)}
	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))

	result, err := r.pool.Exec(ctx, query, domain.JobStatusFailed, active, interval)
	if err != nil {
		return 0, fmt.Errorf("expire stale jobs: %w", err)
	}
	return result.RowsAffected(), nil
}

// scanJob читает задание из строки результата.
func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	err := row.Scan(
		&job.ID,
		&job.WorkflowName,
		&job.Prompt,
		&job.Width,
		&job.Height,
		&job.Style,
		&job.Seed,
		&job.Status,
		&job.Error,
		&job.ImagePath,
		&job.CreatedAt,
		&job.StartedAt,
		&job.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
