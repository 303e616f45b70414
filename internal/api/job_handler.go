package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/stencil/internal/domain"
	"github.com/shaiso/stencil/internal/repo"
	"github.com/shaiso/stencil/internal/telemetry"
)

// ListJobs возвращает последние задания.
// GET /api/v1/jobs?limit=N
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	jobs, err := h.jobRepo.List(r.Context(), limit)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	result := make([]JobResponse, len(jobs))
	for i, j := range jobs {
		result[i] = JobFromDomain(j)
	}

	List(w, result, len(result))
}

// CreateJob ставит задание генерации в очередь.
// POST /api/v1/jobs
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Workflow == "" {
		BadRequest(w, "workflow is required")
		return
	}
	if req.Prompt == "" {
		BadRequest(w, "prompt is required")
		return
	}

	// Проверяем существование workflow до постановки в очередь.
	if _, err := h.workflowRepo.GetByName(r.Context(), req.Workflow); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			BadRequest(w, "workflow "+req.Workflow+" does not exist")
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	job := &domain.Job{
		ID:           uuid.New(),
		WorkflowName: req.Workflow,
		Prompt:       req.Prompt,
		Width:        req.Width,
		Height:       req.Height,
		Style:        req.Style,
		Seed:         req.Seed,
		Status:       domain.JobStatusQueued,
		CreatedAt:    time.Now(),
	}

	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		HandleRepoError(w, h.logger, err, "")
		return
	}

	telemetry.JobsCreated.Inc()

	// Ошибка публикации не откатывает задание: воркер подберёт
	// его из очереди статусов при следующем опросе.
	if err := h.publisher.PublishJobPending(r.Context(), job.ID); err != nil {
		h.logger.Warn("failed to publish job pending event",
			"job_id", job.ID,
			"error", err,
		)
	}

	Created(w, JobFromDomain(*job))
}

// GetJob возвращает задание по идентификатору.
// GET /api/v1/jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid job id")
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "job not found") {
		return
	}

	Success(w, JobFromDomain(*job))
}

// GetJobImage отдаёт готовое изображение задания.
// GET /api/v1/jobs/{id}/image
func (h *Handler) GetJobImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid job id")
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "job not found") {
		return
	}

	if job.Status != domain.JobStatusSucceeded || job.ImagePath == "" {
		NotFound(w, "job has no image")
		return
	}

	http.ServeFile(w, r, job.ImagePath)
}
