package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/shaiso/stencil/internal/domain"
	"github.com/shaiso/stencil/internal/engine"
	"github.com/shaiso/stencil/internal/mq"
	"github.com/shaiso/stencil/internal/repo"
	"github.com/shaiso/stencil/internal/telemetry"
)

// Размеры по умолчанию, когда ни запрос, ни настройки их не задали.
const (
	defaultWidth  = 512
	defaultHeight = 512
)

// handleJobPending обрабатывает событие о новом задании из очереди jobs.pending.
func (w *Worker) handleJobPending(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.JobPendingPayload](&delivery.Message)
	if err != nil {
		w.logger.Error("failed to parse job.pending payload", "error", err)
		return err
	}

	w.logger.Debug("received job.pending event", "job_id", payload.JobID)

	if err := w.processJob(ctx, payload.JobID); err != nil {
		// Ожидаемые ситуации — не возвращаем ошибку (ack)
		if errors.Is(err, ErrJobNotFound) || errors.Is(err, ErrJobNotQueued) {
			w.logger.Debug("job not processed", "job_id", payload.JobID, "reason", err)
			return nil
		}
		w.logger.Error("failed to process job", "job_id", payload.JobID, "error", err)
		return err
	}

	return nil
}

// processJob загружает задание из БД, выполняет и сохраняет результат.
func (w *Worker) processJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := w.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
		}
		return fmt.Errorf("get job: %w", err)
	}

	if job.Status != domain.JobStatusQueued {
		return ErrJobNotQueued
	}

	job.MarkRunning()
	if err := w.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("update job to running: %w", err)
	}

	w.logger.Info("job started",
		"job_id", job.ID,
		"workflow", job.WorkflowName,
	)

	genCtx, cancel := context.WithTimeout(ctx, w.generateTimeout)
	imagePath, genErr := w.generate(genCtx, job)
	cancel()

	if genErr == nil {
		job.MarkSucceeded(imagePath)
		if err := w.jobRepo.Update(ctx, job); err != nil {
			return fmt.Errorf("update job to succeeded: %w", err)
		}

		telemetry.JobsCompleted.WithLabelValues(string(job.Status)).Inc()
		telemetry.JobDuration.Observe(job.Duration().Seconds())

		w.logger.Info("job succeeded",
			"job_id", job.ID,
			"workflow", job.WorkflowName,
			"image", imagePath,
			"duration", job.Duration(),
		)
		return w.publishCompletion(ctx, job)
	}

	job.MarkFailed(genErr.Error())
	if err := w.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("update job to failed: %w", err)
	}

	telemetry.JobsCompleted.WithLabelValues(string(job.Status)).Inc()

	w.logger.Warn("job failed",
		"job_id", job.ID,
		"workflow", job.WorkflowName,
		"error", genErr,
	)
	return w.publishCompletion(ctx, job)
}

// generate выполняет полный цикл: рендер документа, исполнение,
// скачивание изображения в кэш. Возвращает путь к изображению.
func (w *Worker) generate(ctx context.Context, job *domain.Job) (string, error) {
	wf, err := w.workflowRepo.GetByName(ctx, job.WorkflowName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrWorkflowNotFound, job.WorkflowName)
		}
		return "", fmt.Errorf("get workflow: %w", err)
	}

	settings, err := w.settingsRepo.Get(ctx, job.WorkflowName)
	if err != nil {
		return "", fmt.Errorf("get settings: %w", err)
	}

	catalog, err := w.placeholderRepo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load placeholders: %w", err)
	}

	style, err := w.resolveStyle(ctx, job.Style)
	if err != nil {
		return "", err
	}

	prompt := style.Apply(job.Prompt)
	width := dimension(settings, "width", job.Width, defaultWidth)
	height := dimension(settings, "height", job.Height, defaultHeight)

	// Готовый файл — без обращения к сервису исполнения.
	if path, ok := w.cache.Lookup(prompt, width, height); ok {
		telemetry.CacheHits.Inc()
		w.logger.Info("cache hit", "job_id", job.ID, "image", path)
		return path, nil
	}

	doc, err := engine.ParseDocument(wf.Document)
	if err != nil {
		return "", fmt.Errorf("parse workflow document: %w", err)
	}

	overrides := buildOverrides(prompt, width, height, resolveSeed(job))
	rendered, err := engine.RenderDocument(doc, overrides, settings, catalog)
	if err != nil {
		telemetry.RenderErrors.Inc()
		return "", fmt.Errorf("render document: %w", err)
	}

	promptID, err := w.comfy.SubmitPrompt(ctx, rendered)
	if err != nil {
		return "", err
	}

	w.logger.Debug("prompt submitted", "job_id", job.ID, "prompt_id", promptID)

	images, err := w.comfy.Await(ctx, promptID, w.awaitPoll)
	if err != nil {
		return "", err
	}

	data, err := w.comfy.DownloadImage(ctx, images[0])
	if err != nil {
		return "", err
	}

	return w.cache.Store(prompt, width, height, data)
}

// resolveStyle возвращает стиль задания.
// Пустое имя — стиль по умолчанию; "none" и отсутствие стиля по
// умолчанию дают пустой стиль.
func (w *Worker) resolveStyle(ctx context.Context, name string) (domain.Style, error) {
	switch name {
	case domain.StyleNone:
		return domain.Style{}, nil
	case "":
		style, err := w.styleRepo.GetDefault(ctx)
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Style{}, nil
		}
		if err != nil {
			return domain.Style{}, fmt.Errorf("get default style: %w", err)
		}
		return *style, nil
	default:
		style, err := w.styleRepo.GetByName(ctx, name)
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Style{}, fmt.Errorf("style %q not found", name)
		}
		if err != nil {
			return domain.Style{}, fmt.Errorf("get style: %w", err)
		}
		return *style, nil
	}
}

// publishCompletion публикует событие job.completed.
func (w *Worker) publishCompletion(ctx context.Context, job *domain.Job) error {
	if w.publisher == nil {
		return nil
	}

	payload := mq.JobCompletedPayload{
		JobID:     job.ID,
		Status:    string(job.Status),
		Error:     job.Error,
		ImagePath: job.ImagePath,
	}

	if err := w.publisher.PublishJobCompleted(ctx, payload); err != nil {
		// Задание уже обновлено в БД, потребители статуса доберут его оттуда.
		w.logger.Warn("failed to publish job.completed",
			"job_id", job.ID,
			"error", err,
		)
	}
	return nil
}

// dimension выбирает размер: запрос → настройки → значение по умолчанию.
func dimension(settings domain.Settings, name string, requested, fallback int) int {
	if requested > 0 {
		return requested
	}
	if value, ok := settings.Placeholders[name]; ok && value.Kind == domain.ValueInt && value.Int > 0 {
		return int(value.Int)
	}
	return fallback
}

// buildOverrides собирает значения времени запроса для рендера.
func buildOverrides(prompt string, width, height int, seed int64) map[string]domain.Scalar {
	return map[string]domain.Scalar{
		"prompt": domain.StringValue(prompt),
		"width":  domain.IntValue(int64(width)),
		"height": domain.IntValue(int64(height)),
		"seed":   domain.IntValue(seed),
	}
}

// resolveSeed возвращает закреплённый seed задания либо случайный.
func resolveSeed(job *domain.Job) int64 {
	if job.Seed != nil {
		return *job.Seed
	}
	return rand.Int64N(1 << 31)
}
