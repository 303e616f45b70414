package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/stencil/internal/comfy"
	"github.com/shaiso/stencil/internal/mq"
	"github.com/shaiso/stencil/internal/repo"
)

// Default configuration values.
const (
	defaultPollInterval    = 10 * time.Second
	defaultBatchSize       = 20
	defaultPrefetch        = 1
	defaultAwaitPoll       = time.Second
	defaultGenerateTimeout = 10 * time.Minute
)

// Worker выполняет задания генерации.
type Worker struct {
	// Repositories
	jobRepo         *repo.JobRepo
	workflowRepo    *repo.WorkflowRepo
	settingsRepo    *repo.SettingsRepo
	placeholderRepo *repo.PlaceholderRepo
	styleRepo       *repo.StyleRepo

	// MQ
	publisher *mq.Publisher
	conn      *mq.Connection

	// Execution
	comfy *comfy.Client
	cache *Cache

	// Consumer
	consumer *mq.Consumer

	// Configuration
	pollInterval    time.Duration
	batchSize       int
	awaitPoll       time.Duration
	generateTimeout time.Duration

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Worker.
type Config struct {
	// Repositories
	JobRepo         *repo.JobRepo
	WorkflowRepo    *repo.WorkflowRepo
	SettingsRepo    *repo.SettingsRepo
	PlaceholderRepo *repo.PlaceholderRepo
	StyleRepo       *repo.StyleRepo

	// MQ
	Publisher *mq.Publisher
	Conn      *mq.Connection

	// Execution
	Comfy *comfy.Client
	Cache *Cache

	// Polling configuration
	PollInterval time.Duration // интервал polling (default: 10s)
	BatchSize    int           // количество заданий за один poll (default: 20)
	AwaitPoll    time.Duration // интервал опроса истории исполнения (default: 1s)

	// GenerateTimeout — предел времени одной генерации (default: 10m).
	GenerateTimeout time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	awaitPoll := cfg.AwaitPoll
	if awaitPoll <= 0 {
		awaitPoll = defaultAwaitPoll
	}

	generateTimeout := cfg.GenerateTimeout
	if generateTimeout <= 0 {
		generateTimeout = defaultGenerateTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		jobRepo:         cfg.JobRepo,
		workflowRepo:    cfg.WorkflowRepo,
		settingsRepo:    cfg.SettingsRepo,
		placeholderRepo: cfg.PlaceholderRepo,
		styleRepo:       cfg.StyleRepo,
		publisher:       cfg.Publisher,
		conn:            cfg.Conn,
		comfy:           cfg.Comfy,
		cache:           cfg.Cache,
		pollInterval:    pollInterval,
		batchSize:       batchSize,
		awaitPoll:       awaitPoll,
		generateTimeout: generateTimeout,
		logger:          logger,
	}
}

// Start запускает Worker.
//
// Запускает:
//   - Consumer для jobs.pending
//   - Polling горутину для fallback
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueJobsPending),
		Handler:  w.handleJobPending,
		Prefetch: defaultPrefetch,
	})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("job consumer error", "error", err)
		}
	}()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx)
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	if w.consumer != nil {
		w.consumer.Stop()
	}

	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// pollLoop — цикл polling для fallback.
func (w *Worker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу при старте (подхватываем задания, созданные пока были выключены)
	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll выполняет один цикл polling.
func (w *Worker) poll(ctx context.Context) {
	jobs, err := w.jobRepo.ListQueued(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list queued jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	w.logger.Debug("poll found queued jobs", "count", len(jobs))

	for i := range jobs {
		if err := w.processJob(ctx, jobs[i].ID); err != nil {
			w.logger.Error("failed to process job from poll",
				"job_id", jobs[i].ID,
				"error", err,
			)
		}
	}
}
