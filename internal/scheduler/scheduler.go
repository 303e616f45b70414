package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/stencil/internal/repo"
	"github.com/shaiso/stencil/internal/worker"
)

// Scheduler — сервис регламентных работ.
//
// По cron-расписанию выполняет две задачи:
//   - переводит зависшие задания (RUNNING/QUEUED дольше StaleAfter)
//     в статус FAILED;
//   - удаляет из кэша изображения старше SweepMaxAge.
type Scheduler struct {
	jobRepo     *repo.JobRepo
	cache       *worker.Cache
	logger      *slog.Logger
	staleAfter  time.Duration
	sweepMaxAge time.Duration
	expireCron  string
	sweepCron   string
}

// Config — конфигурация Scheduler.
type Config struct {
	JobRepo *repo.JobRepo
	Cache   *worker.Cache
	Logger  *slog.Logger

	// StaleAfter — возраст, после которого незавершённое задание
	// считается зависшим (default: 30m).
	StaleAfter time.Duration

	// SweepMaxAge — срок хранения изображений в кэше (default: 168h).
	SweepMaxAge time.Duration

	// ExpireCron — расписание проверки зависших заданий (default: каждую минуту).
	ExpireCron string

	// SweepCron — расписание чистки кэша (default: ежедневно в 03:00).
	SweepCron string
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}

	sweepMaxAge := cfg.SweepMaxAge
	if sweepMaxAge <= 0 {
		sweepMaxAge = 7 * 24 * time.Hour
	}

	expireCron := cfg.ExpireCron
	if expireCron == "" {
		expireCron = "* * * * *"
	}

	sweepCron := cfg.SweepCron
	if sweepCron == "" {
		sweepCron = "0 3 * * *"
	}

	return &Scheduler{
		jobRepo:     cfg.JobRepo,
		cache:       cfg.Cache,
		logger:      cfg.Logger,
		staleAfter:  staleAfter,
		sweepMaxAge: sweepMaxAge,
		expireCron:  expireCron,
		sweepCron:   sweepCron,
	}
}

// Run регистрирует cron-задачи и блокируется до отмены контекста.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithParser(cronParser), cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(s.expireCron, func() { s.ExpireStaleJobs(ctx) }); err != nil {
		return fmt.Errorf("register expire job: %w", err)
	}
	if _, err := c.AddFunc(s.sweepCron, func() { s.SweepCache(ctx) }); err != nil {
		return fmt.Errorf("register sweep job: %w", err)
	}

	c.Start()
	s.logger.Info("scheduler started",
		"expire_cron", s.expireCron,
		"sweep_cron", s.sweepCron,
	)

	<-ctx.Done()

	// Дожидаемся завершения уже запущенных задач
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")

	return nil
}

// ExpireStaleJobs помечает зависшие задания как FAILED.
func (s *Scheduler) ExpireStaleJobs(ctx context.Context) {
	expired, err := s.jobRepo.ExpireStale(ctx, s.staleAfter)
	if err != nil {
		s.logger.Error("failed to expire stale jobs", "error", err)
		return
	}

	if expired > 0 {
		s.logger.Warn("expired stale jobs",
			"count", expired,
			"older_than", s.staleAfter,
		)
	}
}

// SweepCache удаляет устаревшие изображения из кэша.
func (s *Scheduler) SweepCache(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	removed, err := s.cache.Sweep(s.sweepMaxAge)
	if err != nil {
		s.logger.Error("cache sweep failed", "error", err)
		return
	}

	s.logger.Info("cache sweep completed",
		"removed", removed,
		"max_age", s.sweepMaxAge,
	)
}
