// Stencil Scheduler — регламентные работы.
//
// По cron-расписанию помечает зависшие задания как FAILED и чистит
// кэш изображений. В кластере работает только один экземпляр:
// лидерство берётся через pg_try_advisory_lock.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/stencil/internal/repo"
	"github.com/shaiso/stencil/internal/scheduler"
	"github.com/shaiso/stencil/internal/telemetry"
	"github.com/shaiso/stencil/internal/worker"
)

const schedLockKey int64 = 424242

func main() {
	// Переменные окружения из .env (если файл есть)
	_ = godotenv.Load()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting stencil-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	// Кэш изображений (тот же каталог, что у воркера)
	cacheDir := os.Getenv("CACHE_DIR")
	if cacheDir == "" {
		cacheDir = "cache"
	}
	cache, err := worker.NewCache(cacheDir, os.Getenv("IMG_FORMAT"))
	if err != nil {
		logger.Error("failed to init image cache", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(scheduler.Config{
		JobRepo:     repo.NewJobRepo(pool),
		Cache:       cache,
		Logger:      logger,
		StaleAfter:  envDuration("STALE_AFTER"),
		SweepMaxAge: envDuration("SWEEP_MAX_AGE"),
		ExpireCron:  os.Getenv("EXPIRE_CRON"),
		SweepCron:   os.Getenv("SWEEP_CRON"),
	})

	// scheduler loop (только лидер)
	go func() {
		var hasLock bool
		defer func() {
			if hasLock {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", schedLockKey)
			}
		}()

		tk := time.NewTicker(5 * time.Second)
		defer tk.Stop()

		for !hasLock {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", schedLockKey).Scan(&hasLock); err != nil {
					logger.Error("advisory lock error", "error", err)
				}
			}
		}

		logger.Info("acquired scheduler leadership")
		if err := sched.Run(ctx); err != nil {
			logger.Error("scheduler failed", "error", err)
			cancel()
		}
	}()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("stencil-scheduler stopped")
}

// envDuration читает time.Duration из переменной окружения.
// Пустое или невалидное значение даёт 0 (значение по умолчанию).
func envDuration(name string) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}
