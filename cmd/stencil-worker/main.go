// Stencil Worker — выполняет задания генерации изображений.
//
// Worker:
//   - Получает задания из RabbitMQ (jobs.pending)
//   - Рендерит документ workflow с подстановкой плейсхолдеров
//   - Отправляет его в сервис исполнения и ждёт результат
//   - Скачивает изображение в кэш и публикует job.completed
//
// Workers масштабируются горизонтально.
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

	"github.com/shaiso/stencil/internal/comfy"
	"github.com/shaiso/stencil/internal/mq"
	"github.com/shaiso/stencil/internal/repo"
	"github.com/shaiso/stencil/internal/telemetry"
	"github.com/shaiso/stencil/internal/worker"
)

func main() {
	// Переменные окружения из .env (если файл есть)
	_ = godotenv.Load()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting stencil-worker")

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

	// Создаём репозитории
	jobRepo := repo.NewJobRepo(pool)
	workflowRepo := repo.NewWorkflowRepo(pool)
	settingsRepo := repo.NewSettingsRepo(pool)
	placeholderRepo := repo.NewPlaceholderRepo(pool)
	styleRepo := repo.NewStyleRepo(pool)

	// RabbitMQ
	var publisher *mq.Publisher
	var mqConn *mq.Connection
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err = mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running in polling-only mode", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		// Создаём топологию
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	// Сервис исполнения
	comfyURL := os.Getenv("COMFY_URL")
	if comfyURL == "" {
		comfyURL = "http://localhost:8188"
	}
	comfyClient := comfy.New(comfyURL)

	// Кэш изображений
	cacheDir := os.Getenv("CACHE_DIR")
	if cacheDir == "" {
		cacheDir = "cache"
	}
	cache, err := worker.NewCache(cacheDir, os.Getenv("IMG_FORMAT"))
	if err != nil {
		logger.Error("failed to init image cache", "error", err)
		os.Exit(1)
	}

	// Создаём worker
	w := worker.New(worker.Config{
		JobRepo:         jobRepo,
		WorkflowRepo:    workflowRepo,
		SettingsRepo:    settingsRepo,
		PlaceholderRepo: placeholderRepo,
		StyleRepo:       styleRepo,
		Publisher:       publisher,
		Conn:            mqConn,
		Comfy:           comfyClient,
		Cache:           cache,
		GenerateTimeout: envDuration("GENERATE_TIMEOUT"),
		Logger:          logger,
	})

	// Запускаем worker
	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем worker
	w.Stop()
	logger.Info("stencil-worker stopped")
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
