package api

import (
	"log/slog"

	"github.com/shaiso/stencil/internal/mq"
	"github.com/shaiso/stencil/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	workflowRepo    *repo.WorkflowRepo
	settingsRepo    *repo.SettingsRepo
	placeholderRepo *repo.PlaceholderRepo
	styleRepo       *repo.StyleRepo
	jobRepo         *repo.JobRepo
	publisher       *mq.Publisher
	logger          *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	WorkflowRepo    *repo.WorkflowRepo
	SettingsRepo    *repo.SettingsRepo
	PlaceholderRepo *repo.PlaceholderRepo
	StyleRepo       *repo.StyleRepo
	JobRepo         *repo.JobRepo
	Publisher       *mq.Publisher
	Logger          *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		workflowRepo:    cfg.WorkflowRepo,
		settingsRepo:    cfg.SettingsRepo,
		placeholderRepo: cfg.PlaceholderRepo,
		styleRepo:       cfg.StyleRepo,
		jobRepo:         cfg.JobRepo,
		publisher:       cfg.Publisher,
		logger:          cfg.Logger,
	}
}
