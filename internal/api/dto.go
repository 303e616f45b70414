package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/stencil/internal/domain"
)

// Workflow DTOs

// CreateWorkflowRequest — запрос на загрузку workflow.
type CreateWorkflowRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// UpdateWorkflowRequest — запрос на замену документа workflow.
type UpdateWorkflowRequest struct {
	Document json.RawMessage `json:"document"`
}

// WorkflowResponse — ответ с workflow.
type WorkflowResponse struct {
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WorkflowFromDomain конвертирует domain.Workflow в WorkflowResponse.
func WorkflowFromDomain(wf domain.Workflow, withDocument bool) WorkflowResponse {
	resp := WorkflowResponse{
		Name:      wf.Name,
		CreatedAt: wf.CreatedAt,
		UpdatedAt: wf.UpdatedAt,
	}
	if withDocument {
		resp.Document = wf.Document
	}
	return resp
}

// Field DTOs

// SaveFieldsRequest — запрос на сохранение конфигурации полей.
// Поля приходят целиком, в том виде, в каком их отдал GET fields,
// с правками пользователя.
type SaveFieldsRequest struct {
	Fields []domain.Field `json:"fields"`
}

// FieldsResponse — ответ со списком полей.
type FieldsResponse struct {
	Fields []domain.Field `json:"fields"`
}

// Render DTOs

// RenderRequest — запрос на рендер документа.
// Overrides — значения плейсхолдеров времени запроса.
type RenderRequest struct {
	Overrides map[string]json.RawMessage `json:"overrides,omitempty"`
}

// Placeholder DTOs

// AddPlaceholderRequest — запрос на добавление плейсхолдера.
type AddPlaceholderRequest struct {
	Name string `json:"name"`
}

// PlaceholdersResponse — ответ со списком имён каталога.
type PlaceholdersResponse struct {
	Names []string `json:"names"`
}

// Style DTOs

// UpsertStyleRequest — запрос на создание или обновление стиля.
type UpsertStyleRequest struct {
	Pre       string `json:"pre"`
	Post      string `json:"post"`
	IsDefault bool   `json:"is_default"`
}

// StyleResponse — ответ со стилем.
type StyleResponse struct {
	Name      string `json:"name"`
	Pre       string `json:"pre"`
	Post      string `json:"post"`
	IsDefault bool   `json:"is_default"`
}

// StyleFromDomain конвертирует domain.Style в StyleResponse.
func StyleFromDomain(s domain.Style) StyleResponse {
	return StyleResponse{
		Name:      s.Name,
		Pre:       s.Pre,
		Post:      s.Post,
		IsDefault: s.IsDefault,
	}
}

// Job DTOs

// CreateJobRequest — запрос на создание задания генерации.
type CreateJobRequest struct {
	Workflow string `json:"workflow"`
	Prompt   string `json:"prompt"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Style    string `json:"style,omitempty"`
	Seed     *int64 `json:"seed,omitempty"`
}

// JobResponse — ответ с заданием.
type JobResponse struct {
	ID         uuid.UUID  `json:"id"`
	Workflow   string     `json:"workflow"`
	Prompt     string     `json:"prompt"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`
	Style      string     `json:"style,omitempty"`
	Seed       *int64     `json:"seed,omitempty"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	ImagePath  string     `json:"image_path,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// JobFromDomain конвертирует domain.Job в JobResponse.
func JobFromDomain(j domain.Job) JobResponse {
	return JobResponse{
		ID:         j.ID,
		Workflow:   j.WorkflowName,
		Prompt:     j.Prompt,
		Width:      j.Width,
		Height:     j.Height,
		Style:      j.Style,
		Seed:       j.Seed,
		Status:     string(j.Status),
		Error:      j.Error,
		ImagePath:  j.ImagePath,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	}
}
