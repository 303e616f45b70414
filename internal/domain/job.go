package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job — одно задание генерации изображения.
//
// Создаётся API по запросу пользователя, выполняется воркером:
// рендер документа → отправка в сервис исполнения → ожидание →
// скачивание результата.
type Job struct {
	// ID — уникальный идентификатор задания.
	ID uuid.UUID `json:"id"`

	// WorkflowName — имя workflow, из которого рендерится документ.
	WorkflowName string `json:"workflow_name"`

	// Prompt — пользовательский prompt (без применённого стиля).
	Prompt string `json:"prompt"`

	// Width, Height — целевые размеры; 0 — взять из настроек workflow.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Style — имя стиля; пустая строка — стиль по умолчанию.
	Style string `json:"style,omitempty"`

	// Seed — закреплённый seed; nil — случайный на каждое выполнение.
	Seed *int64 `json:"seed,omitempty"`

	// Status — текущий статус задания.
	Status JobStatus `json:"status"`

	// Error — текст ошибки при неудаче.
	Error string `json:"error,omitempty"`

	// ImagePath — путь к сохранённому изображению в кэше.
	ImagePath string `json:"image_path,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Duration возвращает продолжительность выполнения.
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil || j.FinishedAt == nil {
		return 0
	}
	return j.FinishedAt.Sub(*j.StartedAt)
}

// IsFinished возвращает true, если задание завершено.
func (j *Job) IsFinished() bool {
	return j.Status.IsTerminal()
}

// MarkRunning переводит задание в статус RUNNING.
func (j *Job) MarkRunning() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
}

// MarkSucceeded переводит задание в статус SUCCEEDED с путём к изображению.
func (j *Job) MarkSucceeded(imagePath string) {
	now := time.Now()
	j.Status = JobStatusSucceeded
	j.FinishedAt = &now
	j.ImagePath = imagePath
	j.Error = ""
}

// MarkFailed переводит задание в статус FAILED с ошибкой.
func (j *Job) MarkFailed(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.FinishedAt = &now
	j.Error = err
}
