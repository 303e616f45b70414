package domain

// JobStatus — статус задания генерации.
//
// Жизненный цикл:
//
//	QUEUED → RUNNING → SUCCEEDED
//	                 ↘ FAILED
type JobStatus string

const (
	// JobStatusQueued — задание в очереди, ожидает воркера.
	JobStatusQueued JobStatus = "QUEUED"

	// JobStatusRunning — задание выполняется (рендер + генерация).
	JobStatusRunning JobStatus = "RUNNING"

	// JobStatusSucceeded — изображение получено и сохранено.
	JobStatusSucceeded JobStatus = "SUCCEEDED"

	// JobStatusFailed — задание завершилось с ошибкой.
	JobStatusFailed JobStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusFailed:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление статуса.
func (s JobStatus) String() string {
	return string(s)
}
