package worker

import "errors"

// Ошибки обработки заданий.
var (
	// ErrJobNotFound — задание отсутствует в БД.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobNotQueued — задание уже взято другим воркером или завершено.
	ErrJobNotQueued = errors.New("job is not queued")

	// ErrWorkflowNotFound — workflow задания удалён.
	ErrWorkflowNotFound = errors.New("workflow not found")
)
