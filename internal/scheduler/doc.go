// Package scheduler реализует регламентные работы сервера Stencil.
//
// Scheduler по cron-расписанию помечает зависшие задания генерации
// как FAILED и чистит кэш изображений от устаревших файлов.
//
// Структура:
//   - scheduler.go — основная логика (Run, ExpireStaleJobs, SweepCache)
//   - cron.go      — парсинг и валидация cron-выражений
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    JobRepo: jobRepo,
//	    Cache:   cache,
//	    Logger:  logger,
//	})
//
//	// Блокируется до отмены контекста
//	if err := sched.Run(ctx); err != nil {
//	    logger.Error("scheduler failed", "error", err)
//	}
package scheduler
