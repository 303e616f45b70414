// Package worker выполняет задания генерации изображений.
//
// Worker — stateless компонент системы, который:
//   - Получает задания из очереди RabbitMQ (event-driven)
//   - Периодически проверяет queued задания в БД (polling fallback)
//   - Рендерит документ workflow и отправляет его сервису исполнения
//   - Скачивает результат в файловый кэш
//   - Публикует событие jobs.completed
//
// Workers масштабируются горизонтально — несколько экземпляров
// могут потреблять из одной очереди.
package worker
