// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - job.pending   — задание генерации ожидает выполнения
//   - job.completed — задание генерации завершено
//
// Exchanges:
//   - stencil.jobs — события заданий
//   - stencil.dlq  — dead letter queue
package mq
