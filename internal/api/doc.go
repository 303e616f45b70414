// Package api реализует HTTP API сервера Stencil.
//
// Структура:
//   - handler.go             — Handler с зависимостями
//   - routes.go              — регистрация маршрутов
//   - middleware.go          — Recovery, Logging
//   - response.go            — JSON-ответы и коды ошибок
//   - dto.go                 — типы запросов/ответов
//   - workflow_handler.go    — workflow, поля, настройки, рендер
//   - placeholder_handler.go — каталог плейсхолдеров
//   - style_handler.go       — стили prompt
//   - job_handler.go         — задания генерации
package api
