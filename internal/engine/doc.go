// Package engine содержит движок параметризации workflow-документов.
//
// Включает:
//   - parser.go     — разбор node-graph документа с сохранением порядка
//   - fieldkey.go   — кодек ключей хранения полей ("1!3|seed")
//   - coerce.go     — приведение значений к типу поля
//   - catalog.go    — каталог имён плейсхолдеров
//   - extractor.go  — извлечение редактируемых полей из документа
//   - renderer.go   — текстовая подстановка токенов %name%
//   - reconciler.go — согласование полей с прежними настройками при сохранении
//   - fields.go     — операции редактирования списка полей
//
// Движок чистый: все операции — синхронные преобразования структур в
// памяти. Снимки настроек и каталога передаёт вызывающий; персистентность
// и ввод-вывод живут снаружи (internal/repo, internal/api).
package engine
