package engine

import (
	"errors"
	"fmt"

	"github.com/shaiso/stencil/internal/domain"
)

// Ошибки каталога плейсхолдеров.
var (
	// ErrEmptyName — имя плейсхолдера пустое.
	ErrEmptyName = errors.New("placeholder name is empty")

	// ErrDuplicateName — плейсхолдер с таким именем уже есть.
	ErrDuplicateName = errors.New("placeholder already exists")

	// ErrUnknownName — плейсхолдер не найден в каталоге.
	ErrUnknownName = errors.New("placeholder not found")
)

// Ошибки разбора документа.
var (
	// ErrNotObject — верхний уровень документа не является объектом.
	ErrNotObject = errors.New("document is not a JSON object")
)

// Ошибки согласования.
var (
	// ErrDuplicateOrder — разные ноды получили одинаковый порядок.
	ErrDuplicateOrder = errors.New("duplicate node order")
)

// ParseError — текстовое значение не приводится к типу поля.
//
// Восстановимая ошибка: сообщается по каждому полю отдельно и не
// прерывает обработку остальных полей.
type ParseError struct {
	Value string           // исходный текст
	Type  domain.ValueType // целевой тип
	Err   error            // ошибка парсера
}

// Error реализует интерфейс error.
func (e *ParseError) Error() string {
	switch e.Type {
	case domain.ValueInt:
		return fmt.Sprintf("enter a valid integer (got %q)", e.Value)
	case domain.ValueFloat:
		return fmt.Sprintf("enter a valid number (got %q)", e.Value)
	default:
		return fmt.Sprintf("cannot coerce %q to %s", e.Value, e.Type)
	}
}

// Unwrap возвращает ошибку парсера.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// RenderError — документ после подстановки не разбирается как JSON.
//
// Фатальна для конкретного рендера: вызывающий не получает документ.
type RenderError struct {
	Err error // диагностика парсера
}

// Error реализует интерфейс error.
func (e *RenderError) Error() string {
	return "rendered document is not valid JSON: " + e.Err.Error()
}

// Unwrap возвращает диагностику парсера.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// ValidationError — структурный конфликт при сохранении.
//
// Фатальна для всего сохранения: настройки не записываются даже частично.
type ValidationError struct {
	Field   string // источник конфликта (например, "order")
	Message string // описание конфликта
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// FieldError — ошибка, привязанная к конкретному полю.
// Позволяет сообщить о всех проблемных полях за один проход.
type FieldError struct {
	NodeTitle string // имя ноды-владельца
	InputName string // имя входа
	Err       error  // причина
}

// Error реализует интерфейс error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s → %s: %v", e.NodeTitle, e.InputName, e.Err)
}

// Unwrap возвращает вложенную ошибку.
func (e *FieldError) Unwrap() error {
	return e.Err
}
