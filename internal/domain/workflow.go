package domain

import (
	"encoding/json"
	"time"
)

// Workflow — сохранённый node-graph документ ("шаблон" генерации).
//
// Документ хранится в исходной JSON-форме: движок параметризации
// разбирает его заново при каждой операции (см. internal/engine).
type Workflow struct {
	// Name — уникальное имя workflow (например, "sdxl-base").
	Name string `json:"name"`

	// Document — текущий документ в формате node-graph JSON.
	// Меняется при сохранении конфигурации полей.
	Document json.RawMessage `json:"document"`

	// Original — первоначальная версия документа.
	// Сохраняется один раз при первом сохранении и больше не меняется.
	Original json.RawMessage `json:"original,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения документа.
	UpdatedAt time.Time `json:"updated_at"`
}

// Node — одна нода документа.
type Node struct {
	// ID — идентификатор ноды внутри документа.
	ID string

	// ClassType — тип ноды (class_type в документе).
	ClassType string

	// Title — отображаемое имя из _meta.title; по умолчанию — ID.
	Title string

	// Inputs — скалярные входы ноды в порядке следования в документе.
	// Булевы и составные значения сюда не попадают.
	Inputs []Input
}

// Input — именованный скалярный вход ноды.
type Input struct {
	// Name — имя входа.
	Name string

	// Value — значение входа.
	Value Scalar
}
