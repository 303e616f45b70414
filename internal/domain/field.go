package domain

// Границы порядка отображения нод.
const (
	// FieldOrderMin — минимальный порядок ноды.
	FieldOrderMin = 1

	// FieldOrderMax — максимальный порядок ноды.
	FieldOrderMax = 99
)

// Field — одно редактируемое поле: пара (нода, вход).
//
// Fields выводятся из документа экстрактором (engine.ExtractFields)
// и никогда не сохраняются целиком: персистентны только значения,
// привязанные к ключу хранения (см. engine.EncodeFieldKey).
type Field struct {
	// NodeID — идентификатор ноды-владельца.
	NodeID string `json:"node_id"`

	// NodeTitle — отображаемое имя ноды.
	NodeTitle string `json:"node_title"`

	// InputName — имя входа внутри ноды.
	InputName string `json:"input_name"`

	// ClassType — тип ноды-владельца.
	ClassType string `json:"class_type"`

	// Type — тип значения поля.
	Type ValueType `json:"type"`

	// Placeholder — имя привязанного плейсхолдера.
	// Пустая строка — поле хранит литеральное значение.
	Placeholder string `json:"placeholder"`

	// StoredValue — литеральное значение для несвязанного поля
	// либо последнее известное значение для привязанного.
	StoredValue string `json:"stored_value"`

	// TextValue — текущий отображаемый текст.
	// Для привязанного поля всегда ровно "%<placeholder>%".
	TextValue string `json:"text_value"`

	// Order — порядок отображения, общий для всех полей одной ноды.
	// Диапазон [FieldOrderMin, FieldOrderMax].
	Order int `json:"order"`

	// IsPrimary — true только у первого поля ноды; оно несёт
	// отображаемое имя ноды, остальные поля его не дублируют.
	IsPrimary bool `json:"is_primary"`

	// DisplayTitle — имя ноды для отображения (только у primary-поля).
	DisplayTitle string `json:"display_title"`
}

// IsBound возвращает true, если поле привязано к плейсхолдеру.
func (f *Field) IsBound() bool {
	return f.Placeholder != ""
}

// ClampOrder приводит порядок к диапазону [FieldOrderMin, FieldOrderMax].
// Значение вне диапазона заменяется ближайшей границей.
func ClampOrder(order int) int {
	if order < FieldOrderMin {
		return FieldOrderMin
	}
	if order > FieldOrderMax {
		return FieldOrderMax
	}
	return order
}
