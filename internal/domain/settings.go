package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldsKey — зарезервированный ключ в сохранённых настройках,
// под которым лежит карта "ключ хранения поля → значение".
// Остальные ключи верхнего уровня — имена плейсхолдеров.
const FieldsKey = "__fields"

// Settings — сохранённые настройки шаблона для одного workflow.
//
// Персистентная форма — один JSON-объект:
//
//	{
//	  "prompt": "a cat",
//	  "steps": 20,
//	  "__fields": {"1!3|seed": 42, ...}
//	}
type Settings struct {
	// Placeholders — значение по умолчанию для каждого плейсхолдера.
	Placeholders map[string]Scalar

	// Fields — значение для каждого ключа хранения поля.
	Fields map[string]Scalar
}

// NewSettings создаёт пустые настройки.
func NewSettings() Settings {
	return Settings{
		Placeholders: make(map[string]Scalar),
		Fields:       make(map[string]Scalar),
	}
}

// IsEmpty возвращает true, если настройки не содержат ни одного значения.
func (s Settings) IsEmpty() bool {
	return len(s.Placeholders) == 0 && len(s.Fields) == 0
}

// Clone возвращает глубокую копию настроек.
func (s Settings) Clone() Settings {
	out := NewSettings()
	for k, v := range s.Placeholders {
		out.Placeholders[k] = v
	}
	for k, v := range s.Fields {
		out.Fields[k] = v
	}
	return out
}

// MarshalJSON сериализует настройки в персистентную форму.
func (s Settings) MarshalJSON() ([]byte, error) {
	payload := make(map[string]json.RawMessage, len(s.Placeholders)+1)

	for name, value := range s.Placeholders {
		if name == FieldsKey {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal placeholder %q: %w", name, err)
		}
		payload[name] = raw
	}

	fields := s.Fields
	if fields == nil {
		fields = map[string]Scalar{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal field map: %w", err)
	}
	payload[FieldsKey] = raw

	return json.Marshal(payload)
}

// UnmarshalJSON восстанавливает настройки из персистентной формы.
// Значения, не являющиеся скалярами, молча пропускаются.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("unmarshal settings: %w", err)
	}

	out := NewSettings()

	for name, raw := range payload {
		if name == FieldsKey {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(raw, &fields); err != nil {
				continue
			}
			for key, fieldRaw := range fields {
				if value, ok := ScalarFromJSON(fieldRaw); ok {
					out.Fields[key] = value
				}
			}
			continue
		}

		if value, ok := ScalarFromJSON(raw); ok {
			out.Placeholders[name] = value
		}
	}

	*s = out
	return nil
}

// ScalarFromJSON пытается разобрать сырое JSON-значение как Scalar.
func ScalarFromJSON(raw json.RawMessage) (Scalar, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Scalar{}, false
	}
	return ScalarFromAny(v)
}
