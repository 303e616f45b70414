package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueType — тип скалярного значения входа ноды.
//
// Поддерживаются три типа: текст, целое и дробное число.
// Булевы и составные значения (массивы, объекты) полями не являются
// и отсекаются на границе при парсинге документа.
type ValueType string

const (
	// ValueString — текстовое значение.
	ValueString ValueType = "str"

	// ValueInt — целочисленное значение.
	ValueInt ValueType = "int"

	// ValueFloat — дробное значение.
	// Целое по величине дробное (20.0) остаётся float: автор документа
	// обозначил слот как десятичный.
	ValueFloat ValueType = "float"
)

// Scalar — скалярное значение входа ноды или сохранённой настройки.
//
// Тэгированное объединение: Kind определяет, какое из полей значимо.
type Scalar struct {
	// Kind — тип значения.
	Kind ValueType

	// Str — текстовое значение (Kind == ValueString).
	Str string

	// Int — целое значение (Kind == ValueInt).
	Int int64

	// Float — дробное значение (Kind == ValueFloat).
	Float float64
}

// StringValue создаёт текстовый Scalar.
func StringValue(s string) Scalar {
	return Scalar{Kind: ValueString, Str: s}
}

// IntValue создаёт целочисленный Scalar.
func IntValue(i int64) Scalar {
	return Scalar{Kind: ValueInt, Int: i}
}

// FloatValue создаёт дробный Scalar.
func FloatValue(f float64) Scalar {
	return Scalar{Kind: ValueFloat, Float: f}
}

// Text возвращает текстовую форму значения.
//
// Целое по величине дробное сохраняет десятичную точку ("20.0"),
// чтобы тип не терялся при повторном парсинге документа.
func (s Scalar) Text() string {
	switch s.Kind {
	case ValueInt:
		return strconv.FormatInt(s.Int, 10)
	case ValueFloat:
		if s.Float == math.Trunc(s.Float) && !math.IsInf(s.Float, 0) {
			return strconv.FormatFloat(s.Float, 'f', 1, 64)
		}
		return strconv.FormatFloat(s.Float, 'f', -1, 64)
	default:
		return s.Str
	}
}

// IsZero возвращает true для нулевого (не заполненного) Scalar.
func (s Scalar) IsZero() bool {
	return s == Scalar{}
}

// Number возвращает значение как json.Number для записи в дерево документа.
// json.Number сериализуется дословно, поэтому "20.0" остаётся дробным.
func (s Scalar) Number() json.Number {
	return json.Number(s.Text())
}

// Value возвращает значение для подстановки в декодированное дерево документа.
func (s Scalar) Value() any {
	switch s.Kind {
	case ValueInt, ValueFloat:
		return s.Number()
	default:
		return s.Str
	}
}

// MarshalJSON сериализует Scalar как голое JSON-значение (строка или число).
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case ValueInt:
		return []byte(strconv.FormatInt(s.Int, 10)), nil
	case ValueFloat:
		return []byte(s.Text()), nil
	default:
		return json.Marshal(s.Str)
	}
}

// UnmarshalJSON восстанавливает Scalar из голого JSON-значения.
// Числовой литерал без точки и экспоненты считается целым.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode scalar: %w", err)
	}

	parsed, ok := ScalarFromAny(raw)
	if !ok {
		return fmt.Errorf("unsupported scalar value: %s", string(data))
	}
	*s = parsed
	return nil
}

// ScalarFromAny пытается получить Scalar из декодированного JSON-значения.
// Возвращает false для булевых и составных значений.
func ScalarFromAny(v any) (Scalar, bool) {
	switch val := v.(type) {
	case string:
		return StringValue(val), true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return IntValue(i), true
		}
		if f, err := val.Float64(); err == nil {
			return FloatValue(f), true
		}
		return Scalar{}, false
	case int:
		return IntValue(int64(val)), true
	case int64:
		return IntValue(val), true
	case float64:
		// Значение пришло из decode без UseNumber — литерал утерян,
		// различаем по величине.
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return IntValue(int64(val)), true
		}
		return FloatValue(val), true
	default:
		return Scalar{}, false
	}
}
