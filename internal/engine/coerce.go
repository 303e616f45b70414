package engine

import (
	"strconv"
	"strings"

	"github.com/shaiso/stencil/internal/domain"
)

// CoerceString приводит текстовое значение к типу поля.
//
// Для int и float текст обрезается по краям перед разбором;
// "3.5" не является целым и для int даёт *ParseError.
func CoerceString(value string, t domain.ValueType) (domain.Scalar, error) {
	switch t {
	case domain.ValueInt:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return domain.Scalar{}, &ParseError{Value: value, Type: t, Err: err}
		}
		return domain.IntValue(n), nil

	case domain.ValueFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return domain.Scalar{}, &ParseError{Value: value, Type: t, Err: err}
		}
		return domain.FloatValue(f), nil

	default:
		return domain.StringValue(value), nil
	}
}

// CoerceScalar приводит уже типизированное значение к типу поля.
//
// В отличие от CoerceString принимает числовые значения напрямую:
// float с нулевой дробной частью нормализуется в int, если тип
// поля целый. Строки проходят через CoerceString.
func CoerceScalar(value domain.Scalar, t domain.ValueType) (domain.Scalar, error) {
	switch t {
	case domain.ValueInt:
		switch value.Kind {
		case domain.ValueInt:
			return value, nil
		case domain.ValueFloat:
			if value.Float == float64(int64(value.Float)) {
				return domain.IntValue(int64(value.Float)), nil
			}
			return domain.Scalar{}, &ParseError{Value: value.Text(), Type: t}
		default:
			return CoerceString(value.Str, t)
		}

	case domain.ValueFloat:
		switch value.Kind {
		case domain.ValueInt:
			return domain.FloatValue(float64(value.Int)), nil
		case domain.ValueFloat:
			return value, nil
		default:
			return CoerceString(value.Str, t)
		}

	default:
		return domain.StringValue(value.Text()), nil
	}
}
