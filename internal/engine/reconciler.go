package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shaiso/stencil/internal/domain"
)

// ReconcileResult — итог согласования сохранения.
type ReconcileResult struct {
	// Settings — новый снимок настроек. Заменяет прежний целиком:
	// частичная запись невозможна.
	Settings domain.Settings

	// Fields — поля после нормализации и перенумерации порядка.
	Fields []domain.Field

	// Document — документ с применёнными значениями и токенами.
	Document *Document
}

// Reconcile согласует отредактированные поля с прежними настройками.
//
// Последовательность:
//  1. порядок каждой ноды нормализуется (первое поле ноды задаёт
//     порядок всем её полям);
//  2. одинаковый порядок у разных нод — *ValidationError, сохранение
//     отменяется целиком;
//  3. поля стабильно сортируются по (порядок, позиция) и ноды
//     перенумеровываются последовательно;
//  4. значения применяются к документу: привязанное поле получает
//     токен "%name%", непривязанное — литерал, приведённый к типу;
//  5. строится новый снимок настроек; значение каждого ключа берётся
//     по цепочке: свежее значение → прежнее значение той же пары
//     (нода, вход) → значение плейсхолдера → коэрция текущего текста.
//
// Ошибки коэрции собираются по всем полям и возвращаются разом; при
// любой ошибке снимок не строится. Плейсхолдеры, не привязанные больше
// ни к одному полю, из настроек удаляются.
func Reconcile(doc *Document, fields []domain.Field, prev domain.Settings) (*ReconcileResult, []error) {
	out := make([]domain.Field, len(fields))
	copy(out, fields)

	normalizeNodeOrders(out)

	if dups := duplicateOrders(out); len(dups) > 0 {
		return nil, []error{&ValidationError{
			Field:   "order",
			Message: fmt.Sprintf("node order values must be unique, duplicated: %s", joinInts(dups)),
			Err:     ErrDuplicateOrder,
		}}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	renumberNodes(out)

	newPlaceholders := make(map[string]domain.Scalar)
	newFields := make(map[string]domain.Scalar)
	active := make(map[string]struct{})
	var errs []error

	for i := range out {
		f := &out[i]
		if _, ok := doc.Node(f.NodeID); !ok {
			continue
		}
		key := EncodeFieldKey(f.NodeID, f.InputName, f.Order)

		if f.Placeholder != "" {
			active[f.Placeholder] = struct{}{}

			var def *domain.Scalar
			trimmed := strings.TrimSpace(f.StoredValue)
			if trimmed != "" && !isToken(trimmed) {
				value, err := CoerceString(f.StoredValue, f.Type)
				if err != nil {
					errs = append(errs, &FieldError{NodeTitle: f.NodeTitle, InputName: f.InputName, Err: err})
					continue
				}
				def = &value
			}

			if err := doc.SetInput(f.NodeID, f.InputName, domain.StringValue(PlaceholderToken(f.Placeholder))); err != nil {
				errs = append(errs, &FieldError{NodeTitle: f.NodeTitle, InputName: f.InputName, Err: err})
				continue
			}
			if def != nil {
				newPlaceholders[f.Placeholder] = *def
				newFields[key] = *def
			}
			continue
		}

		value, err := CoerceString(f.TextValue, f.Type)
		if err != nil {
			errs = append(errs, &FieldError{NodeTitle: f.NodeTitle, InputName: f.InputName, Err: err})
			continue
		}
		if err := doc.SetInput(f.NodeID, f.InputName, value); err != nil {
			errs = append(errs, &FieldError{NodeTitle: f.NodeTitle, InputName: f.InputName, Err: err})
			continue
		}
		newFields[key] = value
	}

	if len(errs) > 0 {
		return nil, errs
	}

	settings := domain.NewSettings()
	for name, value := range prev.Placeholders {
		if _, ok := active[name]; ok {
			settings.Placeholders[name] = value
		}
	}
	for name, value := range newPlaceholders {
		settings.Placeholders[name] = value
	}

	for i := range out {
		f := &out[i]
		if _, ok := doc.Node(f.NodeID); !ok {
			continue
		}
		key := EncodeFieldKey(f.NodeID, f.InputName, f.Order)
		if value, ok := resolveStoredValue(f, key, newFields, prev, settings.Placeholders); ok {
			settings.Fields[key] = value
		}
	}

	return &ReconcileResult{Settings: settings, Fields: out, Document: doc}, nil
}

// resolveStoredValue выбирает значение для ключа хранения по цепочке
// поставщиков. Каждый поставщик чистый; первый давший значение
// выигрывает.
func resolveStoredValue(f *domain.Field, key string, newFields map[string]domain.Scalar, prev domain.Settings, placeholders map[string]domain.Scalar) (domain.Scalar, bool) {
	providers := []func() (domain.Scalar, bool){
		// Свежее значение этого сохранения.
		func() (domain.Scalar, bool) {
			value, ok := newFields[key]
			return value, ok
		},
		// Прежнее значение той же пары (нода, вход) под любым порядком.
		func() (domain.Scalar, bool) {
			return lookupPrior(prev.Fields, f.NodeID, f.InputName)
		},
		// Значение по умолчанию привязанного плейсхолдера.
		func() (domain.Scalar, bool) {
			if f.Placeholder == "" {
				return domain.Scalar{}, false
			}
			value, ok := placeholders[f.Placeholder]
			return value, ok
		},
		// Коэрция текущего текста поля.
		func() (domain.Scalar, bool) {
			value, err := CoerceString(f.TextValue, f.Type)
			return value, err == nil
		},
	}

	for _, provide := range providers {
		if value, ok := provide(); ok {
			return value, true
		}
	}
	return domain.Scalar{}, false
}

// lookupPrior ищет прежнее значение пары (нода, вход) среди сохранённых
// ключей независимо от закодированного порядка. Ключи перебираются в
// лексикографическом порядке для детерминизма.
func lookupPrior(stored map[string]domain.Scalar, nodeID, inputName string) (domain.Scalar, bool) {
	want := FieldKey{NodeID: nodeID, InputName: inputName}
	for _, key := range sortedKeys(stored) {
		if DecodeFieldKey(key).SameIdentity(want) {
			return stored[key], true
		}
	}
	return domain.Scalar{}, false
}

// normalizeNodeOrders выравнивает порядок внутри каждой ноды: первое
// поле ноды задаёт порядок всем остальным её полям.
func normalizeNodeOrders(fields []domain.Field) {
	nodeOrders := make(map[string]int)
	for i := range fields {
		order, ok := nodeOrders[fields[i].NodeID]
		if !ok {
			order = normalizeOrder(fields[i].Order, len(nodeOrders)+1)
			nodeOrders[fields[i].NodeID] = order
		}
		fields[i].Order = order
	}
}

// duplicateOrders возвращает отсортированный список порядков,
// занятых более чем одной нодой.
func duplicateOrders(fields []domain.Field) []int {
	owners := make(map[int]map[string]struct{})
	for i := range fields {
		if owners[fields[i].Order] == nil {
			owners[fields[i].Order] = make(map[string]struct{})
		}
		owners[fields[i].Order][fields[i].NodeID] = struct{}{}
	}

	var dups []int
	for order, nodes := range owners {
		if len(nodes) > 1 {
			dups = append(dups, order)
		}
	}
	sort.Ints(dups)
	return dups
}

// renumberNodes присваивает нодам последовательные порядки в порядке
// их следования в отсортированном списке полей.
func renumberNodes(fields []domain.Field) {
	assigned := make(map[string]int)
	next := 0
	for i := range fields {
		order, ok := assigned[fields[i].NodeID]
		if !ok {
			next++
			order = domain.ClampOrder(next)
			assigned[fields[i].NodeID] = order
		}
		fields[i].Order = order
	}
}

// joinInts печатает список порядков через запятую.
func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
