package engine

import (
	"fmt"

	"github.com/shaiso/stencil/internal/domain"
)

// Операции редактирования списка полей между извлечением и сохранением.
// Все операции копируют список: исходный срез не меняется.

// SetFieldValue обновляет значение поля по индексу.
//
// Для непривязанного поля меняются и текст, и сохранённое значение;
// для привязанного текст остаётся токеном, а значение становится новым
// значением по умолчанию плейсхолдера при сохранении.
func SetFieldValue(fields []domain.Field, index int, value string) ([]domain.Field, error) {
	out, err := copyFields(fields, index)
	if err != nil {
		return nil, err
	}

	f := &out[index]
	f.StoredValue = value
	if !f.IsBound() {
		f.TextValue = value
	}
	return out, nil
}

// BindPlaceholder привязывает поле к плейсхолдеру каталога.
//
// Литеральное значение поля запоминается в StoredValue и будет
// восстановлено при отвязке. Пустое имя отвязывает поле.
func BindPlaceholder(fields []domain.Field, index int, name string, catalog *Catalog) ([]domain.Field, error) {
	out, err := copyFields(fields, index)
	if err != nil {
		return nil, err
	}

	f := &out[index]
	if name == "" {
		unbindField(f)
		return out, nil
	}
	if !catalog.Contains(name) {
		return nil, ErrUnknownName
	}

	f.Placeholder = name
	f.TextValue = PlaceholderToken(name)
	if isToken(f.StoredValue) {
		f.StoredValue = ""
	}
	return out, nil
}

// SetNodeOrder выставляет порядок ноде поля index.
// Порядок общий для всех полей ноды и приводится к допустимому
// диапазону; конфликты с другими нодами выявляет Reconcile.
func SetNodeOrder(fields []domain.Field, index, order int) ([]domain.Field, error) {
	out, err := copyFields(fields, index)
	if err != nil {
		return nil, err
	}

	nodeID := out[index].NodeID
	clamped := domain.ClampOrder(order)
	for i := range out {
		if out[i].NodeID == nodeID {
			out[i].Order = clamped
		}
	}
	return out, nil
}

// UnbindPlaceholder отвязывает все поля, привязанные к имени.
// Вызывается при удалении плейсхолдера из каталога: поля возвращаются
// к последнему литеральному значению.
func UnbindPlaceholder(fields []domain.Field, name string) []domain.Field {
	out := make([]domain.Field, len(fields))
	copy(out, fields)

	for i := range out {
		if out[i].Placeholder == name {
			unbindField(&out[i])
		}
	}
	return out
}

// unbindField снимает привязку и восстанавливает литеральный текст.
func unbindField(f *domain.Field) {
	f.Placeholder = ""
	f.TextValue = f.StoredValue
}

// copyFields копирует список и проверяет индекс.
func copyFields(fields []domain.Field, index int) ([]domain.Field, error) {
	if index < 0 || index >= len(fields) {
		return nil, fmt.Errorf("field index %d out of range [0, %d)", index, len(fields))
	}
	out := make([]domain.Field, len(fields))
	copy(out, fields)
	return out, nil
}
