package engine

import (
	"testing"

	"github.com/shaiso/stencil/internal/domain"
)

func TestSetFieldValue(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	fields := ExtractFields(doc, domain.NewSettings(), DefaultCatalog())

	idx := fieldIndex(t, fields, "3", "steps")
	updated, err := SetFieldValue(fields, idx, "30")
	if err != nil {
		t.Fatalf("SetFieldValue: %v", err)
	}

	if updated[idx].TextValue != "30" || updated[idx].StoredValue != "30" {
		t.Errorf("field = %+v, want both values updated", updated[idx])
	}
	if fields[idx].TextValue != "20" {
		t.Error("source slice must stay untouched")
	}

	if _, err := SetFieldValue(fields, len(fields), "x"); err == nil {
		t.Error("expected error for out of range index")
	}
}

func TestSetFieldValueOnBoundField(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	fields := ExtractFields(doc, domain.NewSettings(), DefaultCatalog())

	idx := fieldIndex(t, fields, "6", "text")
	updated, err := SetFieldValue(fields, idx, "a cat")
	if err != nil {
		t.Fatalf("SetFieldValue: %v", err)
	}

	// Текст привязанного поля остаётся токеном, меняется только
	// будущее значение по умолчанию.
	if updated[idx].TextValue != "%prompt%" {
		t.Errorf("text = %q, want token", updated[idx].TextValue)
	}
	if updated[idx].StoredValue != "a cat" {
		t.Errorf("stored = %q, want a cat", updated[idx].StoredValue)
	}
}

func TestBindAndUnbindPlaceholder(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	catalog := DefaultCatalog()
	fields := ExtractFields(doc, domain.NewSettings(), catalog)

	idx := fieldIndex(t, fields, "3", "seed")
	bound, err := BindPlaceholder(fields, idx, "seed", catalog)
	if err != nil {
		t.Fatalf("BindPlaceholder: %v", err)
	}
	if bound[idx].Placeholder != "seed" || bound[idx].TextValue != "%seed%" {
		t.Fatalf("field = %+v, want bound to seed", bound[idx])
	}
	if bound[idx].StoredValue != "42" {
		t.Errorf("stored = %q, literal must be remembered", bound[idx].StoredValue)
	}

	// Пустое имя отвязывает и восстанавливает литерал.
	unbound, err := BindPlaceholder(bound, idx, "", catalog)
	if err != nil {
		t.Fatalf("BindPlaceholder unbind: %v", err)
	}
	if unbound[idx].Placeholder != "" || unbound[idx].TextValue != "42" {
		t.Errorf("field = %+v, want literal restored", unbound[idx])
	}

	if _, err := BindPlaceholder(fields, idx, "no_such_name", catalog); err != ErrUnknownName {
		t.Errorf("error = %v, want ErrUnknownName", err)
	}
}

func TestSetNodeOrderAppliesToWholeNode(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	fields := ExtractFields(doc, domain.NewSettings(), DefaultCatalog())

	idx := fieldIndex(t, fields, "3", "cfg")
	updated, err := SetNodeOrder(fields, idx, 150)
	if err != nil {
		t.Fatalf("SetNodeOrder: %v", err)
	}

	for _, f := range updated {
		if f.NodeID == "3" && f.Order != domain.FieldOrderMax {
			t.Errorf("field %s order = %d, want clamped to %d", f.InputName, f.Order, domain.FieldOrderMax)
		}
		if f.NodeID != "3" && f.Order == domain.FieldOrderMax {
			t.Errorf("other nodes must keep their order, got %+v", f)
		}
	}
}

func TestUnbindPlaceholderReleasesAllFields(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	fields := ExtractFields(doc, domain.NewSettings(), DefaultCatalog())

	// Привязка удаляемого имени есть у ноды 6.
	released := UnbindPlaceholder(fields, "prompt")
	for _, f := range released {
		if f.Placeholder == "prompt" {
			t.Errorf("field still bound: %+v", f)
		}
	}

	idx := fieldIndex(t, released, "6", "text")
	if released[idx].TextValue != released[idx].StoredValue {
		t.Errorf("unbound field must show its literal, got %+v", released[idx])
	}
}
