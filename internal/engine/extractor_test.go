package engine

import (
	"testing"

	"github.com/shaiso/stencil/internal/domain"
)

func mustParse(t *testing.T, raw string) *Document {
	t.Helper()
	doc, err := ParseDocument([]byte(raw))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func TestExtractFields(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	fields := ExtractFields(doc, domain.NewSettings(), DefaultCatalog())

	// 4 скалярных входа ноды 3, текст ноды 6, префикс ноды 9.
	if len(fields) != 6 {
		t.Fatalf("fields = %d, want 6: %+v", len(fields), fields)
	}

	seed := fields[0]
	if seed.NodeID != "3" || seed.InputName != "seed" {
		t.Fatalf("first field = %+v, want node 3 seed", seed)
	}
	if seed.Type != domain.ValueInt {
		t.Errorf("seed type = %s, want int", seed.Type)
	}
	if seed.Order != 1 {
		t.Errorf("seed order = %d, want 1", seed.Order)
	}
	if !seed.IsPrimary || seed.DisplayTitle != "Sampler" {
		t.Errorf("first node field must be primary with title, got %+v", seed)
	}
	if seed.StoredValue != "42" || seed.TextValue != "42" {
		t.Errorf("seed values = %q/%q, want 42/42", seed.StoredValue, seed.TextValue)
	}

	// Остальные поля ноды не дублируют имя.
	if fields[1].IsPrimary || fields[1].DisplayTitle != "" {
		t.Errorf("secondary field must not carry title: %+v", fields[1])
	}

	// Дробный литерал с нулевой дробной частью остаётся float.
	var denoise domain.Field
	for _, f := range fields {
		if f.InputName == "denoise" {
			denoise = f
		}
	}
	if denoise.Type != domain.ValueFloat {
		t.Errorf("denoise type = %s, want float", denoise.Type)
	}
	if denoise.TextValue != "1.0" {
		t.Errorf("denoise text = %q, want 1.0", denoise.TextValue)
	}

	// Токен %prompt% из каталога привязывает поле.
	var text domain.Field
	for _, f := range fields {
		if f.NodeID == "6" && f.InputName == "text" {
			text = f
		}
	}
	if text.Placeholder != "prompt" {
		t.Fatalf("text placeholder = %q, want prompt", text.Placeholder)
	}
	if text.TextValue != "%prompt%" {
		t.Errorf("bound field text = %q, want %%prompt%%", text.TextValue)
	}
	if text.StoredValue != "" {
		t.Errorf("bound field without default must have empty stored value, got %q", text.StoredValue)
	}
	if text.Order != 2 {
		t.Errorf("node 6 order = %d, want 2", text.Order)
	}
}

func TestExtractFieldsTokenOutsideCatalog(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	catalog := NewCatalog([]string{"seed"})

	fields := ExtractFields(doc, domain.NewSettings(), catalog)
	for _, f := range fields {
		if f.NodeID == "6" && f.InputName == "text" {
			if f.Placeholder != "" {
				t.Errorf("token outside catalog must stay literal, got placeholder %q", f.Placeholder)
			}
			if f.TextValue != "%prompt%" {
				t.Errorf("literal text = %q, want raw token text", f.TextValue)
			}
			return
		}
	}
	t.Fatal("text field not found")
}

func TestExtractFieldsUsesStoredOrderAndValues(t *testing.T) {
	doc := mustParse(t, sampleDocument)

	settings := domain.NewSettings()
	settings.Fields["1!6|text"] = domain.StringValue("a cat")
	settings.Fields["2!3|steps"] = domain.IntValue(25)
	settings.Placeholders["prompt"] = domain.StringValue("a dog")

	fields := ExtractFields(doc, settings, DefaultCatalog())

	// Нода 6 сохранена с порядком 1 и встаёт раньше ноды 3.
	if fields[0].NodeID != "6" {
		t.Fatalf("first node = %s, want 6", fields[0].NodeID)
	}
	if fields[0].Order != 1 {
		t.Errorf("node 6 order = %d, want 1", fields[0].Order)
	}

	// Привязанное поле показывает токен, но помнит значение плейсхолдера.
	if fields[0].Placeholder != "prompt" || fields[0].TextValue != "%prompt%" {
		t.Fatalf("bound field = %+v", fields[0])
	}
	if fields[0].StoredValue != "a dog" {
		t.Errorf("stored value = %q, want placeholder default", fields[0].StoredValue)
	}

	// Непривязанное поле подхватывает сохранённое значение по паре
	// (нода, вход) независимо от закодированного порядка.
	for _, f := range fields {
		if f.NodeID == "3" && f.InputName == "steps" {
			if f.StoredValue != "25" || f.TextValue != "25" {
				t.Errorf("steps = %q/%q, want stored 25", f.StoredValue, f.TextValue)
			}
			if f.Order != 2 {
				t.Errorf("node 3 order = %d, want 2", f.Order)
			}
		}
	}

	// Нода без сохранённого порядка идёт следом за сохранёнными.
	for _, f := range fields {
		if f.NodeID == "9" && f.Order != 3 {
			t.Errorf("node 9 order = %d, want 3", f.Order)
		}
	}
}

func TestExtractFieldsEmptyDocument(t *testing.T) {
	doc := mustParse(t, `{}`)
	fields := ExtractFields(doc, domain.NewSettings(), DefaultCatalog())
	if len(fields) != 0 {
		t.Errorf("fields = %+v, want none", fields)
	}
}

func TestExtractFieldsIdempotent(t *testing.T) {
	doc := mustParse(t, sampleDocument)
	settings := domain.NewSettings()
	catalog := DefaultCatalog()

	first := ExtractFields(doc, settings, catalog)

	result, errs := Reconcile(doc, first, settings)
	if len(errs) > 0 {
		t.Fatalf("Reconcile: %v", errs)
	}

	second := ExtractFields(result.Document, result.Settings, catalog)
	if len(second) != len(first) {
		t.Fatalf("field count changed: %d → %d", len(first), len(second))
	}
	for i := range second {
		if second[i].NodeID != first[i].NodeID ||
			second[i].InputName != first[i].InputName ||
			second[i].Order != first[i].Order ||
			second[i].Placeholder != first[i].Placeholder ||
			second[i].TextValue != first[i].TextValue {
			t.Errorf("field %d changed after save: %+v → %+v", i, first[i], second[i])
		}
	}
}
