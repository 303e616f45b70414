package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/stencil/internal/domain"
)

func extractSample(t *testing.T, settings domain.Settings) (*Document, []domain.Field) {
	t.Helper()
	doc := mustParse(t, sampleDocument)
	return doc, ExtractFields(doc, settings, DefaultCatalog())
}

func fieldIndex(t *testing.T, fields []domain.Field, nodeID, inputName string) int {
	t.Helper()
	for i := range fields {
		if fields[i].NodeID == nodeID && fields[i].InputName == inputName {
			return i
		}
	}
	t.Fatalf("field %s/%s not found", nodeID, inputName)
	return -1
}

func TestReconcileDuplicateOrder(t *testing.T) {
	doc, fields := extractSample(t, domain.NewSettings())

	// Две разные ноды получают одинаковый порядок.
	for i := range fields {
		if fields[i].NodeID == "3" || fields[i].NodeID == "6" {
			fields[i].Order = 3
		}
	}

	result, errs := Reconcile(doc, fields, domain.NewSettings())
	if result != nil {
		t.Fatal("conflicting save must not produce a result")
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly one", errs)
	}

	var vErr *ValidationError
	if !errors.As(errs[0], &vErr) {
		t.Fatalf("error = %T, want *ValidationError", errs[0])
	}
	if !errors.Is(errs[0], ErrDuplicateOrder) {
		t.Errorf("error must wrap ErrDuplicateOrder, got %v", errs[0])
	}
}

func TestReconcileCoercionErrorsCollected(t *testing.T) {
	doc, fields := extractSample(t, domain.NewSettings())

	fields[fieldIndex(t, fields, "3", "seed")].TextValue = "abc"
	fields[fieldIndex(t, fields, "3", "steps")].TextValue = "3.5"

	result, errs := Reconcile(doc, fields, domain.NewSettings())
	if result != nil {
		t.Fatal("save with bad values must not produce a result")
	}
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want both bad fields reported", errs)
	}
	for _, err := range errs {
		var fErr *FieldError
		if !errors.As(err, &fErr) {
			t.Errorf("error = %T, want *FieldError", err)
		}
		var pErr *ParseError
		if !errors.As(err, &pErr) {
			t.Errorf("error must wrap *ParseError, got %v", err)
		}
	}
}

func TestReconcileBindsPlaceholder(t *testing.T) {
	doc, fields := extractSample(t, domain.NewSettings())

	catalog := DefaultCatalog()
	idx := fieldIndex(t, fields, "3", "steps")
	fields, err := BindPlaceholder(fields, idx, "steps", catalog)
	if err != nil {
		t.Fatalf("BindPlaceholder: %v", err)
	}

	result, errs := Reconcile(doc, fields, domain.NewSettings())
	if len(errs) > 0 {
		t.Fatalf("Reconcile: %v", errs)
	}

	// Документ получает токен, настройки — типизированное значение
	// по умолчанию под обоими ключами.
	node, _ := result.Document.Node("3")
	for _, input := range node.Inputs {
		if input.Name == "steps" && input.Value != domain.StringValue("%steps%") {
			t.Errorf("steps input = %+v, want token", input.Value)
		}
	}
	if got := result.Settings.Placeholders["steps"]; got != domain.IntValue(20) {
		t.Errorf("placeholder default = %+v, want int 20", got)
	}
	if got := result.Settings.Fields["1!3|steps"]; got != domain.IntValue(20) {
		t.Errorf("field value = %+v, want int 20", got)
	}
}

func TestReconcileValueSurvivesReorder(t *testing.T) {
	doc, fields := extractSample(t, domain.NewSettings())

	// Прежнее значение сохранено под порядком 2; нода переезжает на 1.
	prev := domain.NewSettings()
	prev.Fields["2!9|filename_prefix"] = domain.StringValue("archived")

	idx := fieldIndex(t, fields, "9", "filename_prefix")
	var err error
	fields, err = SetNodeOrder(fields, idx, 1)
	if err != nil {
		t.Fatalf("SetNodeOrder: %v", err)
	}
	for i := range fields {
		if fields[i].NodeID == "3" {
			fields[i].Order = 2
		}
		if fields[i].NodeID == "6" {
			fields[i].Order = 3
		}
	}

	result, errs := Reconcile(doc, fields, prev)
	if len(errs) > 0 {
		t.Fatalf("Reconcile: %v", errs)
	}

	// Нода 9 стала первой: значение переезжает под новый ключ,
	// старый ключ в снимок не попадает.
	if got := result.Settings.Fields["1!9|filename_prefix"]; got != domain.StringValue("output") {
		t.Errorf("field value = %+v, want current value under the new key", got)
	}
	if _, ok := result.Settings.Fields["2!9|filename_prefix"]; ok {
		t.Error("old key must not leak into the new snapshot")
	}
}

func TestReconcilePriorValueFoundByIdentity(t *testing.T) {
	doc, fields := extractSample(t, domain.NewSettings())

	prev := domain.NewSettings()
	prev.Fields["7!6|text"] = domain.StringValue("a fox")

	result, errs := Reconcile(doc, fields, prev)
	if len(errs) > 0 {
		t.Fatalf("Reconcile: %v", errs)
	}

	// Привязанное поле без свежего значения наследует прежнее значение
	// пары (нода, вход), каким бы ни был закодированный порядок.
	if got := result.Settings.Fields["2!6|text"]; got != domain.StringValue("a fox") {
		t.Errorf("field value = %+v, want prior value found by identity", got)
	}
}

func TestReconcilePrunesStalePlaceholders(t *testing.T) {
	doc, fields := extractSample(t, domain.NewSettings())

	prev := domain.NewSettings()
	prev.Placeholders["prompt"] = domain.StringValue("a cat")
	prev.Placeholders["lora"] = domain.StringValue("style.safetensors")

	result, errs := Reconcile(doc, fields, prev)
	if len(errs) > 0 {
		t.Fatalf("Reconcile: %v", errs)
	}

	if _, ok := result.Settings.Placeholders["prompt"]; !ok {
		t.Error("active placeholder must survive the save")
	}
	if _, ok := result.Settings.Placeholders["lora"]; ok {
		t.Error("placeholder with no bound field must be dropped")
	}
}

func TestReconcileRenumbersSequentially(t *testing.T) {
	doc, fields := extractSample(t, domain.NewSettings())

	// Разреженные порядки 5 и 40 сводятся к 1..N с сохранением
	// относительного порядка.
	for i := range fields {
		switch fields[i].NodeID {
		case "3":
			fields[i].Order = 40
		case "6":
			fields[i].Order = 5
		case "9":
			fields[i].Order = 12
		}
	}

	result, errs := Reconcile(doc, fields, domain.NewSettings())
	if len(errs) > 0 {
		t.Fatalf("Reconcile: %v", errs)
	}

	wantOrders := map[string]int{"6": 1, "9": 2, "3": 3}
	for _, f := range result.Fields {
		if f.Order != wantOrders[f.NodeID] {
			t.Errorf("node %s order = %d, want %d", f.NodeID, f.Order, wantOrders[f.NodeID])
		}
	}
}

func TestReconcileMissingNodeSkipped(t *testing.T) {
	doc, fields := extractSample(t, domain.NewSettings())

	fields = append(fields, domain.Field{
		NodeID:    "404",
		InputName: "ghost",
		Type:      domain.ValueString,
		TextValue: "boo",
		Order:     50,
	})

	result, errs := Reconcile(doc, fields, domain.NewSettings())
	if len(errs) > 0 {
		t.Fatalf("Reconcile: %v", errs)
	}
	for key := range result.Settings.Fields {
		if DecodeFieldKey(key).NodeID == "404" {
			t.Errorf("vanished node must not be persisted, got key %q", key)
		}
	}
}
