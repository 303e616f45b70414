package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shaiso/stencil/internal/domain"
)

func renderedInputs(t *testing.T, rendered []byte, nodeID string) map[string]any {
	t.Helper()
	var tree map[string]struct {
		Inputs map[string]any `json:"inputs"`
	}
	if err := json.Unmarshal(rendered, &tree); err != nil {
		t.Fatalf("rendered document is not valid JSON: %v", err)
	}
	return tree[nodeID].Inputs
}

func TestRenderDocument(t *testing.T) {
	doc := mustParse(t, sampleDocument)

	settings := domain.NewSettings()
	settings.Placeholders["prompt"] = domain.StringValue("a cat")

	rendered, err := RenderDocument(doc, nil, settings, DefaultCatalog())
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	inputs := renderedInputs(t, rendered, "6")
	if got := inputs["text"]; got != "a cat" {
		t.Errorf("text = %v, want a cat", got)
	}
}

func TestRenderDocumentOverridesWin(t *testing.T) {
	doc := mustParse(t, sampleDocument)

	settings := domain.NewSettings()
	settings.Placeholders["prompt"] = domain.StringValue("a cat")

	overrides := map[string]domain.Scalar{"prompt": domain.StringValue("a dog")}
	rendered, err := RenderDocument(doc, overrides, settings, DefaultCatalog())
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	if got := renderedInputs(t, rendered, "6")["text"]; got != "a dog" {
		t.Errorf("text = %v, want override value", got)
	}
}

func TestRenderDocumentEscapesStrings(t *testing.T) {
	doc := mustParse(t, sampleDocument)

	settings := domain.NewSettings()
	settings.Placeholders["prompt"] = domain.StringValue(`a "quoted" \ prompt` + "\nsecond line")

	rendered, err := RenderDocument(doc, nil, settings, DefaultCatalog())
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	if got := renderedInputs(t, rendered, "6")["text"]; got != `a "quoted" \ prompt`+"\nsecond line" {
		t.Errorf("text = %q, escaping corrupted the value", got)
	}
}

func TestRenderDocumentAbsentValueBecomesEmpty(t *testing.T) {
	doc := mustParse(t, sampleDocument)

	rendered, err := RenderDocument(doc, nil, domain.NewSettings(), DefaultCatalog())
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	if got := renderedInputs(t, rendered, "6")["text"]; got != "" {
		t.Errorf("text = %v, want empty string for absent value", got)
	}
}

func TestRenderDocumentLongerNamesFirst(t *testing.T) {
	raw := `{
	  "1": {"class_type": "Resize", "inputs": {"w": "%width%", "w2": "%width2%"}}
	}`
	doc := mustParse(t, raw)

	catalog := NewCatalog([]string{"width", "width2"})
	overrides := map[string]domain.Scalar{
		"width":  domain.IntValue(512),
		"width2": domain.IntValue(768),
	}

	rendered, err := RenderDocument(doc, overrides, domain.NewSettings(), catalog)
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	inputs := renderedInputs(t, rendered, "1")
	if got := inputs["w"]; got != "512" {
		t.Errorf("w = %v, want 512", got)
	}
	if got := inputs["w2"]; got != "768" {
		t.Errorf("w2 = %v, want 768: short name must not eat the long token", got)
	}
}

func TestRenderDocumentUnknownNamesUntouched(t *testing.T) {
	raw := `{
	  "1": {"class_type": "Note", "inputs": {"text": "keep %custom% as is"}}
	}`
	doc := mustParse(t, raw)

	rendered, err := RenderDocument(doc, nil, domain.NewSettings(), NewCatalog([]string{"prompt"}))
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	if got := renderedInputs(t, rendered, "1")["text"]; got != "keep %custom% as is" {
		t.Errorf("text = %v, token outside catalog must stay literal", got)
	}
}

func TestRenderDocumentReplacementKeyOutsideCatalog(t *testing.T) {
	raw := `{
	  "1": {"class_type": "Note", "inputs": {"text": "%custom%"}}
	}`
	doc := mustParse(t, raw)

	overrides := map[string]domain.Scalar{"custom": domain.StringValue("value")}
	rendered, err := RenderDocument(doc, overrides, domain.NewSettings(), NewCatalog(nil))
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}

	if got := renderedInputs(t, rendered, "1")["text"]; got != "value" {
		t.Errorf("text = %v, replacement keys extend the candidate set", got)
	}
}

func TestRenderErrorMessage(t *testing.T) {
	err := &RenderError{Err: json.Unmarshal([]byte(`{`), &struct{}{})}
	if !strings.Contains(err.Error(), "not valid JSON") {
		t.Errorf("unexpected message: %v", err)
	}
}
