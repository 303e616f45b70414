package domain

import (
	"encoding/json"
	"testing"
)

func TestSettingsPersistentForm(t *testing.T) {
	s := NewSettings()
	s.Placeholders["prompt"] = StringValue("a cat")
	s.Placeholders["steps"] = IntValue(20)
	s.Fields["1!3|seed"] = IntValue(42)
	s.Fields["2!3|denoise"] = FloatValue(1.0)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if _, ok := payload[FieldsKey]; !ok {
		t.Fatalf("persistent form has no %q key: %s", FieldsKey, data)
	}
	if string(payload["steps"]) != "20" {
		t.Errorf("steps = %s, want 20", payload["steps"])
	}

	var got Settings
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal settings: %v", err)
	}

	if got.Placeholders["prompt"] != StringValue("a cat") {
		t.Errorf("prompt = %+v", got.Placeholders["prompt"])
	}
	if got.Fields["2!3|denoise"] != FloatValue(1.0) {
		t.Errorf("denoise = %+v, want float 1.0", got.Fields["2!3|denoise"])
	}
}

func TestSettingsUnmarshalSkipsNonScalars(t *testing.T) {
	raw := `{
		"prompt": "a cat",
		"flag": true,
		"list": [1, 2],
		"__fields": {"1!3|seed": 42, "1!3|bad": null}
	}`

	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(s.Placeholders) != 1 {
		t.Errorf("placeholders = %+v, want only prompt", s.Placeholders)
	}
	if len(s.Fields) != 1 {
		t.Errorf("fields = %+v, want only seed", s.Fields)
	}
	if s.Fields["1!3|seed"] != IntValue(42) {
		t.Errorf("seed = %+v", s.Fields["1!3|seed"])
	}
}

func TestSettingsCloneIsDeep(t *testing.T) {
	s := NewSettings()
	s.Placeholders["prompt"] = StringValue("a cat")

	c := s.Clone()
	c.Placeholders["prompt"] = StringValue("a dog")

	if s.Placeholders["prompt"] != StringValue("a cat") {
		t.Error("clone shares placeholder map with original")
	}
}

func TestStyleApply(t *testing.T) {
	tests := []struct {
		name   string
		style  Style
		prompt string
		want   string
	}{
		{"empty style", Style{}, "a cat", "a cat"},
		{"pre only", Style{Pre: "masterpiece"}, "a cat", "masterpiece a cat"},
		{"post only", Style{Post: "4k"}, "a cat", "a cat, 4k"},
		{"both", Style{Pre: "masterpiece", Post: "4k"}, "a cat", "masterpiece a cat, 4k"},
		{"whitespace trimmed", Style{Pre: "  ", Post: " 4k "}, " a cat ", "a cat, 4k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style.Apply(tt.prompt); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}
