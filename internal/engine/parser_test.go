package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shaiso/stencil/internal/domain"
)

const sampleDocument = `{
  "3": {
    "class_type": "KSampler",
    "_meta": {"title": "Sampler"},
    "inputs": {
      "seed": 42,
      "steps": 20,
      "cfg": 7.5,
      "denoise": 1.0,
      "add_noise": true,
      "model": ["4", 0]
    }
  },
  "6": {
    "class_type": "CLIPTextEncode",
    "_meta": {"title": "Positive Prompt"},
    "inputs": {
      "text": "%prompt%",
      "clip": ["4", 1]
    }
  },
  "9": {
    "class_type": "SaveImage",
    "inputs": {
      "filename_prefix": "output",
      "images": ["8", 0]
    }
  }
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	nodes := doc.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(nodes))
	}

	wantIDs := []string{"3", "6", "9"}
	for i, id := range wantIDs {
		if nodes[i].ID != id {
			t.Errorf("node[%d].ID = %q, want %q", i, nodes[i].ID, id)
		}
	}

	sampler := nodes[0]
	if sampler.ClassType != "KSampler" {
		t.Errorf("ClassType = %q, want KSampler", sampler.ClassType)
	}
	if sampler.Title != "Sampler" {
		t.Errorf("Title = %q, want Sampler", sampler.Title)
	}

	// Булевы значения и соединения нод не являются скалярными входами.
	wantInputs := []domain.Input{
		{Name: "seed", Value: domain.IntValue(42)},
		{Name: "steps", Value: domain.IntValue(20)},
		{Name: "cfg", Value: domain.FloatValue(7.5)},
		{Name: "denoise", Value: domain.FloatValue(1)},
	}
	if len(sampler.Inputs) != len(wantInputs) {
		t.Fatalf("sampler inputs = %+v, want %+v", sampler.Inputs, wantInputs)
	}
	for i, want := range wantInputs {
		if sampler.Inputs[i] != want {
			t.Errorf("input[%d] = %+v, want %+v", i, sampler.Inputs[i], want)
		}
	}

	// Нода без _meta получает идентификатор вместо имени.
	save, ok := doc.Node("9")
	if !ok {
		t.Fatal("node 9 not found")
	}
	if save.Title != "9" {
		t.Errorf("Title = %q, want fallback to node id", save.Title)
	}
}

func TestParseDocumentNotObject(t *testing.T) {
	for _, raw := range []string{`[1, 2]`, `"text"`, `42`} {
		if _, err := ParseDocument([]byte(raw)); !errors.Is(err, ErrNotObject) {
			t.Errorf("ParseDocument(%s) error = %v, want ErrNotObject", raw, err)
		}
	}
}

func TestParseDocumentInvalidJSON(t *testing.T) {
	if _, err := ParseDocument([]byte(`{"3": `)); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestDocumentRoundTripKeepsLiterals(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	serialized, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	// Литерал 1.0 обязан остаться с точкой: тип поля выводится из него.
	if !bytes.Contains(serialized, []byte(`"denoise":1.0`)) {
		t.Errorf("serialized document lost float literal: %s", serialized)
	}
	if !bytes.Contains(serialized, []byte(`"steps":20`)) {
		t.Errorf("serialized document lost int literal: %s", serialized)
	}

	var probe map[string]any
	if err := json.Unmarshal(serialized, &probe); err != nil {
		t.Fatalf("round-trip produced invalid JSON: %v", err)
	}
}

func TestDocumentSetInput(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if err := doc.SetInput("3", "steps", domain.IntValue(30)); err != nil {
		t.Fatalf("SetInput: %v", err)
	}

	node, _ := doc.Node("3")
	var got domain.Scalar
	for _, input := range node.Inputs {
		if input.Name == "steps" {
			got = input.Value
		}
	}
	if got != domain.IntValue(30) {
		t.Errorf("steps = %+v, want 30", got)
	}

	serialized, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if !bytes.Contains(serialized, []byte(`"steps":30`)) {
		t.Errorf("document tree not updated: %s", serialized)
	}

	if err := doc.SetInput("404", "steps", domain.IntValue(1)); err == nil {
		t.Error("expected error for unknown node")
	}
}
