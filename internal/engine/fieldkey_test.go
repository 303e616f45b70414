package engine

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/shaiso/stencil/internal/domain"
)

func TestEncodeFieldKey(t *testing.T) {
	tests := []struct {
		name      string
		nodeID    string
		inputName string
		order     int
		want      string
	}{
		{name: "with order", nodeID: "3", inputName: "seed", order: 1, want: "1!3|seed"},
		{name: "without order", nodeID: "3", inputName: "seed", order: 0, want: "3|seed"},
		{name: "order clamped high", nodeID: "7", inputName: "steps", order: 150, want: "99!7|steps"},
		{name: "order clamped low", nodeID: "7", inputName: "steps", order: -5, want: "1!7|steps"},
		{name: "max order", nodeID: "12", inputName: "cfg", order: 99, want: "99!12|cfg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeFieldKey(tt.nodeID, tt.inputName, tt.order)
			if got != tt.want {
				t.Errorf("EncodeFieldKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeFieldKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want FieldKey
	}{
		{name: "with order", key: "1!3|seed", want: FieldKey{Order: 1, NodeID: "3", InputName: "seed"}},
		{name: "without order", key: "3|seed", want: FieldKey{NodeID: "3", InputName: "seed"}},
		{name: "invalid order prefix", key: "x!3|seed", want: FieldKey{NodeID: "3", InputName: "seed"}},
		{name: "no field separator", key: "garbage", want: FieldKey{}},
		{name: "empty", key: "", want: FieldKey{}},
		{name: "input with extra separator", key: "2!9|a|b", want: FieldKey{Order: 2, NodeID: "9", InputName: "a|b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeFieldKey(tt.key)
			if got != tt.want {
				t.Errorf("DecodeFieldKey(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestFieldKeySameIdentity(t *testing.T) {
	a := DecodeFieldKey("1!3|seed")
	b := DecodeFieldKey("42!3|seed")
	c := DecodeFieldKey("1!3|steps")

	if !a.SameIdentity(b) {
		t.Error("keys with same node and input must share identity regardless of order")
	}
	if a.SameIdentity(c) {
		t.Error("keys with different inputs must not share identity")
	}
}

func TestFieldKeyRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("decode inverts encode", prop.ForAll(
		func(nodeID, inputName string, order int) bool {
			parsed := DecodeFieldKey(EncodeFieldKey(nodeID, inputName, order))
			return parsed.NodeID == nodeID &&
				parsed.InputName == inputName &&
				parsed.Order == domain.ClampOrder(order)
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.IntRange(domain.FieldOrderMin, domain.FieldOrderMax),
	))

	properties.Property("absent order survives round-trip", prop.ForAll(
		func(nodeID, inputName string) bool {
			parsed := DecodeFieldKey(EncodeFieldKey(nodeID, inputName, 0))
			return parsed.NodeID == nodeID && parsed.InputName == inputName && parsed.Order == 0
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
