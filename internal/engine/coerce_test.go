package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/stencil/internal/domain"
)

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		typ     domain.ValueType
		want    domain.Scalar
		wantErr bool
	}{
		{name: "int", value: "42", typ: domain.ValueInt, want: domain.IntValue(42)},
		{name: "int with spaces", value: " 42 ", typ: domain.ValueInt, want: domain.IntValue(42)},
		{name: "negative int", value: "-7", typ: domain.ValueInt, want: domain.IntValue(-7)},
		{name: "float", value: "7.5", typ: domain.ValueFloat, want: domain.FloatValue(7.5)},
		{name: "integral float", value: "20.0", typ: domain.ValueFloat, want: domain.FloatValue(20)},
		{name: "int literal as float", value: "20", typ: domain.ValueFloat, want: domain.FloatValue(20)},
		{name: "string", value: "a cat", typ: domain.ValueString, want: domain.StringValue("a cat")},
		{name: "non-numeric int", value: "abc", typ: domain.ValueInt, wantErr: true},
		{name: "fractional int", value: "3.5", typ: domain.ValueInt, wantErr: true},
		{name: "empty int", value: "", typ: domain.ValueInt, wantErr: true},
		{name: "non-numeric float", value: "abc", typ: domain.ValueFloat, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceString(tt.value, tt.typ)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CoerceString(%q, %s) expected error, got %v", tt.value, tt.typ, got)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("error = %T, want *ParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceString(%q, %s): %v", tt.value, tt.typ, err)
			}
			if got != tt.want {
				t.Errorf("CoerceString(%q, %s) = %+v, want %+v", tt.value, tt.typ, got, tt.want)
			}
		})
	}
}

func TestCoerceScalar(t *testing.T) {
	tests := []struct {
		name    string
		value   domain.Scalar
		typ     domain.ValueType
		want    domain.Scalar
		wantErr bool
	}{
		{name: "int stays int", value: domain.IntValue(5), typ: domain.ValueInt, want: domain.IntValue(5)},
		{name: "integral float to int", value: domain.FloatValue(5), typ: domain.ValueInt, want: domain.IntValue(5)},
		{name: "fractional float to int", value: domain.FloatValue(5.5), typ: domain.ValueInt, wantErr: true},
		{name: "int to float", value: domain.IntValue(5), typ: domain.ValueFloat, want: domain.FloatValue(5)},
		{name: "string to int", value: domain.StringValue("12"), typ: domain.ValueInt, want: domain.IntValue(12)},
		{name: "int to string", value: domain.IntValue(12), typ: domain.ValueString, want: domain.StringValue("12")},
		{name: "float to string keeps point", value: domain.FloatValue(20), typ: domain.ValueString, want: domain.StringValue("20.0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceScalar(tt.value, tt.typ)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CoerceScalar(%+v, %s) expected error, got %v", tt.value, tt.typ, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceScalar(%+v, %s): %v", tt.value, tt.typ, err)
			}
			if got != tt.want {
				t.Errorf("CoerceScalar(%+v, %s) = %+v, want %+v", tt.value, tt.typ, got, tt.want)
			}
		})
	}
}
