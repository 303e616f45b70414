package engine

import (
	"errors"
	"testing"
)

func TestCatalogAddRemove(t *testing.T) {
	catalog := NewCatalog([]string{"prompt", "seed"})

	if err := catalog.Add("lora"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !catalog.Contains("lora") {
		t.Error("added name must be in the catalog")
	}

	if err := catalog.Add("prompt"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate add error = %v, want ErrDuplicateName", err)
	}
	if err := catalog.Add("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank add error = %v, want ErrEmptyName", err)
	}

	if err := catalog.Remove("seed"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if catalog.Contains("seed") {
		t.Error("removed name must leave the catalog")
	}
	if err := catalog.Remove("seed"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("missing remove error = %v, want ErrUnknownName", err)
	}
}

func TestCatalogNamesSorted(t *testing.T) {
	catalog := NewCatalog([]string{"Zebra", "alpha", "Beta"})

	want := []string{"alpha", "Beta", "Zebra"}
	got := catalog.Names()
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q (case-insensitive sort)", i, got[i], want[i])
		}
	}
}

func TestNewCatalogDropsBlankAndDuplicates(t *testing.T) {
	catalog := NewCatalog([]string{"prompt", "", "  ", "prompt", "seed"})
	if catalog.Len() != 2 {
		t.Errorf("len = %d, want 2", catalog.Len())
	}
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		in     string
		name   string
		wantOK bool
	}{
		{in: "%prompt%", name: "prompt", wantOK: true},
		{in: "%%prompt%%", name: "prompt", wantOK: true},
		{in: "prompt", wantOK: false},
		{in: "%prompt", wantOK: false},
		{in: "prompt%", wantOK: false},
		{in: "%%", wantOK: false},
		{in: "%", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		name, ok := parseToken(tt.in)
		if ok != tt.wantOK || name != tt.name {
			t.Errorf("parseToken(%q) = %q, %v; want %q, %v", tt.in, name, ok, tt.name, tt.wantOK)
		}
	}
}
