package worker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/stencil/internal/domain"
)

func TestCacheKeyDeterministic(t *testing.T) {
	cache, err := NewCache(t.TempDir(), "png")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	a := cache.Key("a cat", 512, 512)
	b := cache.Key("a cat", 512, 512)
	if a != b {
		t.Errorf("same request must give same key: %q != %q", a, b)
	}
	if !strings.HasSuffix(a, ".png") {
		t.Errorf("key = %q, want .png suffix", a)
	}
	if len(a) != 64+len(".png") {
		t.Errorf("key = %q, want sha256 hex name", a)
	}

	if cache.Key("a cat", 512, 768) == a {
		t.Error("different size must give different key")
	}
	if cache.Key("a dog", 512, 512) == a {
		t.Error("different prompt must give different key")
	}
}

func TestCacheStoreLookup(t *testing.T) {
	cache, err := NewCache(t.TempDir(), "png")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if _, ok := cache.Lookup("a cat", 512, 512); ok {
		t.Fatal("empty cache must miss")
	}

	path, err := cache.Store("a cat", 512, 512, []byte("imagebytes"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok := cache.Lookup("a cat", 512, 512)
	if !ok || got != path {
		t.Errorf("Lookup = %q, %v; want %q", got, ok, path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "imagebytes" {
		t.Errorf("cached file = %q, %v", data, err)
	}
}

func TestCacheSweep(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir, "png")
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	oldPath, err := cache.Store("old", 512, 512, []byte("x"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	freshPath, err := cache.Store("fresh", 512, 512, []byte("y"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	removed, err := cache.Sweep(time.Hour)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("stale file must be removed")
	}
	if _, err := os.Stat(filepath.Clean(freshPath)); err != nil {
		t.Error("fresh file must survive the sweep")
	}
}

func TestDimension(t *testing.T) {
	settings := domain.NewSettings()
	settings.Placeholders["width"] = domain.IntValue(768)
	settings.Placeholders["height"] = domain.StringValue("not a number")

	tests := []struct {
		name      string
		dim       string
		requested int
		want      int
	}{
		{name: "request wins", dim: "width", requested: 1024, want: 1024},
		{name: "settings fallback", dim: "width", requested: 0, want: 768},
		{name: "non-int setting ignored", dim: "height", requested: 0, want: defaultHeight},
		{name: "missing everywhere", dim: "depth", requested: 0, want: defaultHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dimension(settings, tt.dim, tt.requested, defaultHeight); got != tt.want {
				t.Errorf("dimension() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveSeed(t *testing.T) {
	fixed := int64(42)
	job := &domain.Job{Seed: &fixed}
	if got := resolveSeed(job); got != 42 {
		t.Errorf("seed = %d, want pinned 42", got)
	}

	random := &domain.Job{}
	if got := resolveSeed(random); got < 0 || got >= 1<<31 {
		t.Errorf("random seed = %d, want [0, 2^31)", got)
	}
}

func TestBuildOverrides(t *testing.T) {
	overrides := buildOverrides("a cat, masterpiece", 512, 768, 7)

	if overrides["prompt"] != domain.StringValue("a cat, masterpiece") {
		t.Errorf("prompt = %+v", overrides["prompt"])
	}
	if overrides["width"] != domain.IntValue(512) || overrides["height"] != domain.IntValue(768) {
		t.Errorf("size = %+v x %+v", overrides["width"], overrides["height"])
	}
	if overrides["seed"] != domain.IntValue(7) {
		t.Errorf("seed = %+v", overrides["seed"])
	}
}
