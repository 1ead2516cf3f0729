package registry

import (
	"os"
	"path/filepath"
	"testing"

	"chatctl/pkg/types"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDirFiltersGGUF(t *testing.T) {
	d := t.TempDir()
	touch(t, d, "tinyllama.Q4_K_M.gguf")
	touch(t, d, "notes.txt")
	touch(t, d, "phi-2.Q8_0.GGUF")
	if err := os.Mkdir(filepath.Join(d, "sub.gguf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	models, err := LoadDir(d)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d: %+v", len(models), models)
	}
	for _, m := range models {
		if m.ID == "" || m.Path == "" {
			t.Fatalf("incomplete model entry: %+v", m)
		}
		if !filepath.IsAbs(m.Path) {
			t.Fatalf("expected absolute path, got %s", m.Path)
		}
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestResolve(t *testing.T) {
	models := []types.Model{{ID: "a.gguf"}, {ID: "b.gguf"}}
	m, err := Resolve(models, "b.gguf")
	if err != nil || m.ID != "b.gguf" {
		t.Fatalf("resolve by id: %v %+v", err, m)
	}
	if _, err := Resolve(models, "c.gguf"); err == nil {
		t.Fatalf("expected not-found error")
	}
	if _, err := Resolve(models, ""); err == nil {
		t.Fatalf("expected ambiguity error with 2 models")
	}
	only := models[:1]
	m, err = Resolve(only, "")
	if err != nil || m.ID != "a.gguf" {
		t.Fatalf("resolve sole model: %v %+v", err, m)
	}
}

func TestQuantFromName(t *testing.T) {
	if q := quantFromName("tinyllama.Q4_K_M.gguf"); q != "Q4_K_M" {
		t.Fatalf("got %q", q)
	}
	if q := quantFromName("plain.gguf"); q != "" {
		t.Fatalf("expected empty quant, got %q", q)
	}
}
