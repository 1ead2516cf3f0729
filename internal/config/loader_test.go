package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "models_dir: /m\nmodel: tiny.gguf\nmax_tokens: 64\npublish_every: 2\ntemperature: 0.5\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelsDir != "/m" || cfg.Model != "tiny.gguf" || cfg.MaxTokens != 64 || cfg.PublishEvery != 2 || cfg.Temperature != 0.5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"models_dir":"/j","model":"phi.gguf","max_tokens":32,"end_marker":"<end>"}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelsDir != "/j" || cfg.Model != "phi.gguf" || cfg.MaxTokens != 32 || cfg.EndMarker != "<end>" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "models_dir=\"/t\"\nmodel=\"m.gguf\"\ncontext_size=4096\nthreads=8\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelsDir != "/t" || cfg.Model != "m.gguf" || cfg.ContextSize != 4096 || cfg.Threads != 8 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	bad := writeTempFile(t, d, "bad.json", "{")
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}.ApplyDefaults()
	if cfg.MaxTokens != DefaultMaxTokens {
		t.Fatalf("max tokens default: %d", cfg.MaxTokens)
	}
	if cfg.PublishEvery != DefaultPublishEvery {
		t.Fatalf("publish every default: %d", cfg.PublishEvery)
	}
	if cfg.ModelsDir != DefaultModelsDir || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	// explicit values survive
	set := Config{MaxTokens: 5, PublishEvery: 1, Temperature: 0.1}.ApplyDefaults()
	if set.MaxTokens != 5 || set.PublishEvery != 1 || set.Temperature != 0.1 {
		t.Fatalf("defaults clobbered explicit values: %+v", set)
	}
}
