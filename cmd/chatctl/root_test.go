package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"chatctl/internal/config"
	"chatctl/internal/session"
)

func TestResolveConfigFlagOverridesFile(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "cfg.yaml")
	if err := os.WriteFile(p, []byte("models_dir: /from-file\nmax_tokens: 99\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	opts := &options{configPath: p, modelsDir: "/from-flag", publishEvery: 2}
	cfg, err := resolveConfig(opts)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.ModelsDir != "/from-flag" {
		t.Fatalf("flag must override file, got %q", cfg.ModelsDir)
	}
	if cfg.MaxTokens != 99 || cfg.PublishEvery != 2 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Temperature != config.DefaultTemperature {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestResolveConfigNoFile(t *testing.T) {
	cfg, err := resolveConfig(&options{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.MaxTokens != config.DefaultMaxTokens || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestRendererStreamsSuffixes(t *testing.T) {
	var out, aux bytes.Buffer
	r := newRenderer(&out, &aux)

	r.apply(session.RunningUpdate(true))
	r.apply(session.OutputUpdate(""))
	r.apply(session.OutputUpdate("Take a"))
	r.apply(session.OutputUpdate("Take a breath"))
	r.apply(session.StatusUpdate("Tokens/second: 12.50"))
	r.apply(session.RunningUpdate(false))

	if got := out.String(); got != "Take a breath" {
		t.Fatalf("streamed output %q", got)
	}
	if got := aux.String(); got != "[Tokens/second: 12.50]\n" {
		t.Fatalf("status output %q", got)
	}
	select {
	case <-r.done:
	default:
		t.Fatalf("expected idle signal after Running=false")
	}
}

func TestRendererRewritesOnRerender(t *testing.T) {
	var out, aux bytes.Buffer
	r := newRenderer(&out, &aux)
	r.apply(session.RunningUpdate(true))
	r.apply(session.OutputUpdate("he l"))
	// sub-word merge re-rendered the earlier text
	r.apply(session.OutputUpdate("hello"))
	if got := out.String(); got != "he l\nhello" {
		t.Fatalf("rerender output %q", got)
	}
}
