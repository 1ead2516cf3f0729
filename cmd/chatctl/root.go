package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"chatctl/internal/config"
	"chatctl/internal/engine"
	"chatctl/internal/prompt"
	"chatctl/internal/registry"
	"chatctl/internal/session"
)

type options struct {
	configPath   string
	modelsDir    string
	model        string
	maxTokens    int
	publishEvery int
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "chatctl",
		Short:        "Local single-user text-generation sessions in the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&opts.configPath, "config", envOr("CHATCTL_CONFIG", ""), "Path to a yaml/json/toml config file")
	fl.StringVar(&opts.modelsDir, "models-dir", envOr("CHATCTL_MODELS_DIR", ""), "Directory to scan for *.gguf model files")
	fl.StringVar(&opts.model, "model", envOr("CHATCTL_MODEL", ""), "Model id (filename) to load")
	fl.IntVar(&opts.maxTokens, "max-tokens", 0, "Maximum tokens per reply (0=default)")
	fl.IntVar(&opts.publishEvery, "publish-every", 0, "Publish partial output every N tokens (0=default)")
	fl.StringVar(&opts.logLevel, "log-level", envOr("CHATCTL_LOG_LEVEL", ""), "Log level: debug|info|warn|error")
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// resolveConfig merges the optional config file with flag overrides and
// applies package defaults.
func resolveConfig(opts *options) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if opts.modelsDir != "" {
		cfg.ModelsDir = opts.modelsDir
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.maxTokens > 0 {
		cfg.MaxTokens = opts.maxTokens
	}
	if opts.publishEvery > 0 {
		cfg.PublishEvery = opts.publishEvery
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg.ApplyDefaults(), nil
}

func run(opts *options) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	models, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return fmt.Errorf("scan models: %w", err)
	}
	mdl, err := registry.Resolve(models, cfg.Model)
	if err != nil {
		return err
	}
	logger.Info().Str("model", mdl.ID).Str("path", mdl.Path).Msg("selected model")

	eng := engine.NewLlama(cfg.ContextSize, cfg.Threads)
	loader := session.NewLoader(eng, engine.LoadConfig{
		ModelPath:   mdl.Path,
		ContextSize: cfg.ContextSize,
		Threads:     cfg.Threads,
	}, cfg.CacheBudgetMB, logger)

	endMarker := cfg.EndMarker
	if endMarker == "" {
		endMarker = prompt.EndOfTurn
	}

	r := newRenderer(os.Stdout, os.Stderr)
	dispatcher := session.NewDispatcher(r.apply)
	defer dispatcher.Close()

	ctrl := session.NewController(loader, dispatcher, session.Config{
		Stop:         session.StopPolicy{MaxTokens: cfg.MaxTokens, EndMarker: endMarker},
		PublishEvery: cfg.PublishEvery,
		Params: engine.Params{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
		},
	}, logger)

	return repl(ctrl, r)
}

// repl is the UI surface: it reads one prompt per line and applies session
// updates to the terminal through the renderer's dispatcher goroutine.
func repl(ctrl *session.Controller, r *renderer) error {
	in := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		switch {
		case line == "":
		case line == "/quit", line == "/exit":
			return nil
		default:
			if ctrl.Generate(line) {
				r.waitIdle()
			}
		}
		fmt.Print("\n> ")
	}
	return in.Err()
}
