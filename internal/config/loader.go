package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults for unset fields.
const (
	DefaultModelsDir    = "~/models/llm"
	DefaultMaxTokens    = 240
	DefaultPublishEvery = 4
	DefaultTemperature  = 0.7
	DefaultTopP         = 0.9
	DefaultContextSize  = 2048
)

// Config holds runtime parameters for the session controller.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	ModelsDir     string  `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	Model         string  `json:"model" yaml:"model" toml:"model"`
	MaxTokens     int     `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	PublishEvery  int     `json:"publish_every" yaml:"publish_every" toml:"publish_every"`
	EndMarker     string  `json:"end_marker" yaml:"end_marker" toml:"end_marker"`
	Temperature   float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopP          float64 `json:"top_p" yaml:"top_p" toml:"top_p"`
	ContextSize   int     `json:"context_size" yaml:"context_size" toml:"context_size"`
	Threads       int     `json:"threads" yaml:"threads" toml:"threads"`
	CacheBudgetMB int     `json:"cache_budget_mb" yaml:"cache_budget_mb" toml:"cache_budget_mb"`
	LogLevel      string  `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields with package defaults and returns the result.
func (c Config) ApplyDefaults() Config {
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.PublishEvery <= 0 {
		c.PublishEvery = DefaultPublishEvery
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.TopP <= 0 {
		c.TopP = DefaultTopP
	}
	if c.ContextSize <= 0 {
		c.ContextSize = DefaultContextSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}
