package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const (
	VersionV1 = "v1"
)

// Config is the on-disk copctl configuration. Every field has a working
// default, so a missing config file is not an error.
type Config struct {
	Version  string   `yaml:"version" json:"version"`
	Settings Settings `yaml:"settings,omitempty" json:"settings,omitempty"`
}

type Settings struct {
	OutputFormat string  `yaml:"output-format,omitempty" json:"outputFormat,omitempty"`
	TokenStorage string  `yaml:"token-storage,omitempty" json:"tokenStorage,omitempty"`
	Model        string  `yaml:"model,omitempty" json:"model,omitempty"`
	MaxTokens    int     `yaml:"max-tokens,omitempty" json:"maxTokens,omitempty"`
	Temperature  float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	// APIBase overrides the completions endpoint, e.g. for enterprise
	// proxies. Empty means the public Copilot API.
	APIBase string `yaml:"api-base,omitempty" json:"apiBase,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Version: VersionV1,
		Settings: Settings{
			OutputFormat: "table",
			TokenStorage: "file",
			Model:        "github-copilot",
		},
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("empty config path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Version == "" {
		c.Version = VersionV1
	}
	return &c, nil
}

// LoadOrDefault reads the config at path, falling back to DefaultConfig
// when the file does not exist. Parse failures still surface.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			def := DefaultConfig()
			return &def, nil
		}
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if cfg.Version == "" {
		cfg.Version = VersionV1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) Validate() error {
	if c.Version == "" {
		return errors.New("missing config version")
	}
	switch c.Settings.OutputFormat {
	case "", "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format: %s", c.Settings.OutputFormat)
	}
	switch c.Settings.TokenStorage {
	case "", "file", "keyring":
	default:
		return fmt.Errorf("unknown token storage: %s", c.Settings.TokenStorage)
	}
	if c.Settings.MaxTokens < 0 {
		return fmt.Errorf("max-tokens must not be negative: %d", c.Settings.MaxTokens)
	}
	if c.Settings.Temperature < 0 || c.Settings.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1: %g", c.Settings.Temperature)
	}
	return nil
}
