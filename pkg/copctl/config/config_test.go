package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Settings.Model = "github-copilot/claude-3-7-sonnet-thought"
	cfg.Settings.OutputFormat = "json"
	cfg.Settings.MaxTokens = 2048

	require.NoError(t, Save(path, &cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Settings.Model, loaded.Settings.Model)
	require.Equal(t, "json", loaded.Settings.OutputFormat)
	require.Equal(t, 2048, loaded.Settings.MaxTokens)
	require.Equal(t, VersionV1, loaded.Version)
}

func TestSaveCreatesDirWithRestrictedPerms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "copctl", "config.yaml")

	cfg := DefaultConfig()
	require.NoError(t, Save(path, &cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings: [not: a: map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadDefaultsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  model: github-copilot\n"), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, VersionV1, loaded.Version)
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "table", cfg.Settings.OutputFormat)
		assert.Equal(t, "file", cfg.Settings.TokenStorage)
		assert.Equal(t, "github-copilot", cfg.Settings.Model)
	})

	t.Run("existing file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg := DefaultConfig()
		cfg.Settings.OutputFormat = "yaml"
		require.NoError(t, Save(path, &cfg))

		loaded, err := LoadOrDefault(path)
		require.NoError(t, err)
		assert.Equal(t, "yaml", loaded.Settings.OutputFormat)
	})

	t.Run("parse failure still surfaces", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

		_, err := LoadOrDefault(path)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "missing version",
			mutate:  func(c *Config) { c.Version = "" },
			wantErr: "missing config version",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Settings.OutputFormat = "xml" },
			wantErr: "unknown output format",
		},
		{
			name:    "unknown token storage",
			mutate:  func(c *Config) { c.Settings.TokenStorage = "vault" },
			wantErr: "unknown token storage",
		},
		{
			name:    "negative max tokens",
			mutate:  func(c *Config) { c.Settings.MaxTokens = -1 },
			wantErr: "max-tokens must not be negative",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Settings.Temperature = 1.5 },
			wantErr: "temperature must be between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveNilConfig(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "config.yaml"), nil)
	require.Error(t, err)
}
