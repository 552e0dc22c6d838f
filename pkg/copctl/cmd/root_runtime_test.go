package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/mossrock/copilot-chat/pkg/copctl/config"
)

func TestRuntimeStateOutputFormat(t *testing.T) {
	rt := &cliRuntime{outputFlag: "json"}
	require.Equal(t, "json", rt.OutputFormat())

	rt = &cliRuntime{cfg: &config.Config{Settings: config.Settings{OutputFormat: "yaml"}}}
	require.Equal(t, "yaml", rt.OutputFormat())

	rt = &cliRuntime{}
	require.Equal(t, "table", rt.OutputFormat())
}

func TestRuntimeStateModel(t *testing.T) {
	rt := &cliRuntime{modelFlag: "github-copilot/claude-3-7-sonnet-thought"}
	require.Equal(t, "github-copilot/claude-3-7-sonnet-thought", rt.Model())

	rt = &cliRuntime{cfg: &config.Config{Settings: config.Settings{Model: "o1"}}}
	require.Equal(t, "o1", rt.Model())

	rt = &cliRuntime{}
	require.Equal(t, "github-copilot", rt.Model())
}

func TestRuntimeStateTokenStorage(t *testing.T) {
	rt := &cliRuntime{storageFlag: "keyring"}
	require.Equal(t, "keyring", rt.TokenStorage())

	rt = &cliRuntime{cfg: &config.Config{Settings: config.Settings{TokenStorage: "keyring"}}}
	require.Equal(t, "keyring", rt.TokenStorage())

	rt = &cliRuntime{}
	require.Equal(t, "file", rt.TokenStorage())
}

func TestRuntimeStateAPIBase(t *testing.T) {
	rt := &cliRuntime{apiBaseFlag: "https://proxy.example.com"}
	require.Equal(t, "https://proxy.example.com", rt.APIBase())

	rt = &cliRuntime{cfg: &config.Config{Settings: config.Settings{APIBase: "https://ghe.example.com"}}}
	require.Equal(t, "https://ghe.example.com", rt.APIBase())

	rt = &cliRuntime{}
	require.Equal(t, "", rt.APIBase())
}

func TestEnsureConfig(t *testing.T) {
	path := testConfigPath(t)
	cfg := config.DefaultConfig()
	cfg.Settings.Model = "o1"
	require.NoError(t, config.Save(path, &cfg))

	rt := &cliRuntime{configFlag: path}
	require.NoError(t, rt.ensureConfig())
	require.NotNil(t, rt.cfg)
	require.Equal(t, "o1", rt.cfg.Settings.Model)
}

func TestEnsureConfigMissingFileUsesDefaults(t *testing.T) {
	rt := &cliRuntime{configFlag: filepath.Join(t.TempDir(), "missing.yaml")}
	require.NoError(t, rt.ensureConfig())
	require.NotNil(t, rt.cfg)
	require.Equal(t, "table", rt.cfg.Settings.OutputFormat)
}

func TestNewTokenStoreHonorsOverrides(t *testing.T) {
	dir := t.TempDir()
	rt := &cliRuntime{tokenDirFlag: dir, storageFlag: "file"}

	store, err := rt.newTokenStore()
	require.NoError(t, err)
	require.Equal(t, dir, store.Dir())
}

func TestNewTokenStoreRejectsUnknownStorage(t *testing.T) {
	rt := &cliRuntime{tokenDirFlag: t.TempDir(), storageFlag: "vault"}

	_, err := rt.newTokenStore()
	require.Error(t, err)
}

func TestRuntimeFromMissing(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := runtimeFrom(cmd)
	require.Error(t, err)
}
