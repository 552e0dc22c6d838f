package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRoot executes a fresh root command against a throwaway config path and
// returns everything written to the runtime writer.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Options{
		ConfigPath:   testConfigPath(t),
		OutputWriter: buf,
	})
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCompletionCommand_GeneratesScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runRoot(t, "completion", shell)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}
}

func TestCompletionCommand_BashMentionsProgram(t *testing.T) {
	out, err := runRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion")
	assert.Contains(t, out, "copctl")
}

func TestCompletionCommand_UnsupportedShell(t *testing.T) {
	_, err := runRoot(t, "completion", "tcsh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell")
}

func TestCompletionCommand_RequiresShellArg(t *testing.T) {
	_, err := runRoot(t, "completion")
	require.Error(t, err)
}

func TestCompletionCommand_AdvertisesShells(t *testing.T) {
	cmd := NewCompletionCommand()
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
}

func TestRootCommand_RejectsInvalidConfig(t *testing.T) {
	path := testConfigPath(t)
	writeConfig(t, path, "version: v1\nsettings:\n  output-format: xml\n")

	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Options{ConfigPath: path, OutputWriter: buf})
	rootCmd.SetArgs([]string{"models"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRootCommand_RejectsInvalidOutputFlag(t *testing.T) {
	_, err := runRoot(t, "models", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRootCommand_VersionSkipsConfig(t *testing.T) {
	path := testConfigPath(t)
	writeConfig(t, path, "version: v1\nsettings:\n  output-format: xml\n")

	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Options{ConfigPath: path, OutputWriter: buf})
	rootCmd.SetArgs([]string{"version"})

	// An invalid config must not block the version command.
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "copctl")
}

func TestRootCommand_Help(t *testing.T) {
	out, err := runRoot(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"auth", "chat", "models", "config", "version"} {
		assert.Contains(t, out, sub)
	}
}
