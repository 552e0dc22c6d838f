package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigPath(t *testing.T) {
	t.Run("COPCTL_CONFIG wins", func(t *testing.T) {
		t.Setenv("COPCTL_CONFIG", "/tmp/copilot/copctl.yaml")

		assert.Equal(t, "/tmp/copilot/copctl.yaml", DefaultConfigPath())
	})

	t.Run("falls back to the platform config dir", func(t *testing.T) {
		t.Setenv("COPCTL_CONFIG", "")

		path := DefaultConfigPath()
		assert.True(t, filepath.IsAbs(path), "want absolute path, got %s", path)
		assert.True(t, strings.HasSuffix(path, filepath.Join("copctl", "config.yaml")),
			"want .../copctl/config.yaml, got %s", path)
	})
}
