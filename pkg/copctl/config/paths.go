package config

import (
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.yaml"

// DefaultConfigPath resolves the config file location: the COPCTL_CONFIG
// environment variable wins, then the platform config directory
// (~/.config/copctl on Linux), then ~/.copctl as the last resort.
func DefaultConfigPath() string {
	if env := os.Getenv("COPCTL_CONFIG"); env != "" {
		return env
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "copctl", defaultConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".copctl", defaultConfigFile)
}
