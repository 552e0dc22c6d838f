package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mossrock/copilot-chat/pkg/copctl/config"
	"github.com/mossrock/copilot-chat/pkg/copctl/output"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage copctl configuration",
	}

	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigViewCommand(),
		newConfigSetCommand(),
	)

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			path := rt.configFile()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("refusing to overwrite %s (use --force)", path)
			}
			cfg := config.DefaultConfig()
			if err := config.Save(path, &cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Config written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			if err := rt.ensureConfig(); err != nil {
				return err
			}
			// A config dump has no table form; -o table means YAML here.
			format := output.Format(rt.OutputFormat())
			if format == output.FormatTable {
				format = output.FormatYAML
			}
			return output.WriteObject(rt.Writer(), format, rt.cfg)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Update one setting in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			if err := rt.ensureConfig(); err != nil {
				return err
			}
			if err := applySetting(rt.cfg, args[0], args[1]); err != nil {
				return err
			}
			// Reject values the next startup would refuse to load.
			if err := rt.cfg.Validate(); err != nil {
				return err
			}
			return config.Save(rt.configFile(), rt.cfg)
		},
	}
}

// applySetting mutates one settings field addressed by its dotted key.
func applySetting(cfg *config.Config, key, value string) error {
	name, ok := strings.CutPrefix(key, "settings.")
	if !ok {
		return fmt.Errorf("unknown settings key %q", key)
	}
	switch name {
	case "output-format":
		cfg.Settings.OutputFormat = value
	case "token-storage":
		cfg.Settings.TokenStorage = value
	case "model":
		cfg.Settings.Model = value
	case "api-base":
		cfg.Settings.APIBase = value
	case "max-tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max-tokens: %s", value)
		}
		cfg.Settings.MaxTokens = n
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature: %s", value)
		}
		cfg.Settings.Temperature = f
	default:
		return fmt.Errorf("unknown settings key %q", key)
	}
	return nil
}
