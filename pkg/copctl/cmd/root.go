package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mossrock/copilot-chat/pkg/auth"
	"github.com/mossrock/copilot-chat/pkg/copctl/config"
	"github.com/mossrock/copilot-chat/pkg/copctl/output"
	"github.com/mossrock/copilot-chat/pkg/events"
	"github.com/mossrock/copilot-chat/pkg/system"
)

// Options seeds the root command with process-level dependencies so tests
// can point at a throwaway config and capture output.
type Options struct {
	ConfigPath   string
	OutputWriter io.Writer
}

// cliRuntime carries flag values and the lazily loaded config, shared with
// every subcommand through the command context.
type cliRuntime struct {
	configFlag   string
	outputFlag   string
	modelFlag    string
	storageFlag  string
	tokenDirFlag string
	apiBaseFlag  string
	noBrowser    bool
	verbose      bool

	cfg      *config.Config
	writer   io.Writer
	recorder *events.Recorder
}

type cliRuntimeKey struct{}

func DefaultOptions() Options {
	return Options{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
	}
}

func NewRootCommand(opts Options) *cobra.Command {
	rt := &cliRuntime{configFlag: opts.ConfigPath, writer: opts.OutputWriter}

	root := &cobra.Command{
		Use:   "copctl",
		Short: "GitHub Copilot chat CLI",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.configFlag == "" {
				rt.configFlag = config.DefaultConfigPath()
			}
			if rt.outputFlag == "" {
				rt.outputFlag = os.Getenv("COPCTL_OUTPUT")
			}
			if rt.modelFlag == "" {
				rt.modelFlag = os.Getenv("COPCTL_MODEL")
			}
			if rt.storageFlag == "" {
				rt.storageFlag = os.Getenv("COPCTL_TOKEN_STORAGE")
			}
			if rt.tokenDirFlag == "" {
				rt.tokenDirFlag = os.Getenv("COPCTL_TOKEN_DIR")
			}
			if rt.apiBaseFlag == "" {
				rt.apiBaseFlag = os.Getenv("COPCTL_API_BASE")
			}
			if !rt.noBrowser {
				rt.noBrowser = strings.EqualFold(os.Getenv("COPCTL_NO_BROWSER"), "true")
			}
			if !rt.verbose {
				rt.verbose = strings.EqualFold(os.Getenv("COPCTL_VERBOSE"), "true")
			}

			if rt.outputFlag != "" {
				if _, err := output.ParseFormat(rt.outputFlag); err != nil {
					return err
				}
			}

			if rt.verbose {
				logger, err := system.NewLogger(true)
				if err != nil {
					return err
				}
				rt.recorder = events.NewRecorder(events.NewLogSink(logger))
			}

			// version and completion must work even with a broken config.
			switch cmd.Name() {
			case "version", "completion":
				return nil
			}

			cfg, err := config.LoadOrDefault(rt.configFlag)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			rt.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configFlag, "config", rt.configFlag, "Config file location")
	root.PersistentFlags().StringVarP(&rt.outputFlag, "output", "o", "", "Output format (table, json or yaml)")
	root.PersistentFlags().StringVarP(&rt.modelFlag, "model", "m", "", "Model identifier override")
	root.PersistentFlags().StringVar(&rt.storageFlag, "token-storage", "", "Access token storage backend: file or keyring")
	root.PersistentFlags().StringVar(&rt.tokenDirFlag, "token-dir", "", "Credential directory override")
	root.PersistentFlags().StringVar(&rt.apiBaseFlag, "api-base", "", "Completions API base URL override")
	root.PersistentFlags().BoolVar(&rt.noBrowser, "no-browser", false, "Do not open the verification page in a browser")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable verbose event logging")

	root.SetContext(context.WithValue(context.Background(), cliRuntimeKey{}, rt))

	root.AddCommand(
		NewConfigCommand(),
		NewAuthCommand(),
		NewChatCommand(),
		NewModelsCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

func runtimeFrom(cmd *cobra.Command) (*cliRuntime, error) {
	rt, ok := cmd.Context().Value(cliRuntimeKey{}).(*cliRuntime)
	if !ok || rt == nil {
		return nil, errors.New("no runtime attached to command context")
	}
	return rt, nil
}

// settings returns the loaded config settings, or nil before the config
// has been read.
func (rt *cliRuntime) settings() *config.Settings {
	if rt.cfg == nil {
		return nil
	}
	return &rt.cfg.Settings
}

func (rt *cliRuntime) OutputFormat() string {
	if rt.outputFlag != "" {
		return rt.outputFlag
	}
	if s := rt.settings(); s != nil && s.OutputFormat != "" {
		return s.OutputFormat
	}
	return "table"
}

func (rt *cliRuntime) Model() string {
	if rt.modelFlag != "" {
		return rt.modelFlag
	}
	if s := rt.settings(); s != nil && s.Model != "" {
		return s.Model
	}
	return "github-copilot"
}

func (rt *cliRuntime) APIBase() string {
	if rt.apiBaseFlag != "" {
		return rt.apiBaseFlag
	}
	if s := rt.settings(); s != nil {
		return s.APIBase
	}
	return ""
}

func (rt *cliRuntime) TokenStorage() string {
	if rt.storageFlag != "" {
		return rt.storageFlag
	}
	if s := rt.settings(); s != nil && s.TokenStorage != "" {
		return s.TokenStorage
	}
	return "file"
}

func (rt *cliRuntime) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

// ensureConfig loads the config file on first use for commands that run
// outside the persistent hook.
func (rt *cliRuntime) ensureConfig() error {
	if rt.cfg != nil {
		return nil
	}
	cfg, err := config.LoadOrDefault(rt.configFlag)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	return nil
}

// configFile is the effective config path for write operations.
func (rt *cliRuntime) configFile() string {
	if rt.configFlag == "" {
		return config.DefaultConfigPath()
	}
	return rt.configFlag
}

func (rt *cliRuntime) newTokenStore() (*auth.TokenStore, error) {
	return auth.NewTokenStore(auth.StoreConfig{
		Dir:  rt.tokenDirFlag,
		Mode: auth.StorageMode(rt.TokenStorage()),
	})
}

func (rt *cliRuntime) newManager() (*auth.Manager, error) {
	store, err := rt.newTokenStore()
	if err != nil {
		return nil, err
	}
	return &auth.Manager{
		Store: store,
		Flow: &auth.DeviceFlow{
			Prompt:      rt.Writer(),
			OpenBrowser: !rt.noBrowser,
			Events:      rt.recorder,
		},
		Events: rt.recorder,
	}, nil
}
