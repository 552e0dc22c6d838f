package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mossrock/copilot-chat/pkg/copctl/output"
)

func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage GitHub Copilot credentials",
	}

	cmd.AddCommand(
		newAuthLoginCommand(),
		newAuthStatusCommand(),
		newAuthLogoutCommand(),
	)

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with GitHub via the device flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			manager, err := rt.newManager()
			if err != nil {
				return err
			}
			if force {
				if err := manager.Store.DeleteAll(); err != nil {
					return err
				}
			} else if _, err := manager.Store.AccessToken(); err == nil {
				key, err := manager.APIKey(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(rt.Writer(), "Already authenticated. API key expires at %s\n", formatUnix(key.ExpiresAt))
				return nil
			}
			key, err := manager.APIKey(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Authenticated. API key expires at %s\n", formatUnix(key.ExpiresAt))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Discard cached credentials and log in again")
	return cmd
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show credential status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			store, err := rt.newTokenStore()
			if err != nil {
				return err
			}

			status := output.AuthStatus{
				StorageMode: string(store.Mode()),
				TokenDir:    store.Dir(),
			}
			if _, err := store.AccessToken(); err == nil {
				status.Authenticated = true
			}
			if key, err := store.APIKey(); err == nil {
				status.HasAPIKey = true
				status.KeyExpiresAt = time.Unix(key.ExpiresAt, 0).UTC()
			}

			format := output.Format(rt.OutputFormat())
			if format == output.FormatTable {
				output.WriteStatusTable(rt.Writer(), status)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, status)
		},
	}
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove cached credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			store, err := rt.newTokenStore()
			if err != nil {
				return err
			}
			if err := store.DeleteAll(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(rt.Writer(), "Logged out, stored credentials removed")
			return nil
		},
	}
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}
