package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mossrock/copilot-chat/pkg/copctl/output"
	"github.com/mossrock/copilot-chat/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show copctl version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetBuildInfo()

			// The runtime is absent when the command runs standalone.
			writer := cmd.OutOrStdout()
			if rt, err := runtimeFrom(cmd); err == nil {
				writer = rt.Writer()
			}

			format := output.Format(formatFlag)
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.WriteObject(writer, format, info)
			}
			_, err := fmt.Fprintln(writer, info.String())
			return err
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "output", "o", "", "Print build info as json or yaml")

	return cmd
}
