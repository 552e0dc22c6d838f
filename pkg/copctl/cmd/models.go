package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mossrock/copilot-chat/pkg/chat"
	"github.com/mossrock/copilot-chat/pkg/copctl/output"
)

func NewModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known Copilot models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			models := chat.DefaultRegistry().Models()

			format := output.Format(rt.OutputFormat())
			if format == output.FormatTable {
				output.WriteModelTable(rt.Writer(), models)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, models)
		},
	}
}
