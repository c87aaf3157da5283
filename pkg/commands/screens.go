package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/commands/options"
	"tableflip.dev/portal/pkg/runner/screens"
)

func addScreens(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "screens",
		Short: "List the screens of the portal and where back leads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := screens.Screens{JSON: output.JSON}
			return output.HandleError(s.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
