package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
portal ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			i := ui.UI{Runtime: rt, LogFile: rt.Config.LogFile}
			return i.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}

func addDemo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "create a demo account with a few tasks",
		Example: `
portal demo && portal ui
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			d := ui.Demo{Runtime: rt}
			return d.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
