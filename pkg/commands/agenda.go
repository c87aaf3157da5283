package commands

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/commands/options"
	"tableflip.dev/portal/pkg/runner/agenda"
	"tableflip.dev/portal/pkg/timeutil"
)

func addAgenda(topLevel *cobra.Command) {
	uo := &options.UserOptions{}
	to := &options.TaskOptions{}
	window := ""

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show tasks due within a window",
		Example: `
portal agenda
portal agenda --window=2w --user=ada@school.edu
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			d, _, err := timeutil.ParseWindow(window)
			if err != nil {
				return output.HandleError(err)
			}
			rt, err := loadRuntime()
			if err != nil {
				return output.HandleError(err)
			}
			defer rt.Close()
			uid, err := rt.ResolveUser(context.Background(), uo.User)
			if err != nil {
				return output.HandleError(err)
			}
			a := agenda.Agenda{
				Persistence: rt.TaskPersistence(uid),
				Window:      d,
				ShowID:      to.ShowID,
				JSON:        output.JSON,
				Logger:      log.New(os.Stderr, "", 0),
			}
			return output.HandleError(a.Do(context.Background()))
		},
	}

	cmd.Flags().StringVarP(&window, "window", "w", "", `How far ahead to look, example: --window=3d. Defaults to one week.`)
	options.AddUserArg(cmd, uo)
	options.AddShowIDArgs(cmd, to)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
