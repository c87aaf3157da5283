package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/commands/options"
	"tableflip.dev/portal/pkg/config"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "portal",
		Short: base.Wrap80("Student portal on the command line: tasks, reminders, profile and sign-up requests."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addDemo(topLevel)
	addTasks(topLevel)
	addAgenda(topLevel)
	addSignup(topLevel)
	addAdmin(topLevel)
	addToken(topLevel)
	addScreens(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// loadRuntime reads the configuration and opens the local backends.
func loadRuntime() (*app.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.OpenRuntime(cfg)
}
