package options

import (
	"github.com/spf13/cobra"
)

// UserOptions selects whose task list a command works on.
type UserOptions struct {
	User string
}

// AddUserArg registers --user on cmd and its subcommands.
func AddUserArg(cmd *cobra.Command, o *UserOptions) {
	cmd.PersistentFlags().StringVarP(&o.User, "user", "u", "",
		`Account email or uid owning the task list. Empty uses the shared list.`)
}
