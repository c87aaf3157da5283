package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/commands/options"
	"tableflip.dev/portal/pkg/runner/signup"
)

func addSignup(topLevel *cobra.Command) {
	so := &options.SignupOptions{}
	ia := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Request a portal account",
		Example: `
portal signup --name="Ada Lovelace" --email=ada@school.edu --gap-id=G-1815 --clubs="Coding Club"
portal signup -i
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if ia.Interactive {
				if err := options.PromptMissing(cmd, options.SignupFlags, options.RequiredSignupFlags...); err != nil {
					return err
				}
			}
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			p := rt.Portal(nil)
			defer p.Close()
			s := signup.Signup{Form: so.SignupForm, Portal: p}
			return s.Do(context.Background())
		},
	}

	options.AddSignupArgs(cmd, so)
	options.AddInteractiveArg(cmd, ia)
	topLevel.AddCommand(cmd)
}
