package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/commands/options"
	"tableflip.dev/portal/pkg/runner/admin"
)

func addAdmin(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Review sign-up requests",
	}

	addAdminRequests(cmd)
	addAdminApprove(cmd)
	topLevel.AddCommand(cmd)
}

func addAdminRequests(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List sign-up requests awaiting approval",
		Example: `
portal admin requests --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			rt, err := loadRuntime()
			if err != nil {
				return output.HandleError(err)
			}
			defer rt.Close()
			r := admin.Requests{Profiles: rt.Profiles, JSON: output.JSON}
			return output.HandleError(r.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addAdminApprove(topLevel *cobra.Command) {
	password := ""

	cmd := &cobra.Command{
		Use:   "approve <email>",
		Short: "Approve a sign-up request and create its account",
		Example: `
portal admin approve ada@school.edu --password=changeme
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			a := admin.Approve{
				Email:    args[0],
				Password: password,
				Profiles: rt.Profiles,
				Accounts: rt.Accounts,
			}
			return a.Do(context.Background())
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Initial password for the new account.")
	_ = cmd.MarkFlagRequired("password")
	topLevel.AddCommand(cmd)
}
