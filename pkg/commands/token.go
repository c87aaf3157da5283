package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/runner/token"
)

func addToken(topLevel *cobra.Command) {
	email := ""
	name := ""
	ttl := token.DefaultTTL

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a federated sign-in token",
		Long: `Issue a signed identity token accepted by the federated sign-in form.
Requires PORTAL_AUTH_SECRET to be configured.`,
		Example: `
portal token --email=ada@school.edu --ttl=30m
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			t := token.Token{
				Secret:   rt.Config.AuthSecret,
				Issuer:   rt.Config.AuthIssuer,
				Email:    email,
				Name:     name,
				TTL:      ttl,
				Accounts: rt.Accounts,
			}
			return t.Do(context.Background())
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email claim of the token.")
	cmd.Flags().StringVar(&name, "name", "", "Display name claim of the token.")
	cmd.Flags().DurationVar(&ttl, "ttl", token.DefaultTTL, "Token lifetime.")
	_ = cmd.MarkFlagRequired("email")
	topLevel.AddCommand(cmd)
}
