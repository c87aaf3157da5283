package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/portal/pkg/forms"
)

// SignupOptions
type SignupOptions struct {
	forms.SignupForm
}

func AddSignupArgs(cmd *cobra.Command, o *SignupOptions) {
	f := cmd.Flags()
	f.StringVar(&o.Name, "name", "", "Full name (required).")
	f.StringVar(&o.Email, "email", "", "School email (required).")
	f.StringVar(&o.GapID, "gap-id", "", "GAP ID (required).")
	f.StringVar(&o.Phone, "phone", "", "Phone number.")
	f.StringVar(&o.Address, "address", "", "Postal address.")
	f.StringVar(&o.EnrolledYear, "enrolled-year", "", "Year of enrollment.")
	f.StringVar(&o.CurrentTrimester, "trimester", "", "Current trimester.")
	f.StringVar(&o.Job, "job", "", "Current job.")
	f.StringVar(&o.Clubs, "clubs", "", `Comma separated clubs, example: --clubs="Art Club, Coding Club".`)
}

// SignupFlags lists the sign-up flags in form order.
var SignupFlags = []string{"name", "email", "gap-id", "phone", "address", "enrolled-year", "trimester", "job", "clubs"}

// RequiredSignupFlags must be answered when prompting.
var RequiredSignupFlags = []string{"name", "email", "gap-id"}
