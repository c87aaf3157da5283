// Package signup provides the runner that files a sign-up request.
package signup

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/forms"
)

// Signup sends a sign-up request for out-of-band approval.
type Signup struct {
	Form   forms.SignupForm
	Portal *app.Portal
	Out    io.Writer
}

func (n *Signup) Do(ctx context.Context) error {
	if n.Portal == nil {
		return errors.New("signup: no portal")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	u, err := n.Portal.SubmitSignup(ctx, n.Form)
	if err != nil {
		Explain(out, err)
		return err
	}
	_, _ = color.New(color.FgGreen).Fprintln(out, app.SignupSentMessage)
	_, _ = color.New(color.Faint).Fprintf(out, "request %s for %s\n", u.DocID, u.Email)
	return nil
}

// Explain prints each invalid field of a validation failure and reports
// whether err was one.
func Explain(out io.Writer, err error) bool {
	fields := forms.Fields(err)
	if len(fields) == 0 {
		return false
	}
	red := color.New(color.FgRed)
	for _, f := range fields {
		_, _ = red.Fprintf(out, "%s: %s\n", f.Field, f.Message)
	}
	return true
}
