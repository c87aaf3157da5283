// Package admin provides the runners used to approve sign-up requests.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/portal/pkg/auth"
	"tableflip.dev/portal/pkg/printers"
	"tableflip.dev/portal/pkg/profile"
)

// Accounts creates sign-in accounts.
type Accounts interface {
	CreateAccount(ctx context.Context, email, name, password string) (auth.Account, error)
}

// Requests lists sign-up requests awaiting approval.
type Requests struct {
	Profiles profile.Repository
	JSON     bool
	Out      io.Writer
}

func (n *Requests) Do(ctx context.Context) error {
	if n.Profiles == nil {
		return errors.New("admin: no profile repository")
	}
	pending, err := n.Profiles.SignupRequests(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(pending)
	}
	pp.NewLine()
	pp.TitleWithCount("Sign-up requests", len(pending), "request")
	pp.Requests(pending...)
	return nil
}

// Approve marks a sign-up request approved and creates its account.
type Approve struct {
	Email    string
	Password string
	Profiles profile.Repository
	Accounts Accounts
	Out      io.Writer
}

func (n *Approve) Do(ctx context.Context) error {
	if n.Profiles == nil || n.Accounts == nil {
		return errors.New("admin: no backends")
	}
	if n.Password == "" {
		return errors.New("admin: password required")
	}
	u, err := n.Profiles.Approve(ctx, n.Email)
	if err != nil {
		return fmt.Errorf("admin: approve %s: %w", n.Email, err)
	}
	acct, err := n.Accounts.CreateAccount(ctx, u.Email, u.Name, n.Password)
	if err != nil && !errors.Is(err, auth.ErrAccountExists) {
		return fmt.Errorf("admin: account %s: %w", n.Email, err)
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	if errors.Is(err, auth.ErrAccountExists) {
		_, _ = color.New(color.FgYellow).Fprintf(out, "%s approved, account already exists\n", u.Email)
		return nil
	}
	_, _ = color.New(color.FgGreen).Fprintf(out, "%s approved, account %s created\n", acct.Email, acct.UID)
	return nil
}
