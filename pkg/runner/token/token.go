// Package token provides the runner that mints federated sign-in tokens for
// local testing.
package token

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"tableflip.dev/portal/pkg/auth"
)

// DefaultTTL is the lifetime of minted tokens.
const DefaultTTL = time.Hour

// Accounts resolves registered accounts.
type Accounts interface {
	Lookup(ctx context.Context, email string) (auth.Account, error)
}

// Token prints a signed federated token for Email.
type Token struct {
	Secret   string
	Issuer   string
	Email    string
	Name     string
	TTL      time.Duration
	Accounts Accounts
	Out      io.Writer
}

func (n *Token) Do(ctx context.Context) error {
	if n.Secret == "" {
		return auth.ErrFederatedDisabled
	}
	if n.Email == "" {
		return errors.New("token: email required")
	}
	uid := uuid.NewString()
	name := n.Name
	if n.Accounts != nil {
		acct, err := n.Accounts.Lookup(ctx, n.Email)
		switch {
		case err == nil:
			uid = acct.UID
			if name == "" {
				name = acct.Name
			}
		case !errors.Is(err, auth.ErrAccountNotFound):
			return err
		}
	}
	ttl := n.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	signed, err := auth.IssueFederatedToken(n.Secret, n.Issuer, uid, n.Email, name, ttl)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, signed)
	return nil
}
