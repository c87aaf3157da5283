package token

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tableflip.dev/portal/pkg/auth"
)

type fakeAccounts map[string]auth.Account

func (f fakeAccounts) Lookup(_ context.Context, email string) (auth.Account, error) {
	if a, ok := f[email]; ok {
		return a, nil
	}
	return auth.Account{}, auth.ErrAccountNotFound
}

func TestTokenVerifies(t *testing.T) {
	out := &bytes.Buffer{}
	n := &Token{
		Secret:   "s3cret",
		Issuer:   "portal",
		Email:    "ada@school.edu",
		TTL:      time.Minute,
		Accounts: fakeAccounts{"ada@school.edu": {UID: "u1", Email: "ada@school.edu", Name: "Ada"}},
		Out:      out,
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("token: %v", err)
	}
	id, err := auth.NewFederatedVerifier("s3cret", "portal").Verify(context.Background(), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UID != "u1" || id.Name != "Ada" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestTokenUnknownAccountGetsFreshUID(t *testing.T) {
	out := &bytes.Buffer{}
	n := &Token{Secret: "s", Email: "new@school.edu", Accounts: fakeAccounts{}, Out: out}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("token: %v", err)
	}
	id, err := auth.NewFederatedVerifier("s", "").Verify(context.Background(), strings.TrimSpace(out.String()))
	if err != nil || id.UID == "" {
		t.Fatalf("unexpected %+v %v", id, err)
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	n := &Token{Email: "ada@school.edu"}
	if err := n.Do(context.Background()); !errors.Is(err, auth.ErrFederatedDisabled) {
		t.Fatalf("expected ErrFederatedDisabled, got %v", err)
	}
}
