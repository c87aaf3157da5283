// Package auth signs users in with email/password or a federated ID token.
package auth

import (
	"context"
	"errors"

	"tableflip.dev/portal/pkg/session"
)

var (
	// ErrInvalidCredentials is returned for a wrong password or a rejected
	// token.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrAccountNotFound is returned when no account matches the email.
	ErrAccountNotFound = errors.New("auth: account not found")
	// ErrAccountExists is returned by CreateAccount for a taken email.
	ErrAccountExists = errors.New("auth: account already exists")
	// ErrFederatedDisabled is returned when no token secret is configured.
	ErrFederatedDisabled = errors.New("auth: federated sign-in not configured")
)

// Gateway authenticates users against the identity provider.
type Gateway interface {
	SignInWithPassword(ctx context.Context, email, password string) (session.Identity, error)
	SignInFederated(ctx context.Context, idToken string) (session.Identity, error)
}

// Message returns the inline text shown on the login screen for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAccountNotFound):
		return "Invalid email or password."
	case errors.Is(err, ErrFederatedDisabled):
		return "Sign-in with your school account is not available."
	default:
		return "Login failed: " + err.Error()
	}
}
