package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tableflip.dev/portal/pkg/docstore"
	"tableflip.dev/portal/pkg/session"
)

// AccountsBucket holds one account per lowercase email.
const AccountsBucket = "accounts"

// Account is a login-capable identity.
type Account struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Local is a Gateway over accounts kept in the portal database. Federated
// tokens are delegated to Verifier when set.
type Local struct {
	db       *docstore.DB
	Verifier *FederatedVerifier
}

// NewLocal returns a gateway over db.
func NewLocal(db *docstore.DB, verifier *FederatedVerifier) *Local {
	return &Local{db: db, Verifier: verifier}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount registers email with password and returns the new account.
// This is the administrative step that follows an approved sign-up request.
func (l *Local) CreateAccount(ctx context.Context, email, name, password string) (Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Account{}, errors.New("auth: email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("auth: hash password: %w", err)
	}
	acct := Account{
		UID:          uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	err = l.db.Update(func(tx *docstore.Tx) error {
		existing, err := tx.Raw(AccountsBucket, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAccountExists
		}
		return docstore.Put(tx, AccountsBucket, email, acct)
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return Account{}, err
		}
		return Account{}, fmt.Errorf("auth: create account %s: %w", email, err)
	}
	return acct, nil
}

// Accounts lists every account.
func (l *Local) Accounts(ctx context.Context) ([]Account, error) {
	var out []Account
	err := l.db.View(func(tx *docstore.Tx) error {
		var err error
		out, err = docstore.List[Account](tx, AccountsBucket)
		return err
	})
	return out, err
}

// SignInWithPassword implements Gateway.
func (l *Local) SignInWithPassword(ctx context.Context, email, password string) (session.Identity, error) {
	if err := ctx.Err(); err != nil {
		return session.Identity{}, err
	}
	acct, err := l.Lookup(ctx, email)
	if err != nil {
		return session.Identity{}, err
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return session.Identity{}, ErrInvalidCredentials
	}
	return session.Identity{UID: acct.UID, Email: acct.Email, Name: acct.Name}, nil
}

// SignInFederated implements Gateway.
func (l *Local) SignInFederated(ctx context.Context, idToken string) (session.Identity, error) {
	if l.Verifier == nil {
		return session.Identity{}, ErrFederatedDisabled
	}
	return l.Verifier.Verify(ctx, idToken)
}

// Lookup returns the account registered for email.
func (l *Local) Lookup(ctx context.Context, email string) (Account, error) {
	email = normalizeEmail(email)
	var acct *Account
	err := l.db.View(func(tx *docstore.Tx) error {
		var err error
		acct, err = docstore.Get[Account](tx, AccountsBucket, email)
		return err
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("auth: lookup %s: %w", email, err)
	}
	return *acct, nil
}
