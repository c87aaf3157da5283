package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tableflip.dev/portal/pkg/session"
)

// Claims carried by a federated ID token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// FederatedVerifier validates HS256 ID tokens issued by the school's
// identity provider.
type FederatedVerifier struct {
	secret []byte
	issuer string
}

// NewFederatedVerifier returns a verifier, or nil if secret is empty.
func NewFederatedVerifier(secret, issuer string) *FederatedVerifier {
	if secret == "" {
		return nil
	}
	return &FederatedVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses idToken and returns the identity it asserts.
func (v *FederatedVerifier) Verify(ctx context.Context, idToken string) (session.Identity, error) {
	if err := ctx.Err(); err != nil {
		return session.Identity{}, err
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(idToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return session.Identity{}, ErrInvalidCredentials
	}
	if claims.Subject == "" || claims.Email == "" {
		return session.Identity{}, fmt.Errorf("%w: token missing subject or email", ErrInvalidCredentials)
	}
	return session.Identity{
		UID:         claims.Subject,
		Email:       normalizeEmail(claims.Email),
		Name:        claims.Name,
		Federated:   true,
		AccessToken: idToken,
	}, nil
}

// IssueFederatedToken mints a token the verifier accepts.
func IssueFederatedToken(secret, issuer, uid, email, name string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrFederatedDisabled
	}
	if uid == "" || email == "" {
		return "", errors.New("auth: uid and email required")
	}
	now := time.Now().UTC()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
