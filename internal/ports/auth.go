// Package ports defines interfaces (hexagonal ports) for auth and agent behavior.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
)

// BeginInput carries inputs for initiating a redirect-based auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// ErrInvalidCredentials is returned by a CredentialVerifier for an unknown email or a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSessionNotFound is returned by a SessionStore when no live session is stored under an ID.
var ErrSessionNotFound = errors.New("session not found")

// CredentialVerifier checks an email/password pair and returns the matching identity.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository persists locally registered users.
type UserRepository interface {
	Create(ctx context.Context, u domainauth.User) (domainauth.User, error)
	GetByEmail(ctx context.Context, email string) (domainauth.User, error)
}
