package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/ports"
)

// DefaultSessionTTL is used for password logins when no TTL is configured.
const DefaultSessionTTL = 8 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
// Provider and Credentials are optional; at least one should be set.
type AuthServiceOptions struct {
	Provider    ports.AuthProvider
	Credentials ports.CredentialVerifier
	Sessions    ports.SessionStore
	SessionTTL  time.Duration
	Now         func() time.Time
}

// AuthService creates, looks up and destroys the server-side sessions behind the
// accessToken cookie.
type AuthService struct {
	provider    ports.AuthProvider
	credentials ports.CredentialVerifier
	sessions    ports.SessionStore
	sessionTTL  time.Duration
	now         func() time.Time
}

var (
	// ErrSessionExpired is returned by GetSession for sessions past their expiry.
	ErrSessionExpired = errors.New("session expired")
	// ErrRedirectLoginDisabled is returned when no redirect-based provider is configured.
	ErrRedirectLoginDisabled = errors.New("redirect login is not enabled")
	// ErrPasswordLoginDisabled is returned when no credential verifier is configured.
	ErrPasswordLoginDisabled = errors.New("password login is not enabled")
)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider:    opts.Provider,
		credentials: opts.Credentials,
		sessions:    opts.Sessions,
		sessionTTL:  ttl,
		now:         now,
	}
}

// SupportsRedirectLogin reports whether an IdP-style login flow is configured.
func (s *AuthService) SupportsRedirectLogin() bool { return s.provider != nil }

// SupportsPasswordLogin reports whether email/password login is configured.
func (s *AuthService) SupportsPasswordLogin() bool { return s.credentials != nil }

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, ErrRedirectLoginDisabled
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the authorization code for an identity and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*domainauth.Session, error) {
	if s.provider == nil {
		return nil, ErrRedirectLoginDisabled
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	return s.startSession(ctx, identity)
}

// PasswordLogin verifies email and password and persists a session lasting the configured TTL.
// Credential failures are returned unwrapped from the verifier so callers can match them.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) (*domainauth.Session, error) {
	if s.credentials == nil {
		return nil, ErrPasswordLoginDisabled
	}

	identity, err := s.credentials.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	identity.ExpiresAt = s.now().Add(s.sessionTTL)

	return s.startSession(ctx, identity)
}

func (s *AuthService) startSession(ctx context.Context, identity domainauth.Identity) (*domainauth.Session, error) {
	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.sessionTTL)
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		ExpiresAt: expiresAt,
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// GetSession retrieves a live session by ID. Expired sessions are deleted and reported
// as ErrSessionExpired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// IsStaleSession reports whether err from GetSession means the credential no longer points at a
// live session. Store failures are not stale: the session may still be valid.
func IsStaleSession(err error) bool {
	return errors.Is(err, ports.ErrSessionNotFound) || errors.Is(err, ErrSessionExpired)
}

// Logout removes a session. An empty ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
