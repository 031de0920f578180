package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeLocal signs users in with an email and password checked against Postgres.
	AuthModeLocal AuthMode = "local"
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch AuthMode(v) {
	case AuthModeLocal, AuthModeOAuth, AuthModeMock:
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: local, oauth, mock)", v)
	}
}

// MinSessionTTL is the shortest session lifetime accepted from config.
const MinSessionTTL = 5 * time.Minute

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID    string `env:"USER_ID"    envDefault:"dev-user"`
	Email     string `env:"EMAIL"      envDefault:"dev@example.com"`
	FirstName string `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string `env:"LAST_NAME"  envDefault:"User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines how users sign in.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"local"`

	// SessionTTL is the lifetime of sessions created by password and mock logins.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"8h"`

	OAuth   OAuthConfig   `envPrefix:"OAUTH_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize clamps the session TTL.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < MinSessionTTL {
		a.SessionTTL = MinSessionTTL
	}
}

// Validate reports missing settings for the selected mode.
func (a *AuthConfig) Validate() error {
	if a.Mode != AuthModeOAuth {
		return nil
	}
	var missing []string
	if a.OAuth.ClientID == "" {
		missing = append(missing, "OAUTH_CLIENT_ID")
	}
	if a.OAuth.ClientSecret == "" {
		missing = append(missing, "OAUTH_CLIENT_SECRET")
	}
	if a.OAuth.DiscoveryURL == "" {
		missing = append(missing, "OAUTH_DISCOVERY_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("AUTH_MODE=oauth requires %s", strings.Join(missing, ", "))
	}
	return nil
}
