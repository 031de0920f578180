// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"strings"
	"time"
)

// Identity represents the authenticated principal returned by a login provider.
// Adapters map provider-specific claims or user records into this shape.
type Identity struct {
	UserID    string // stable user identifier (user row id, or sub for IdP logins)
	FirstName string
	LastName  string
	Email     string
	ExpiresAt time.Time // absolute expiry; zero means the caller picks a default
}

// Session is the server-side record persisted for an authenticated user.
// ID is the opaque value carried by the accessToken cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// DisplayName returns a human label for the session owner.
func (s Session) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name != "" {
		return name
	}
	if s.Email != "" {
		return s.Email
	}
	return s.UserID
}

// User is a locally registered account that can sign in with a password.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity converts the user into an Identity expiring at expiresAt.
func (u User) Identity(expiresAt time.Time) Identity {
	return Identity{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		ExpiresAt: expiresAt,
	}
}
