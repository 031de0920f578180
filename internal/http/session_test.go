package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/domain/nav"
)

func TestSessionStateFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		want   nav.SessionState
	}{
		{"no cookie", nil, nav.Anonymous},
		{"empty value", &http.Cookie{Name: AccessTokenCookie, Value: ""}, nav.Anonymous},
		{"other cookie", &http.Cookie{Name: "theme", Value: "dark"}, nav.Anonymous},
		{"token present", &http.Cookie{Name: AccessTokenCookie, Value: "abc"}, nav.SignedIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			assert.Equal(t, tt.want, SessionStateFromRequest(req))
		})
	}
}

func TestCookieJar_SetSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	jar := cookieJar{Domain: "example.com", Now: func() time.Time { return now }}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	jar.setSession(rec, req, &domainauth.Session{ID: "sess-9", ExpiresAt: now.Add(2 * time.Hour)})

	c := findCookie(rec, AccessTokenCookie)
	require.NotNil(t, c)
	assert.Equal(t, "sess-9", c.Value)
	assert.Equal(t, 7200, c.MaxAge)
	assert.Equal(t, "example.com", c.Domain)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
}

func TestCookieJar_ExpiredSessionGetsMinimalLifetime(t *testing.T) {
	now := time.Now()
	jar := cookieJar{Now: func() time.Time { return now }}

	rec := httptest.NewRecorder()
	jar.setSession(rec, httptest.NewRequest(http.MethodGet, "/", nil), &domainauth.Session{ID: "s", ExpiresAt: now.Add(-time.Minute)})

	c := findCookie(rec, AccessTokenCookie)
	require.NotNil(t, c)
	assert.Equal(t, 1, c.MaxAge)
	assert.False(t, c.Secure)
}
