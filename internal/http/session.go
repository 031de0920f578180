package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/domain/nav"
)

// SessionStateFromRequest derives the navigation session flag from the request.
// Only presence of a non-empty accessToken cookie counts; the value is not inspected.
func SessionStateFromRequest(r *http.Request) nav.SessionState {
	c, err := r.Cookie(AccessTokenCookie)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return nav.Anonymous
	}
	return nav.SignedIn
}

// accessToken returns the raw accessToken cookie value, or "".
func accessToken(r *http.Request) string {
	c, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// isSecureRequest reports whether the client reached us over TLS, directly or via a proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// cookieJar writes the application's cookies with consistent attributes.
type cookieJar struct {
	Domain string
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (c cookieJar) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c cookieJar) base(r *http.Request, name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// setSession writes the accessToken cookie so it expires with the session.
func (c cookieJar) setSession(w http.ResponseWriter, r *http.Request, s *domainauth.Session) {
	ck := c.base(r, AccessTokenCookie, s.ID)
	maxAge := int(s.ExpiresAt.Sub(c.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	ck.MaxAge = maxAge
	ck.Expires = s.ExpiresAt.UTC()
	http.SetCookie(w, ck)
}

// setTemporary writes a short-lived cookie used during a redirect login.
func (c cookieJar) setTemporary(w http.ResponseWriter, r *http.Request, name, value string) {
	ck := c.base(r, name, value)
	ck.MaxAge = oauthCookieMaxAge
	http.SetCookie(w, ck)
}

// clear expires a cookie immediately, mirroring the attributes it was set with.
func (c cookieJar) clear(w http.ResponseWriter, r *http.Request, name string) {
	ck := c.base(r, name, "")
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, ck)
}
