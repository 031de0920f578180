package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/domain/nav"
	"github.com/scagent/scagent-web/internal/observability/metrics"
	"github.com/scagent/scagent-web/internal/observability/statsd"
	"github.com/scagent/scagent-web/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	SessionLookup
	SupportsPasswordLogin() bool
	SupportsRedirectLogin() bool
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	PasswordLogin(ctx context.Context, email, password string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Renderer     *TemplateRenderer
	CookieDomain string
	Metrics      statsd.Sink
	IsDev        bool
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) cookies() cookieJar { return cookieJar{Domain: h.CookieDomain} }

// PasswordLogin handles the login form.
// POST /auth/login (form: email, password).
func (h *AuthHandlers) PasswordLogin(w http.ResponseWriter, r *http.Request) {
	if !h.Svc.SupportsPasswordLogin() {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "password_login_disabled",
			Err:     service.ErrPasswordLoginDisabled,
		})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.renderLoginError(w, r, email, "Email and password are required.", http.StatusBadRequest)
		return
	}

	session, err := h.Svc.PasswordLogin(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.EmitLogin(h.Metrics, "password", metrics.ResultDenied)
			h.logger().InfoContext(r.Context(), "password login rejected", "email", email)
			h.renderLoginError(w, r, email, "Invalid email or password.", http.StatusUnauthorized)
			return
		}
		metrics.EmitLogin(h.Metrics, "password", metrics.ResultError)
		h.logger().ErrorContext(r.Context(), "password login failed", "error", err)
		h.renderLoginError(w, r, email, "Sign-in is temporarily unavailable. Please try again.", http.StatusServiceUnavailable)
		return
	}

	metrics.EmitLogin(h.Metrics, "password", metrics.ResultSuccess)
	h.cookies().setSession(w, r, session)
	Redirect(w, r, nav.PathQuery)
}

// renderLoginError re-renders the login view with a message, or answers JSON for API callers.
func (h *AuthHandlers) renderLoginError(w http.ResponseWriter, r *http.Request, email, msg string, status int) {
	if h.Renderer == nil || (IsAJAX(r) && !IsHTMX(r)) {
		WriteError(w, ErrorParams{Code: status, ErrCode: "login_failed", Err: errors.New(msg)})
		return
	}

	data := newPageData(r, nav.ViewLogin)
	data.Email = email
	data.ErrorMessage = msg
	data.PasswordLogin = h.Svc.SupportsPasswordLogin()
	data.RedirectLogin = h.Svc.SupportsRedirectLogin()
	data.IsDev = h.IsDev
	data.Status = status
	if err := h.Renderer.Render(w, r, data); err != nil {
		http.Error(w, msg, status)
	}
}

// RedirectLogin starts an IdP login.
// GET /auth/oauth/login.
func (h *AuthHandlers) RedirectLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginLogin(r.Context(), nav.PathQuery)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrRedirectLoginDisabled) {
			status = http.StatusNotFound
		}
		metrics.EmitLogin(h.Metrics, "oauth", metrics.ResultError)
		WriteError(w, ErrorParams{Code: status, ErrCode: "login_failed", Err: err})
		return
	}

	jar := h.cookies()
	jar.setTemporary(w, r, oauthStateCookie, result.State)
	jar.setTemporary(w, r, oauthNonceCookie, result.Nonce)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes an IdP login.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	session, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		metrics.EmitLogin(h.Metrics, "oauth", metrics.ResultError)
		h.logger().ErrorContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     errors.New("could not complete sign-in"),
		})
		return
	}

	metrics.EmitLogin(h.Metrics, "oauth", metrics.ResultSuccess)
	jar := h.cookies()
	jar.setSession(w, r, session)
	jar.clear(w, r, oauthStateCookie)
	jar.clear(w, r, oauthNonceCookie)

	http.Redirect(w, r, nav.PathQuery, http.StatusFound)
}

// Logout deletes the server-side session and clears the session flag.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := accessToken(r); token != "" {
		if err := h.Svc.Logout(r.Context(), token); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.cookies().clear(w, r, AccessTokenCookie)

	if IsAJAX(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": nav.PathLogin,
		})
		return
	}

	http.Redirect(w, r, nav.PathLogin, http.StatusSeeOther)
}

type statusUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *statusUser `json:"user,omitempty"`
	ExpiresAt     string      `json:"expires_at,omitempty"`
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	token := accessToken(r)
	if token == "" {
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), token)
	if err != nil {
		if !service.IsStaleSession(err) {
			h.logger().WarnContext(r.Context(), "session lookup failed", "error", err)
			writeSessionUnavailable(w)
			return
		}
		h.cookies().clear(w, r, AccessTokenCookie)
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}

	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: true,
		User: &statusUser{
			ID:        session.UserID,
			FirstName: session.FirstName,
			LastName:  session.LastName,
			Email:     session.Email,
		},
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
