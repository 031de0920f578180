package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"path"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/domain/nav"
	"github.com/scagent/scagent-web/internal/observability/metrics"
	"github.com/scagent/scagent-web/internal/observability/statsd"
)

// SessionLookup resolves an accessToken to its server-side session.
type SessionLookup interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// LoginOptions tells the login page which sign-in methods to offer.
type LoginOptions struct {
	Password bool
	Redirect bool
}

// NavigationHandler renders the navigation controller's decisions for page requests.
type NavigationHandler struct {
	Nav      *nav.Controller
	Renderer *TemplateRenderer
	// Sessions is optional; when set, allowed pages show the signed-in user.
	Sessions SessionLookup
	Login    LoginOptions
	Metrics  statsd.Sink
	IsDev    bool
	Logger   *slog.Logger
}

func (h *NavigationHandler) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// ServeHTTP resolves r.URL.Path against the route table for the request's session state,
// then redirects or renders the route's view.
func (h *NavigationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if canonical := canonicalPath(r.URL.Path); canonical != r.URL.Path {
		target := canonical
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	session := SessionStateFromRequest(r)
	res, err := h.Nav.Resolve(r.URL.Path, session)
	if err != nil {
		h.logger().WarnContext(r.Context(), "navigation unresolved", "path", r.URL.Path, "error", err)
		http.NotFound(w, r)
		return
	}

	h.logger().DebugContext(r.Context(), "navigation resolved",
		"path", r.URL.Path,
		"route", res.Route.Name,
		"authenticated", session.Authenticated,
		"outcome", string(res.Outcome),
		"location", res.Location,
	)
	metrics.EmitNavigation(h.Metrics, res.Route.Name, string(res.Outcome))

	if !res.Allowed() {
		Redirect(w, r, res.Location)
		return
	}

	h.render(w, r, res.Route, session)
}

func (h *NavigationHandler) render(w http.ResponseWriter, r *http.Request, route nav.Route, session nav.SessionState) {
	if h.Renderer == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}

	data := newPageData(r, route.View)
	data.IsAuthenticated = session.Authenticated
	data.PasswordLogin = h.Login.Password
	data.RedirectLogin = h.Login.Redirect
	data.IsDev = h.IsDev
	if session.Authenticated && h.Sessions != nil && data.User == nil {
		if s, err := h.Sessions.GetSession(r.Context(), accessToken(r)); err == nil {
			data.User = s
		}
	}

	// A fragment swap keeps the address bar on the page that was actually rendered.
	if WantsPartial(r) {
		SetHXPushURL(w, route.Path)
	}
	if err := h.Renderer.Render(w, r, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// canonicalPath strips trailing slashes and dot segments; "/" stays "/".
func canonicalPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean(p)
}
