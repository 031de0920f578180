package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	scagent "github.com/scagent/scagent-web"
	"github.com/scagent/scagent-web/internal/domain/nav"
	"github.com/scagent/scagent-web/internal/observability/statsd"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	// Nav is required; it decides every page navigation.
	Nav *nav.Controller
	// Auth is optional; without it no login endpoints or query API are mounted.
	Auth  AuthServiceInterface
	Query QueryServiceInterface
	// Renderer is optional; when nil one is built from the embedded (or, in dev, on-disk) templates.
	Renderer     *TemplateRenderer
	Metrics      statsd.Sink
	ReadyChecks  map[string]ReadyCheck
	CookieDomain string
	IsDev        bool         // Development mode flag for template hot reloading
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := services.Renderer
	if renderer == nil {
		var err error
		renderer, err = newDefaultRenderer(services.IsDev, logger)
		if err != nil {
			logger.Error("failed to create template renderer", slog.Any("error", err))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.Handle("GET /readyz", readyHandler(services.ReadyChecks, logger))
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))

	navHandler := &NavigationHandler{
		Nav:      services.Nav,
		Renderer: renderer,
		Metrics:  services.Metrics,
		IsDev:    services.IsDev,
		Logger:   logger,
	}

	if services.Auth != nil {
		navHandler.Sessions = services.Auth
		navHandler.Login = LoginOptions{
			Password: services.Auth.SupportsPasswordLogin(),
			Redirect: services.Auth.SupportsRedirectLogin(),
		}
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			Renderer:     renderer,
			CookieDomain: services.CookieDomain,
			Metrics:      services.Metrics,
			IsDev:        services.IsDev,
			Logger:       logger,
		})
		if services.Query != nil {
			requireAuth := RequireAuth(services.Auth, services.CookieDomain)
			qh := &QueryHandlers{Svc: services.Query, Metrics: services.Metrics, Logger: logger}
			mux.Handle("POST /api/query", requireAuth(http.HandlerFunc(qh.Ask)))
		}
	}

	// Unknown API paths answer JSON instead of being treated as page navigations.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("no such endpoint")})
	})

	// Every other path is a page navigation decided by the route table.
	mux.Handle("/", navHandler)

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.PasswordLogin)
	mux.HandleFunc("GET /auth/oauth/login", h.RedirectLogin)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// newDefaultRenderer loads templates from disk in dev mode and from the embedded FS otherwise.
func newDefaultRenderer(isDev bool, logger *slog.Logger) (*TemplateRenderer, error) {
	var templateFS fs.FS
	if isDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
	} else {
		sub, err := fs.Sub(scagent.TemplateFS, TemplatePathFromRoot)
		if err != nil {
			return nil, err
		}
		templateFS = sub
	}
	return NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		DevMode:    isDev,
		Logger:     logger,
	})
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))), false)
	}

	staticSub, err := fs.Sub(scagent.StaticFS, StaticPathFromRoot)
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", slog.Any("error", err))
		return http.NotFoundHandler()
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServerFS(staticSub)), true)
}

// staticWithCacheHeaders adds cache headers; assets are cached for an hour outside dev mode.
func staticWithCacheHeaders(handler http.Handler, cacheable bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}
