package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/scagent/scagent-web/config"
	"github.com/scagent/scagent-web/internal/domain/nav"
	httpx "github.com/scagent/scagent-web/internal/http"
	"golang.org/x/sync/errgroup"
)

// HTTPHandlerConfig contains what the HTTP handler is built from.
type HTTPHandlerConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	ReadyChecks map[string]httpx.ReadyCheck
	Logger      *slog.Logger
}

// BuildHTTPHandler assembles the router and wraps it with the middleware chain.
func BuildHTTPHandler(cfg HTTPHandlerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Nav:          nav.NewController(nav.MustDefaultTable()),
		Metrics:      cfg.Services.Metrics,
		ReadyChecks:  cfg.ReadyChecks,
		CookieDomain: appCfg.HTTP.CookieDomain,
		IsDev:        appCfg.IsDev,
		Logger:       logger,
	}
	// Assign only non-nil services so the router sees nil interfaces, not typed nils.
	if cfg.Services.Auth != nil {
		services.Auth = cfg.Services.Auth
	}
	if cfg.Services.Query != nil {
		services.Query = cfg.Services.Query
	}

	return wrapHandler(httpx.NewRouter(services), logger, cfg.Services, appCfg.HTTP)
}

// wrapHandler applies the middleware chain.
// Order: Recover -> Logging -> Compression -> Router, so logging sees compressed responses.
func wrapHandler(router http.Handler, logger *slog.Logger, services ServiceContainer, httpCfg config.HTTPConfig) http.Handler {
	h := router
	if httpCfg.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", httpCfg.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: httpCfg.CompressionLevel, Logger: logger})(h)
	}

	h = httpx.Logging(logger, services.Metrics)(h)
	h = httpx.Recover(logger)(h)

	return h
}

// NewHTTPServer returns a server with the application's timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Agent answers can take a while; keep this above the agent timeout.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// ServeHTTP runs server until ctx is canceled, then shuts it down within shutdownTimeout.
// If ln is nil the server listens on its own Addr.
func ServeHTTP(ctx context.Context, server *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		var err error
		if ln != nil {
			err = server.Serve(ln)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	return g.Wait()
}
