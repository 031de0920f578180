package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/scagent/scagent-web/config"
	"github.com/scagent/scagent-web/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).ErrorContext(ctx, "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}

	logger := bootstrap.InitLogger(cfg.Observability.LogLevel)
	logStartupInfo(ctx, logger, &cfg)

	if err := bootstrap.Run(ctx, &cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	attrs := []any{
		"addr", cfg.HTTP.Addr,
		"auth_mode", string(cfg.Auth.Mode),
		"agent_url", cfg.Agent.APIURL,
		"dev", cfg.IsDev,
		"metrics", cfg.Observability.Metrics.IsEnabled(),
	}
	if cfg.NeedsPostgres() {
		attrs = append(attrs, "db", cfg.Postgres.Redacted())
	}
	logger.InfoContext(ctx, "starting scagent web", attrs...)
}
