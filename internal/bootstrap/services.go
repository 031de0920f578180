package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/scagent/scagent-web/config"
	"github.com/scagent/scagent-web/internal/adapters/agent"
	"github.com/scagent/scagent-web/internal/observability/statsd"
	"github.com/scagent/scagent-web/internal/ports"
	"github.com/scagent/scagent-web/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth  *service.AuthService
	Query *service.QueryService
	// Metrics is nil when metrics are disabled.
	Metrics statsd.Sink

	metricsClient *statsd.Client
}

// Close releases resources owned by the container.
func (s ServiceContainer) Close() error {
	if s.metricsClient == nil {
		return nil
	}
	return s.metricsClient.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	// Agent overrides the HTTP agent client built from Config.Agent.
	Agent  ports.Agent
	Logger *slog.Logger
}

// NewServices wires the application services from configuration and infrastructure.
func NewServices(ctx context.Context, deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps missing AppConfig")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	var container ServiceContainer
	if client := buildMetricsClient(logger, cfg.Observability.Metrics); client != nil {
		container.metricsClient = client
		container.Metrics = client
	}

	auth, err := BuildAuthService(ctx, AuthConfig{
		Auth:          cfg.Auth,
		RedisClient:   deps.RedisClient,
		SessionPrefix: cfg.Redis.SessionPrefix,
		DB:            deps.DB,
		Logger:        logger,
	})
	if err != nil {
		return container, fmt.Errorf("build auth service: %w", err)
	}
	container.Auth = auth

	agentClient := deps.Agent
	if agentClient == nil {
		client, agentErr := agent.NewClient(agent.Config{
			BaseURL: cfg.Agent.APIURL,
			Timeout: cfg.Agent.Timeout,
		})
		if agentErr != nil {
			return container, fmt.Errorf("build agent client: %w", agentErr)
		}
		agentClient = client
	}
	container.Query = service.NewQueryService(service.QueryServiceOptions{Agent: agentClient, Logger: logger})

	return container, nil
}

// buildMetricsClient returns nil when metrics are disabled or the client cannot start.
func buildMetricsClient(logger *slog.Logger, cfg config.MetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}
