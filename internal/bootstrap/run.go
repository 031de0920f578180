package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/scagent/scagent-web/config"
	httpx "github.com/scagent/scagent-web/internal/http"
)

// Infrastructure holds the shared connections opened at startup.
type Infrastructure struct {
	// DB is nil unless the auth mode needs the user store.
	DB    *sql.DB
	Redis redis.UniversalClient
}

// Close closes every open connection.
func (i Infrastructure) Close() error {
	var errs []error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ReadyChecks pings each open connection.
func (i Infrastructure) ReadyChecks() map[string]httpx.ReadyCheck {
	checks := map[string]httpx.ReadyCheck{}
	if i.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return i.Redis.Ping(ctx).Err() }
	}
	if i.DB != nil {
		checks["postgres"] = i.DB.PingContext
	}
	return checks
}

// ConnectInfrastructure opens Redis and, when the auth mode needs it, Postgres.
func ConnectInfrastructure(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (Infrastructure, error) {
	dbCfg := DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}

	redisClient, err := ConnectRedis(ctx, dbCfg)
	if err != nil {
		return Infrastructure{}, fmt.Errorf("connect redis: %w", err)
	}
	infra := Infrastructure{Redis: redisClient}

	if !cfg.NeedsPostgres() {
		return infra, nil
	}

	db, err := ConnectDB(ctx, dbCfg)
	if err != nil {
		return Infrastructure{}, errors.Join(fmt.Errorf("connect db: %w", err), infra.Close())
	}
	infra.DB = db
	return infra, nil
}

// Run starts the web server and blocks until SIGINT/SIGTERM or a fatal server error.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (err error) {
	if cfg == nil {
		return errors.New("app config is required")
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := ConnectInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	if infra.DB != nil {
		if cfg.Postgres.RunMigrationsOnStart {
			if err = RunMigrations(ctx, infra.DB, logger); err != nil {
				return err
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	services, err := NewServices(ctx, ServiceDeps{
		Config:      cfg,
		DB:          infra.DB,
		RedisClient: infra.Redis,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close services failed", "error", cerr)
		}
	}()

	handler := BuildHTTPHandler(HTTPHandlerConfig{
		Config:      cfg,
		Services:    services,
		ReadyChecks: infra.ReadyChecks(),
		Logger:      logger,
	})

	return ServeHTTP(ctx, NewHTTPServer(cfg.HTTP.Addr, handler), nil, cfg.HTTP.ShutdownTimeout, logger)
}
