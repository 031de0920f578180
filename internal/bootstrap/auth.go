package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/scagent/scagent-web/config"
	"github.com/scagent/scagent-web/internal/adapters/devauth"
	"github.com/scagent/scagent-web/internal/adapters/oidc"
	redisadapter "github.com/scagent/scagent-web/internal/adapters/redis"
	"github.com/scagent/scagent-web/internal/data"
	"github.com/scagent/scagent-web/internal/ports"
	"github.com/scagent/scagent-web/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth          config.AuthConfig
	RedisClient   redis.UniversalClient
	SessionPrefix string
	// Sessions overrides the Redis-backed store (tests, single-process setups).
	Sessions ports.SessionStore
	// DB backs password logins in local mode.
	DB     *sql.DB
	Logger *slog.Logger
}

// BuildAuthService creates the auth service for the configured auth mode:
// local verifies passwords against the user store, oauth signs in through an OIDC
// provider, and mock signs everyone in as the configured development user.
func BuildAuthService(ctx context.Context, cfg AuthConfig) (*service.AuthService, error) {
	sessions, err := sessionStore(cfg)
	if err != nil {
		return nil, err
	}

	opts := service.AuthServiceOptions{
		Sessions:   sessions,
		SessionTTL: cfg.Auth.SessionTTL,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeLocal, "":
		users, userErr := buildUserService(cfg.DB)
		if userErr != nil {
			return nil, userErr
		}
		opts.Credentials = users

	case config.AuthModeMock:
		prov, provErr := devauth.NewProvider(devauth.Config{
			UserID:          cfg.Auth.DevAuth.UserID,
			Email:           cfg.Auth.DevAuth.Email,
			FirstName:       cfg.Auth.DevAuth.FirstName,
			LastName:        cfg.Auth.DevAuth.LastName,
			SessionDuration: cfg.Auth.SessionTTL,
		})
		if provErr != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", provErr)
		}
		if cfg.Logger != nil {
			cfg.Logger.WarnContext(ctx, "mock auth enabled; every sign-in is the development user",
				"user_id", cfg.Auth.DevAuth.UserID)
		}
		opts.Provider = prov

	case config.AuthModeOAuth:
		if validateErr := cfg.Auth.Validate(); validateErr != nil {
			return nil, validateErr
		}
		oauth := cfg.Auth.OAuth
		prov, provErr := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
		})
		if provErr != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", provErr)
		}
		opts.Provider = prov

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}

	return service.NewAuthService(opts), nil
}

//nolint:ireturn // callers only need the port
func sessionStore(cfg AuthConfig) (ports.SessionStore, error) {
	if cfg.Sessions != nil {
		return cfg.Sessions, nil
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("auth requires a redis client for sessions")
	}
	prefix := cfg.SessionPrefix
	if prefix == "" {
		prefix = redisadapter.DefaultSessionPrefix
	}
	return redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, prefix), nil
}

func buildUserService(db *sql.DB) (*service.UserService, error) {
	if db == nil {
		return nil, errors.New("local auth requires a database connection")
	}
	return service.NewUserService(service.UserServiceOptions{Repo: data.NewUserRepo(db)})
}
