package main

import (
	"errors"
	"fmt"
	"strings"

	redisadapter "github.com/scagent/scagent-web/internal/adapters/redis"
	"github.com/scagent/scagent-web/internal/bootstrap"
)

func runSessionRevoke(cmdCtx *commandContext, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: scagent-admin session-revoke <session-id>")
	}
	id := strings.TrimSpace(args[0])

	client, err := bootstrap.ConnectRedis(cmdCtx.Ctx, bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	store := redisadapter.NewSessionStoreWithPrefix(client, cmdCtx.Config.Redis.SessionPrefix)
	exists, err := store.Exists(cmdCtx.Ctx, id)
	if err != nil {
		return fmt.Errorf("look up session: %w", err)
	}
	if !exists {
		return writef(cmdCtx.Out, "session %s not found\n", id)
	}
	if err := store.Delete(cmdCtx.Ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return writef(cmdCtx.Out, "session %s revoked\n", id)
}
