package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/scagent/scagent-web/config"
	"github.com/scagent/scagent-web/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	// needsConfig commands load the environment configuration before running.
	needsConfig bool
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	In     io.Reader
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)) //nolint:forbidigo // CLI exit status
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	logger := slog.New(slog.NewJSONHandler(errOut, nil))

	if len(args) < 1 {
		_ = printUsage(errOut)
		return 2
	}

	cmdName := args[0]
	cmd, ok := commands()[cmdName]
	if !ok {
		_ = writef(errOut, "unknown command %q\n\n", cmdName)
		_ = printUsage(errOut)
		return 2
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Out:    out,
		In:     in,
	}
	if cmd.needsConfig {
		cfg, err := bootstrap.LoadConfig()
		if err != nil {
			logger.Error("load config", "error", err)
			return 1
		}
		cmdCtx.Config = cfg
		cmdCtx.Logger = bootstrap.InitLogger(cfg.Observability.LogLevel)
	}

	if err := cmd.run(cmdCtx, args[1:]); err != nil {
		cmdCtx.Logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", err)
		return 1
	}
	return 0
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run user store database migrations",
			needsConfig: true,
			run:         runMigrations,
		},
		"create-user": {
			name:        "create-user",
			description: "Register a local account for password sign-in",
			needsConfig: true,
			run:         runCreateUser,
		},
		"session-revoke": {
			name:        "session-revoke",
			description: "Delete a server-side session by its accessToken value",
			needsConfig: true,
			run:         runSessionRevoke,
		},
		"routes": {
			name:        "routes",
			description: "Print the navigation route table, optionally only the named routes",
			run:         runRoutes,
		},
		"resolve": {
			name:        "resolve",
			description: "Show where a navigation to a path ends up",
			run:         runResolve,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: scagent-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-16s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
