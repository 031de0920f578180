package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/scagent/scagent-web/internal/bootstrap"
	"github.com/scagent/scagent-web/internal/data"
	"github.com/scagent/scagent-web/internal/service"
)

const defaultMigrationTimeout = 5 * time.Minute

type migrateOptions struct {
	Timeout time.Duration
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum time to wait for migrations to finish")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be positive")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	return withDB(ctx, cmdCtx, func(db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return migrateErr
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

type createUserOptions struct {
	Email         string
	Password      string
	PasswordStdin bool
	FirstName     string
	LastName      string
}

func parseCreateUserFlags(args []string, in io.Reader) (createUserOptions, error) {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts createUserOptions
	fs.StringVar(&opts.Email, "email", "", "Email address used to sign in (required)")
	fs.StringVar(&opts.Password, "password", "", "Password (prefer --password-stdin)")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the password from the first line of stdin")
	fs.StringVar(&opts.FirstName, "first-name", "", "Given name")
	fs.StringVar(&opts.LastName, "last-name", "", "Family name")

	if err := fs.Parse(args); err != nil {
		return createUserOptions{}, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return createUserOptions{}, errors.New("--email is required")
	}
	if opts.PasswordStdin {
		if opts.Password != "" {
			return createUserOptions{}, errors.New("use either --password or --password-stdin")
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return createUserOptions{}, fmt.Errorf("read password: %w", err)
		}
		opts.Password = strings.TrimRight(line, "\r\n")
	}
	if opts.Password == "" {
		return createUserOptions{}, errors.New("a password is required")
	}
	return opts, nil
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateUserFlags(args, cmdCtx.In)
	if err != nil {
		return err
	}

	return withDB(cmdCtx.Ctx, cmdCtx, func(db *sql.DB) error {
		users, svcErr := service.NewUserService(service.UserServiceOptions{Repo: data.NewUserRepo(db)})
		if svcErr != nil {
			return svcErr
		}
		u, createErr := users.Create(cmdCtx.Ctx, service.CreateUserRequest{
			Email:     opts.Email,
			Password:  opts.Password,
			FirstName: opts.FirstName,
			LastName:  opts.LastName,
		})
		if createErr != nil {
			return fmt.Errorf("create user: %w", createErr)
		}
		return writef(cmdCtx.Out, "created user %s (%s)\n", u.ID, u.Email)
	})
}

func withDB(ctx context.Context, cmdCtx *commandContext, fn func(db *sql.DB) error) error {
	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()
	return fn(db)
}
