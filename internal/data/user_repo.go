package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/scagent/scagent-web/internal/data/pgxutil"
	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	apperrors "github.com/scagent/scagent-web/internal/errors"
	"github.com/scagent/scagent-web/internal/ports"
)

// UserRepo provides database operations for locally registered users.
type UserRepo struct {
	DB *sql.DB
}

var _ ports.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, email, first_name, last_name, password_hash, created_at`

// Create inserts a user. A duplicate email is reported as an apperrors Conflict on field "email".
func (r *UserRepo) Create(ctx context.Context, u domainauth.User) (domainauth.User, error) {
	if u.ID == "" || u.Email == "" || u.PasswordHash == "" {
		return domainauth.User{}, errors.New("user id, email and password hash are required")
	}

	var out domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO users (id, email, first_name, last_name, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+userColumns,
			u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.CreatedAt,
		)
		return scanUser(row, &out)
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return domainauth.User{}, &apperrors.AppError{
				Code:    apperrors.ErrCodeConflict,
				Message: "email already registered",
				Field:   "email",
				Cause:   err,
			}
		}
		return domainauth.User{}, fmt.Errorf("insert user: %w", mapped)
	}
	return out, nil
}

// GetByEmail returns the user with the given (case-insensitive) email, or an apperrors NotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domainauth.User, error) {
	var out domainauth.User
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err := scanUser(row, &out); err != nil {
		return domainauth.User{}, fmt.Errorf("get user by email: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// Count returns the number of registered users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *domainauth.User) error {
	return row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt)
}
