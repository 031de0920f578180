package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError(t *testing.T) {
	plain := errors.New("boom")

	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantField string
	}{
		{name: "pgx no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
		{name: "sql no rows", err: fmt.Errorf("get user: %w", sql.ErrNoRows), wantCode: ErrCodeNotFound},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
		{
			name:      "unique with column",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "email"},
			wantCode:  ErrCodeConflict,
			wantField: "email",
		},
		{
			name: "unique from detail",
			err: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: "Key (email)=(a@example.com) already exists.",
			},
			wantCode:  ErrCodeConflict,
			wantField: "email",
		},
		{
			name:      "unique from constraint",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
			wantCode:  ErrCodeConflict,
			wantField: "email",
		},
		{
			name:     "unique ambiguous constraint",
			err:      &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_first_last_key"},
			wantCode: ErrCodeConflict,
		},
		{
			name:      "not null",
			err:       &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "password_hash"},
			wantCode:  ErrCodeValidation,
			wantField: "password_hash",
		},
		{
			name:     "other pg error",
			err:      &pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			wantCode: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapDBError(tt.err)
			assert.Equal(t, tt.wantCode, GetCode(got))
			assert.Equal(t, tt.wantField, GetField(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, MapDBError(nil))
	assert.Same(t, plain, MapDBError(plain))
}
