package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	apperrors "github.com/scagent/scagent-web/internal/errors"
	"github.com/scagent/scagent-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) domainauth.User {
	return domainauth.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuuOq6Zk9u0lP0Q0b6b0Jb0YyJ3Rk4hQ5C",
		CreatedAt:    testutil.TestTime(),
	}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser("ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.WithinDuration(t, testutil.TestTime(), created.CreatedAt, time.Second)

	got, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.PasswordHash, got.PasswordHash)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUserRepo_CreateDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newUser("dup@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("dup@example.com"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "email", apperrors.GetField(err))
}

func TestUserRepo_GetByEmailMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)

	_, err := NewUserRepo(db).GetByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepo_CreateRequiresFields(t *testing.T) {
	_, err := NewUserRepo(nil).Create(context.Background(), domainauth.User{Email: "x@example.com"})
	assert.ErrorContains(t, err, "required")
}
