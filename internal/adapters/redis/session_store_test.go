package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-123",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	session := testSession("test-session-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, "Ada Lovelace", retrieved.DisplayName())
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("test-session-delete", 30*time.Minute)))

	ok, err := store.Exists(ctx, "test-session-delete")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err = store.Get(ctx, "test-session-delete")
	assert.Equal(t, ErrNotFound, err)

	ok, err = store.Exists(ctx, "test-session-delete")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_SaveExpired(t *testing.T) {
	store := NewSessionStore(setupTestRedis(t))

	err := store.Save(context.Background(), testSession("expired", -time.Minute))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestSessionStore_GetExpiredRecordIsRemoved(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("aging", time.Hour)))

	// Jump the store's clock past expiry while the Redis TTL is still alive.
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := store.Get(ctx, "aging")
	assert.Equal(t, ErrNotFound, err)

	n, err := client.Exists(ctx, DefaultSessionPrefix+"aging").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "custom:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("p1", time.Hour)))

	n, err := client.Exists(ctx, "custom:p1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
