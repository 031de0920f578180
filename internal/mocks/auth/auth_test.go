package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	_, state2, nonce2, err := provider.Begin(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Exchange_FreshExpiry(t *testing.T) {
	provider := NewMockAuthProvider()

	id, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})

	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", id.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), id.ExpiresAt, 5*time.Second)
}

func TestMemorySessionStore_Lifecycle(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{}))

	sess := domainauth.Session{ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.Equal(t, ErrNotFound, err)
}

func TestStaticCredentials_Verify(t *testing.T) {
	creds := StaticCredentials{Email: "a@example.com", Password: "pw"}

	id, err := creds.Verify(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", id.Email)

	_, err = creds.Verify(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStubAgent_RecordsQuestions(t *testing.T) {
	agent := &StubAgent{Answer: ports.AgentAnswer{Answer: "42", Type: "agent_multi_tool"}}

	got, err := agent.Ask(context.Background(), "how many late orders?")
	require.NoError(t, err)
	assert.Equal(t, "42", got.Answer)
	assert.Equal(t, []string{"how many late orders?"}, agent.Questions)

	agent.Err = errors.New("backend down")
	_, err = agent.Ask(context.Background(), "again")
	assert.EqualError(t, err, "backend down")
}
