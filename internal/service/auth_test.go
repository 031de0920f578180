package service

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/mocks"
	mockauth "github.com/scagent/scagent-web/internal/mocks/auth"
	"github.com/scagent/scagent-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestAuthService(t *testing.T) (*AuthService, *mockauth.MockAuthProvider, *mockauth.MemorySessionStore) {
	t.Helper()
	provider := mockauth.NewMockAuthProvider()
	sessions := mockauth.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Provider:    provider,
		Credentials: mockauth.StaticCredentials{Email: "ada@example.com", Password: "correct-horse"},
		Sessions:    sessions,
		SessionTTL:  2 * time.Hour,
		Now:         func() time.Time { return fixedNow },
	})
	return svc, provider, sessions
}

func TestNewAuthService_Defaults(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{Sessions: mockauth.NewMemorySessionStore()})

	assert.Equal(t, DefaultSessionTTL, svc.sessionTTL)
	assert.NotNil(t, svc.now)
	assert.False(t, svc.SupportsRedirectLogin())
	assert.False(t, svc.SupportsPasswordLogin())
}

func TestAuthService_BeginLogin(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	result, err := svc.BeginLogin(context.Background(), "http://localhost:8080/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)

	_, err = svc.BeginLogin(context.Background(), "")
	assert.ErrorContains(t, err, "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	svc, provider, _ := newTestAuthService(t)
	provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("idp down")
	}

	_, err := svc.BeginLogin(context.Background(), "http://localhost/cb")
	assert.ErrorContains(t, err, "begin auth flow: idp down")
}

func TestAuthService_RedirectLoginDisabled(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{Sessions: mockauth.NewMemorySessionStore()})

	_, err := svc.BeginLogin(context.Background(), "http://localhost/cb")
	assert.ErrorIs(t, err, ErrRedirectLoginDisabled)

	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	assert.ErrorIs(t, err, ErrRedirectLoginDisabled)
}

func TestAuthService_CompleteLogin(t *testing.T) {
	svc, provider, sessions := newTestAuthService(t)
	expiry := fixedNow.Add(45 * time.Minute)
	provider.ExchangeFunc = func(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
		assert.Equal(t, ports.ExchangeInput{Code: "code", State: "state", Nonce: "nonce"}, in)
		return domainauth.Identity{UserID: "u-1", Email: "u1@example.com", FirstName: "U", ExpiresAt: expiry}, nil
	}

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "code", State: "state", Nonce: "nonce"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, expiry, sess.ExpiresAt)

	stored, err := sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, *sess, stored)
}

func TestAuthService_CompleteLogin_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name  string
		input CompleteLoginInput
		want  string
	}{
		{"missing code", CompleteLoginInput{State: "s", Nonce: "n"}, "authorization code is required"},
		{"missing state", CompleteLoginInput{Code: "c", Nonce: "n"}, "state parameter is required"},
		{"missing nonce", CompleteLoginInput{Code: "c", State: "s"}, "nonce parameter is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CompleteLogin(context.Background(), tt.input)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestAuthService_CompleteLogin_ZeroExpiryUsesTTL(t *testing.T) {
	svc, provider, _ := newTestAuthService(t)
	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{UserID: "u"}, nil
	}

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(2*time.Hour), sess.ExpiresAt)
}

func TestAuthService_PasswordLogin(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)

	sess, err := svc.PasswordLogin(context.Background(), "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sess.Email)
	assert.Equal(t, fixedNow.Add(2*time.Hour), sess.ExpiresAt)
	assert.Equal(t, 1, sessions.Len())

	_, err = svc.PasswordLogin(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, mockauth.ErrInvalidCredentials)
	assert.Equal(t, 1, sessions.Len())
}

func TestAuthService_PasswordLoginDisabled(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{Sessions: mockauth.NewMemorySessionStore()})

	_, err := svc.PasswordLogin(context.Background(), "a@example.com", "pw")
	assert.ErrorIs(t, err, ErrPasswordLoginDisabled)
}

func TestAuthService_SaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := NewAuthService(AuthServiceOptions{
		Credentials: mockauth.StaticCredentials{Email: "a@example.com", Password: "pw"},
		Sessions:    store,
	})

	_, err := svc.PasswordLogin(context.Background(), "a@example.com", "pw")
	assert.ErrorContains(t, err, "save session: redis down")
}

func TestAuthService_GetSession(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	ctx := context.Background()

	live := domainauth.Session{ID: "live", UserID: "u", ExpiresAt: fixedNow.Add(time.Minute)}
	stale := domainauth.Session{ID: "stale", UserID: "u", ExpiresAt: fixedNow.Add(-time.Minute)}
	require.NoError(t, sessions.Save(ctx, live))
	require.NoError(t, sessions.Save(ctx, stale))

	got, err := svc.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, live, *got)

	_, err = svc.GetSession(ctx, "stale")
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = sessions.Get(ctx, "stale")
	assert.ErrorIs(t, err, mockauth.ErrNotFound)

	_, err = svc.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, mockauth.ErrNotFound)

	_, err = svc.GetSession(ctx, "")
	assert.ErrorContains(t, err, "session ID is required")
}

func TestAuthService_GetSession_ExpiredDeleteFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "old").Return(domainauth.Session{ID: "old", ExpiresAt: fixedNow.Add(-time.Second)}, nil)
	store.EXPECT().Delete(gomock.Any(), "old").Return(errors.New("redis down"))

	svc := NewAuthService(AuthServiceOptions{Sessions: store, Now: func() time.Time { return fixedNow }})

	_, err := svc.GetSession(context.Background(), "old")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorContains(t, err, "redis down")
}

func TestIsStaleSession(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	ctx := context.Background()
	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "stale", ExpiresAt: fixedNow.Add(-time.Minute)}))

	_, missingErr := svc.GetSession(ctx, "missing")
	_, expiredErr := svc.GetSession(ctx, "stale")

	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "sess").Return(domainauth.Session{}, errors.New("dial tcp: connection refused"))
	_, outageErr := NewAuthService(AuthServiceOptions{Sessions: store}).GetSession(ctx, "sess")

	assert.True(t, IsStaleSession(missingErr))
	assert.True(t, IsStaleSession(expiredErr))
	assert.True(t, IsStaleSession(ports.ErrSessionNotFound))
	assert.False(t, IsStaleSession(outageErr))
	assert.False(t, IsStaleSession(nil))
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, sessions := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, domainauth.Session{ID: "s1", ExpiresAt: fixedNow.Add(time.Hour)}))
	require.NoError(t, svc.Logout(ctx, "s1"))
	assert.Zero(t, sessions.Len())

	assert.NoError(t, svc.Logout(ctx, ""))
}
