package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scagent/scagent-web/config"
	mockauth "github.com/scagent/scagent-web/internal/mocks/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAuthService_MockMode(t *testing.T) {
	store := mockauth.NewMemorySessionStore()
	svc, err := BuildAuthService(context.Background(), AuthConfig{
		Auth: config.AuthConfig{
			Mode:       config.AuthModeMock,
			SessionTTL: time.Hour,
			DevAuth:    config.DevAuthConfig{UserID: "dev", Email: "dev@example.com", FirstName: "Dev"},
		},
		Sessions: store,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	assert.True(t, svc.SupportsRedirectLogin())
	assert.False(t, svc.SupportsPasswordLogin())

	begin, err := svc.BeginLogin(context.Background(), "/query")
	require.NoError(t, err)
	session, err := svc.CompleteLogin(context.Background(), completeInput(begin.State, begin.Nonce))
	require.NoError(t, err)
	assert.Equal(t, "dev", session.UserID)
	assert.Equal(t, 1, store.Len())
}

func TestBuildAuthService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr string
	}{
		{
			name:    "no session store",
			cfg:     AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeMock}},
			wantErr: "redis client",
		},
		{
			name:    "local without database",
			cfg:     AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeLocal}, Sessions: mockauth.NewMemorySessionStore()},
			wantErr: "database connection",
		},
		{
			name:    "mock without user",
			cfg:     AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeMock}, Sessions: mockauth.NewMemorySessionStore()},
			wantErr: "UserID is required",
		},
		{
			name:    "oauth missing settings",
			cfg:     AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeOAuth}, Sessions: mockauth.NewMemorySessionStore()},
			wantErr: "OAUTH_CLIENT_ID",
		},
		{
			name:    "unknown mode",
			cfg:     AuthConfig{Auth: config.AuthConfig{Mode: "ldap"}, Sessions: mockauth.NewMemorySessionStore()},
			wantErr: "unsupported auth mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := BuildAuthService(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
