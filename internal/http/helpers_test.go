package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	"github.com/scagent/scagent-web/internal/domain/nav"
	mockauth "github.com/scagent/scagent-web/internal/mocks/auth"
	"github.com/scagent/scagent-web/internal/observability/statsd"
	"github.com/scagent/scagent-web/internal/ports"
	"github.com/scagent/scagent-web/internal/service"
)

const (
	testEmail    = "ana@example.com"
	testPassword = "s3cret-pass"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRenderer loads the real page templates from disk.
func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	require.NoError(t, err)
	return r
}

// authFixture wires a real AuthService over in-memory doubles.
type authFixture struct {
	svc      *service.AuthService
	store    *mockauth.MemorySessionStore
	provider *mockauth.MockAuthProvider
}

type authFixtureOpts struct {
	noPassword bool
	noRedirect bool
}

func newAuthFixture(t *testing.T, opts ...authFixtureOpts) *authFixture {
	t.Helper()
	var o authFixtureOpts
	if len(opts) > 0 {
		o = opts[0]
	}

	f := &authFixture{
		store:    mockauth.NewMemorySessionStore(),
		provider: mockauth.NewMockAuthProvider(),
	}
	svcOpts := service.AuthServiceOptions{
		Sessions:   f.store,
		SessionTTL: time.Hour,
	}
	if !o.noRedirect {
		svcOpts.Provider = f.provider
	}
	if !o.noPassword {
		svcOpts.Credentials = mockauth.StaticCredentials{
			Email:    testEmail,
			Password: testPassword,
			User: domainauth.Identity{
				UserID:    "user-1",
				FirstName: "Ana",
				LastName:  "Lopez",
				Email:     testEmail,
			},
		}
	}
	f.svc = service.NewAuthService(svcOpts)
	return f
}

// seedSession stores a live session and returns it.
func (f *authFixture) seedSession(t *testing.T) domainauth.Session {
	t.Helper()
	s := domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		FirstName: "Ana",
		LastName:  "Lopez",
		Email:     testEmail,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.store.Save(context.Background(), s))
	return s
}

type routerOpts struct {
	agent   ports.Agent
	metrics statsd.Sink
}

func newTestRouter(t *testing.T, f *authFixture, opts routerOpts) http.Handler {
	t.Helper()
	agent := opts.agent
	if agent == nil {
		agent = &mockauth.StubAgent{Answer: ports.AgentAnswer{Answer: "ok", Type: "agent_multi_tool"}}
	}
	return NewRouter(RouterServices{
		Nav:      nav.NewController(nav.MustDefaultTable()),
		Auth:     f.svc,
		Query:    service.NewQueryService(service.QueryServiceOptions{Agent: agent, Logger: discardLogger()}),
		Renderer: newTestRenderer(t),
		Metrics:  opts.metrics,
		Logger:   discardLogger(),
	})
}

func withSession(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: id})
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
