package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}

func TestNewTemplateRenderer_BrokenTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.tmpl": {Data: []byte(`{{define "layout"}}{{.Title}{{end}}`)},
	}
	_, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys, Logger: discardLogger()})
	require.Error(t, err)
}

func TestTemplateRenderer_FullAndPartial(t *testing.T) {
	r := newTestRenderer(t)
	data := PageData{Title: "Sign in", View: "login", PasswordLogin: true}

	full := httptest.NewRecorder()
	require.NoError(t, r.RenderFull(full, data))
	assert.Equal(t, "text/html; charset=utf-8", full.Header().Get("Content-Type"))
	assert.Contains(t, full.Body.String(), "<title>Sign in")
	assert.Contains(t, full.Body.String(), `data-view="login"`)

	partial := httptest.NewRecorder()
	require.NoError(t, r.RenderPartial(partial, data))
	assert.NotContains(t, partial.Body.String(), "<title>")
	assert.Contains(t, partial.Body.String(), `data-view="login"`)
}

func TestTemplateRenderer_Status(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), PageData{View: "login", Status: http.StatusUnauthorized}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTemplateRenderer_EscapesInput(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	require.NoError(t, r.RenderPartial(rec, PageData{View: "login", PasswordLogin: true, Email: `"><script>x</script>`}))
	assert.NotContains(t, rec.Body.String(), "<script>x</script>")
}

func TestTemplateRenderer_DevModeReparses(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.tmpl":      {Data: []byte(`{{define "layout"}}[{{template "content" .}}]{{end}}{{define "content"}}{{renderSection .View .}}{{end}}`)},
		"pages/login.tmpl": {Data: []byte(`{{define "login-content"}}v1{{end}}`)},
	}
	r, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys, DevMode: true})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.RenderFull(rec, PageData{View: "login"}))
	assert.Equal(t, "[v1]", rec.Body.String())

	fsys["pages/login.tmpl"] = &fstest.MapFile{Data: []byte(`{{define "login-content"}}v2{{end}}`)}
	rec = httptest.NewRecorder()
	require.NoError(t, r.RenderFull(rec, PageData{View: "login"}))
	assert.Equal(t, "[v2]", rec.Body.String())
}

func TestContentTemplateFor(t *testing.T) {
	assert.Equal(t, "query-content", ContentTemplateFor("query"))
	assert.Equal(t, "login-content", ContentTemplateFor("login"))
	assert.Equal(t, "login-content", ContentTemplateFor("unknown"))
	assert.True(t, HasContentTemplate("query"))
	assert.False(t, HasContentTemplate("unknown"))
}
