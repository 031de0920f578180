package httpx

import (
	"net/http"

	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
)

// PageData is the template model shared by every page.
type PageData struct {
	Title string
	// View selects the content template (see ContentTemplateFor).
	View string
	Path string

	IsAuthenticated bool
	User            *domainauth.Session

	// Login page.
	PasswordLogin bool
	RedirectLogin bool
	Email         string
	ErrorMessage  string

	IsDev bool

	// Status overrides the response status; zero means 200.
	Status int
}

// pageTitles maps views to document titles.
//
//nolint:gochecknoglobals // static read-only lookup
var pageTitles = map[string]string{
	"login": "Sign in",
	"query": "Ask the supply chain agent",
}

// newPageData builds the shared page model from the request context.
func newPageData(r *http.Request, view string) PageData {
	data := PageData{
		Title: pageTitles[view],
		View:  view,
		Path:  r.URL.Path,
	}
	if session := GetSessionFromContext(r.Context()); session != nil {
		data.IsAuthenticated = true
		data.User = session
	}
	return data
}
