package httpx

// Cookie names. AccessTokenCookie is the session flag the navigation guard reads.
const (
	AccessTokenCookie = "accessToken"
	oauthStateCookie  = "oauth_state"
	oauthNonceCookie  = "oauth_nonce"
)

// oauthCookieMaxAge bounds how long a started redirect login may take.
const oauthCookieMaxAge = 600 // 10 minutes

// Template paths used for loading templates in tests and dev mode.
const (
	TemplatePathFromRoot = "web/templates"       // From project root
	TemplatePathFromTest = "../../web/templates" // From internal/http test files
	StaticPathFromRoot   = "web/static"
)

// MaxQueryBodyBytes caps the JSON body accepted by the query endpoint.
const MaxQueryBodyBytes = 64 << 10

// Content templates are keyed by the view name carried on navigation routes.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	"login": "login-content",
	"query": "query-content",
}

// ContentTemplateFor returns the content template for a view.
// Falls back to login-content for unknown views.
func ContentTemplateFor(view string) string {
	if name, ok := contentTemplates[view]; ok {
		return name
	}
	return "login-content"
}

// HasContentTemplate reports whether view has a registered content template.
func HasContentTemplate(view string) bool {
	_, ok := contentTemplates[view]
	return ok
}
