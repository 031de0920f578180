// Package nav holds the navigation controller: an ordered route table and the guard that
// decides, before every navigation, whether to allow it or redirect elsewhere.
// It is pure and free of HTTP concerns; internal/http renders its decisions.
package nav

import (
	"errors"
	"fmt"
	"strings"
)

// Wildcard is the catch-all path pattern. It matches any path no literal route claims.
const Wildcard = "/*"

// Route names used by the application route table.
const (
	RouteLogin    = "Login"
	RouteQuery    = "Query"
	RouteNotFound = "NotFound"
)

// Application paths.
const (
	PathLogin = "/"
	PathQuery = "/query"
)

// View names rendered by the presentation layer.
const (
	ViewLogin = "login"
	ViewQuery = "query"
)

// Route is one static entry in the navigation table.
type Route struct {
	Path string
	Name string
	// View is an opaque reference to a renderable page owned by the presentation layer.
	View string
	// RequiresAuth routes are only reachable with an authenticated session.
	RequiresAuth bool
	// PublicOnly routes are only reachable without an authenticated session.
	PublicOnly bool
	// Redirect, when set, sends the navigation to this path instead of rendering a view.
	Redirect string
}

// IsWildcard reports whether the route is the catch-all entry.
func (r Route) IsWildcard() bool { return r.Path == Wildcard }

// Table is an ordered, validated set of routes.
type Table struct {
	routes   []Route
	literal  map[string]int
	wildcard int
}

var (
	ErrEmptyTable      = errors.New("route table is empty")
	ErrInvalidPath     = errors.New("route path must start with /")
	ErrDuplicatePath   = errors.New("duplicate route path")
	ErrDuplicateName   = errors.New("duplicate route name")
	ErrWildcardNotLast = errors.New("wildcard route must be the last entry")
	ErrNoTarget        = errors.New("route needs a view or a redirect")
)

// NewTable validates routes and builds a table. Declaration order is preserved.
func NewTable(routes ...Route) (*Table, error) {
	if len(routes) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		routes:   make([]Route, len(routes)),
		literal:  make(map[string]int, len(routes)),
		wildcard: -1,
	}
	copy(t.routes, routes)

	names := make(map[string]struct{}, len(routes))
	for i, r := range t.routes {
		if err := validateRoute(r); err != nil {
			return nil, err
		}
		if r.Name != "" {
			if _, dup := names[r.Name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
			}
			names[r.Name] = struct{}{}
		}

		if r.IsWildcard() {
			// A second wildcard can never be last, so this also rejects duplicates.
			if i != len(t.routes)-1 {
				return nil, ErrWildcardNotLast
			}
			t.wildcard = i
			continue
		}

		if _, dup := t.literal[r.Path]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePath, r.Path)
		}
		t.literal[r.Path] = i
	}

	return t, nil
}

func validateRoute(r Route) error {
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, r.Path)
	}
	if r.View == "" && r.Redirect == "" {
		return fmt.Errorf("%w: %q", ErrNoTarget, r.Path)
	}
	return nil
}

// DefaultRoutes returns the application route table in declaration order.
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathLogin, Name: RouteLogin, View: ViewLogin, PublicOnly: true},
		{Path: PathQuery, Name: RouteQuery, View: ViewQuery, RequiresAuth: true},
		{Path: Wildcard, Name: RouteNotFound, Redirect: PathLogin},
	}
}

// MustDefaultTable builds the application route table and panics if it is invalid.
func MustDefaultTable() *Table {
	t, err := NewTable(DefaultRoutes()...)
	if err != nil {
		panic(fmt.Sprintf("nav: default route table: %v", err)) //nolint:forbidigo // static table, fail fast at startup
	}
	return t
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Match returns the single route matching path. Literal routes win; the wildcard only
// matches when no literal route does. ok is false when nothing matches, which can only
// happen for tables without a wildcard.
func (t *Table) Match(path string) (Route, bool) {
	if i, found := t.literal[path]; found {
		return t.routes[i], true
	}
	if t.wildcard >= 0 {
		return t.routes[t.wildcard], true
	}
	return Route{}, false
}

// Lookup returns the route registered under name.
func (t *Table) Lookup(name string) (Route, bool) {
	for _, r := range t.routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}
