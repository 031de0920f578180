package nav

import "errors"

// ErrNoRoute is returned when a path matches no route. The default table always has a
// wildcard, so this only surfaces for custom tables.
var ErrNoRoute = errors.New("no route matches path")

// Resolution is the result of resolving one navigation target.
type Resolution struct {
	// Route is the matched route (the wildcard entry for unmatched paths).
	Route Route
	Decision
}

// Controller owns a route table and resolves navigations against it.
// It holds no mutable state and is safe for concurrent use.
type Controller struct {
	table *Table
}

// NewController returns a controller over table.
func NewController(table *Table) *Controller {
	return &Controller{table: table}
}

// Table returns the controller's route table.
func (c *Controller) Table() *Table { return c.table }

// Resolve decides where a navigation to path ends up for the given session.
//
// Redirect routes resolve to their redirect target regardless of session; the follow-up
// navigation to that target is resolved separately and runs the guard again.
func (c *Controller) Resolve(path string, session SessionState) (Resolution, error) {
	to, ok := c.table.Match(path)
	if !ok {
		return Resolution{}, ErrNoRoute
	}

	if to.Redirect != "" {
		return Resolution{
			Route:    to,
			Decision: Decision{Outcome: OutcomeRedirect, Location: to.Redirect},
		}, nil
	}

	return Resolution{Route: to, Decision: Guard(to, Route{}, session)}, nil
}
