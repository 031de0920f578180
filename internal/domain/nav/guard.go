package nav

// SessionState is the read-only session flag the guard decides on.
// Authenticated mirrors "a credential is present"; its content is never inspected here.
type SessionState struct {
	Authenticated bool
}

// Anonymous and SignedIn are convenience session states.
var (
	Anonymous = SessionState{}
	SignedIn  = SessionState{Authenticated: true}
)

// Outcome classifies a navigation resolution.
type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeRedirect Outcome = "redirect"
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Outcome Outcome
	// Location is the path navigation resolves to. For OutcomeAllow it is the target path.
	Location string
}

// Allowed reports whether the navigation proceeds to the requested route.
func (d Decision) Allowed() bool { return d.Outcome == OutcomeAllow }

// Guard runs before every navigation. from is accepted for symmetry with the
// navigation event and is not consulted.
//
// Rules, in order:
//  1. a RequiresAuth target without a session goes to the login page;
//  2. a PublicOnly target with a session goes to the query page;
//  3. anything else proceeds unchanged.
func Guard(to, _ Route, session SessionState) Decision {
	switch {
	case to.RequiresAuth && !session.Authenticated:
		return Decision{Outcome: OutcomeRedirect, Location: PathLogin}
	case to.PublicOnly && session.Authenticated:
		return Decision{Outcome: OutcomeRedirect, Location: PathQuery}
	default:
		return Decision{Outcome: OutcomeAllow, Location: to.Path}
	}
}
