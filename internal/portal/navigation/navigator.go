package navigation

import "github.com/thinkstack/marketplace/internal/portal/session"

// SessionReader is the read side of the session store.
type SessionReader interface {
	Snapshot() session.Snapshot
}

// Outcome is the result of visiting a path: what to do, and the path the
// portal ends up showing.
type Outcome struct {
	Decision Decision
	Location string
}

// Navigator applies the route table and the guard to a requested path.
type Navigator struct {
	session SessionReader
	guard   *Guard
	routes  []Route
}

func NewNavigator(s SessionReader, guard *Guard, routes []Route) *Navigator {
	return &Navigator{session: s, guard: guard, routes: routes}
}

func (n *Navigator) Visit(path string) Outcome {
	route, ok := Match(n.routes, path)
	if !ok {
		return Outcome{Decision: DecisionNotFound, Location: path}
	}
	if !route.Protected {
		return Outcome{Decision: DecisionRender, Location: path}
	}

	d := n.guard.Decide(n.session.Snapshot(), route.Roles, path)
	switch d {
	case DecisionRedirectLogin:
		return Outcome{Decision: d, Location: PathLogin}
	case DecisionRedirectHome:
		return Outcome{Decision: d, Location: PathHome}
	default:
		return Outcome{Decision: d, Location: path}
	}
}
