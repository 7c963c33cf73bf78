package navigation

import (
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/portal/session"
)

// Decision is the guard's verdict for a protected view.
type Decision int

const (
	// DecisionLoading means the identity is not known yet; show a neutral
	// placeholder and ask again once the session is ready.
	DecisionLoading Decision = iota
	DecisionRedirectLogin
	DecisionRedirectHome
	DecisionRender
	DecisionNotFound
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectHome:
		return "redirect-home"
	case DecisionRender:
		return "render"
	case DecisionNotFound:
		return "not-found"
	}
	return "unknown"
}

// Guard gates protected views. Its only side effect is remembering the
// path of an anonymous visitor.
type Guard struct {
	intent *Intent
}

func NewGuard(intent *Intent) *Guard {
	return &Guard{intent: intent}
}

// Decide returns the verdict for currentPath. An empty roles list admits any
// identity.
func (g *Guard) Decide(snap session.Snapshot, roles []domain.Role, currentPath string) Decision {
	if snap.Bootstrapping {
		return DecisionLoading
	}
	if snap.Identity == nil {
		g.intent.Remember(currentPath)
		return DecisionRedirectLogin
	}
	if len(roles) > 0 && !snap.Identity.HasRole(roles...) {
		return DecisionRedirectHome
	}
	return DecisionRender
}
