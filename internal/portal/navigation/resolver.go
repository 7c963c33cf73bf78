package navigation

import (
	"net/url"
	"strings"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// Resolver picks where a successful login lands.
type Resolver struct {
	intent *Intent
}

func NewResolver(intent *Intent) *Resolver {
	return &Resolver{intent: intent}
}

// AfterLogin consumes the remembered intent, if any, and falls back to the
// role's dashboard.
func (r *Resolver) AfterLogin(id *domain.Identity) string {
	if path, ok := r.intent.Consume(); ok {
		if safe, ok := sanitizePath(path); ok {
			return safe
		}
	}
	return DefaultPath(id)
}

// DefaultPath is the landing page of the ordinary login form. Admins land
// on their dashboard only through the admin login flow.
func DefaultPath(id *domain.Identity) string {
	if id.HasRole(domain.RoleChallenger) {
		return PathChallengerDashboard
	}
	return PathSolverDashboard
}

// sanitizePath only accepts local absolute paths.
func sanitizePath(raw string) (string, bool) {
	next := strings.TrimSpace(raw)
	if next == "" || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "", false
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "", false
	}
	if !strings.HasPrefix(parsed.Path, "/") {
		return "", false
	}
	if parsed.RawQuery != "" {
		return parsed.Path + "?" + parsed.RawQuery, true
	}
	return parsed.Path, true
}
