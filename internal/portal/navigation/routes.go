package navigation

import (
	"net/url"
	"strings"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

const (
	PathHome                = "/"
	PathLogin               = "/login"
	PathAdminLogin          = "/admin-login"
	PathSolverDashboard     = "/solver-dashboard"
	PathChallengerDashboard = "/challenger-dashboard"
	PathAdminDashboard      = "/admin/dashboard"
)

// Route is one entry of the portal's route table. A protected route with no
// roles admits any logged-in identity.
type Route struct {
	Pattern   string
	Protected bool
	Roles     []domain.Role
}

// Routes is the portal route table.
var Routes = []Route{
	{Pattern: PathHome},
	{Pattern: "/challenges"},
	{Pattern: "/challenges/:id"},
	{Pattern: "/leaderboard"},
	{Pattern: "/about-us"},
	{Pattern: PathLogin},
	{Pattern: "/register"},
	{Pattern: PathAdminLogin},
	{Pattern: "/admin-register"},
	{Pattern: PathSolverDashboard, Protected: true, Roles: []domain.Role{domain.RoleSolver}},
	{Pattern: PathChallengerDashboard, Protected: true, Roles: []domain.Role{domain.RoleChallenger}},
	{Pattern: "/create-challenge", Protected: true, Roles: []domain.Role{domain.RoleChallenger}},
	{Pattern: "/teams", Protected: true},
	{Pattern: PathAdminDashboard, Protected: true, Roles: []domain.Role{domain.RoleAdmin}},
}

// Match finds the route for path. Query strings and a trailing slash are
// ignored.
func Match(routes []Route, path string) (Route, bool) {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	for _, r := range routes {
		if matchPattern(r.Pattern, path) {
			return r, true
		}
	}
	return Route{}, false
}

func matchPattern(pattern, path string) bool {
	if pattern == path {
		return true
	}
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
