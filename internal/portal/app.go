// Package portal composes the client: one session store shared by the
// navigation guard, the login flows and the moderation workflow.
package portal

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/portal/moderation"
	"github.com/thinkstack/marketplace/internal/portal/navigation"
	"github.com/thinkstack/marketplace/internal/portal/remote"
	"github.com/thinkstack/marketplace/internal/portal/session"
)

// Remote is everything the portal needs from the API.
type Remote interface {
	session.IdentityService
	navigation.Authenticator
	moderation.Resource
	Register(ctx context.Context, reg remote.Registration) (*domain.Identity, error)
	ListChallenges(ctx context.Context, status domain.ChallengeStatus) ([]domain.Challenge, error)
	Categories(ctx context.Context) ([]string, error)
	MyChallenges(ctx context.Context) ([]remote.OwnedChallenge, error)
	SubmitSolution(ctx context.Context, sol remote.Solution) (*domain.Solution, error)
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

type App struct {
	remote Remote
	log    zerolog.Logger
	store  *session.Store
	intent *navigation.Intent
	nav    *navigation.Navigator
	login  *navigation.LoginFlow
	joins  *moderation.Joiner

	mu   sync.Mutex
	view *moderation.Workflow
}

func New(r Remote, log zerolog.Logger) *App {
	store := session.NewStore(r, log.With().Str("component", "session").Logger())
	intent := &navigation.Intent{}
	return &App{
		remote: r,
		log:    log,
		store:  store,
		intent: intent,
		nav:    navigation.NewNavigator(store, navigation.NewGuard(intent), navigation.Routes),
		login:  navigation.NewLoginFlow(r, store, navigation.NewResolver(intent), log.With().Str("component", "login").Logger()),
		joins:  moderation.NewJoiner(r, log.With().Str("component", "join").Logger()),
	}
}

// Start bootstraps the session. It returns once the identity is known.
func (a *App) Start(ctx context.Context) {
	a.store.Bootstrap(ctx)
}

// Close ends the current moderation view. The next call to Moderation
// opens a fresh one.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view != nil {
		a.view.Close()
		a.view = nil
	}
}

func (a *App) Session() session.Snapshot {
	return a.store.Snapshot()
}

func (a *App) Visit(path string) navigation.Outcome {
	out := a.nav.Visit(path)
	a.log.Debug().Str("path", path).Stringer("decision", out.Decision).Str("location", out.Location).Msg("visit")
	return out
}

func (a *App) Login(ctx context.Context, creds remote.Credentials) (string, error) {
	return a.login.Login(ctx, creds)
}

func (a *App) AdminLogin(ctx context.Context, creds remote.Credentials) (string, error) {
	return a.login.AdminLogin(ctx, creds)
}

func (a *App) Logout(ctx context.Context) {
	a.store.Logout(ctx)
}

// Register creates an account without logging in.
func (a *App) Register(ctx context.Context, reg remote.Registration) (*domain.Identity, error) {
	return a.remote.Register(ctx, reg)
}

// Challenges is the public listing; an empty status means APPROVED.
func (a *App) Challenges(ctx context.Context, status domain.ChallengeStatus) ([]domain.Challenge, error) {
	return a.remote.ListChallenges(ctx, status)
}

// Moderation hands out the current view to ADMIN sessions only, opening a
// new one when there is none or the last one was closed.
func (a *App) Moderation() (*moderation.Workflow, error) {
	if !a.store.Snapshot().Identity.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.view == nil || a.view.Closed() {
		a.view = moderation.New(a.remote, a.log.With().Str("component", "moderation").Logger())
	}
	return a.view, nil
}

// Join enrols the current identity in a challenge. It does not depend on a
// moderation view being open.
func (a *App) Join(ctx context.Context, challengeID string) error {
	return a.joins.Join(ctx, challengeID, a.store.Identity())
}

func (a *App) Categories(ctx context.Context) ([]string, error) {
	return a.remote.Categories(ctx)
}

func (a *App) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return a.remote.Leaderboard(ctx)
}

// MyChallenges lists the session's own postings. It is refused locally when
// nobody is logged in.
func (a *App) MyChallenges(ctx context.Context) ([]remote.OwnedChallenge, error) {
	if a.store.Identity() == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return a.remote.MyChallenges(ctx)
}

// SubmitSolution is open to SOLVER sessions only.
func (a *App) SubmitSolution(ctx context.Context, sol remote.Solution) (*domain.Solution, error) {
	id := a.store.Identity()
	if id == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !id.HasRole(domain.RoleSolver) {
		return nil, domain.ErrForbidden
	}
	created, err := a.remote.SubmitSolution(ctx, sol)
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("challenge_id", sol.ChallengeID).Str("solution_id", created.ID).Msg("solution submitted")
	return created, nil
}
