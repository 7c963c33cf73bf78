// Package moderation drives the admin approval workflow from the portal:
// it caches the challenge collection and sends at most one mutation per
// challenge at a time.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

var (
	// ErrMutationInFlight is returned without a network call while another
	// mutation of the same challenge is outstanding.
	ErrMutationInFlight = errors.New("a change to this challenge is already in progress")
	// ErrJoinInFlight is the join counterpart of ErrMutationInFlight.
	ErrJoinInFlight = errors.New("a join for this challenge is already in progress")
	// ErrScopeClosed means the workflow was closed before the response
	// arrived; nothing was written to the cache.
	ErrScopeClosed = errors.New("moderation view closed")
)

// Resource is the challenge side of the remote API.
type Resource interface {
	AdminChallenges(ctx context.Context) ([]domain.Challenge, error)
	UpdateStatus(ctx context.Context, id string, status domain.ChallengeStatus) error
	DeleteChallenge(ctx context.Context, id string) error
	JoinChallenge(ctx context.Context, id, userID string) error
}

// Result is the outcome of a workflow operation. Challenges is the freshly
// fetched collection on success. Applied reports whether the remote
// mutation went through, which can be true alongside a refetch error.
type Result struct {
	Challenges []domain.Challenge
	Applied    bool
	Err        error
}

func (r Result) OK() bool { return r.Err == nil }

// Workflow owns the cached collection and the per-challenge mutation
// markers of one moderation view.
type Workflow struct {
	res Resource
	log zerolog.Logger

	loads singleflight.Group

	scope  context.Context
	cancel context.CancelFunc

	joins *Joiner

	mu       sync.Mutex
	cache    []domain.Challenge
	mutating map[string]struct{}
}

func New(res Resource, log zerolog.Logger) *Workflow {
	scope, cancel := context.WithCancel(context.Background())
	return &Workflow{
		res:      res,
		log:      log,
		scope:    scope,
		cancel:   cancel,
		joins:    NewJoiner(res, log),
		mutating: make(map[string]struct{}),
	}
}

// Close ends the view scope. Outstanding calls are cancelled and late
// responses are discarded. A closed workflow stays closed; open a new one
// for the next view.
func (w *Workflow) Close() {
	w.cancel()
}

func (w *Workflow) Closed() bool {
	return w.scope.Err() != nil
}

// bind derives a context that ends with either ctx or the view scope.
func (w *Workflow) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(w.scope, func() { cancel(ErrScopeClosed) })
	return ctx, func() {
		stop()
		cancel(nil)
	}
}

// Load fetches every challenge and replaces the cache. Concurrent loads
// share one request.
func (w *Workflow) Load(ctx context.Context) Result {
	if w.scope.Err() != nil {
		return Result{Err: ErrScopeClosed}
	}
	ch := w.loads.DoChan("load", func() (any, error) {
		// Detached from any single caller so one caller giving up does not
		// fail the others sharing the request.
		lctx, cancel := w.bind(context.WithoutCancel(ctx))
		defer cancel()
		return w.res.AdminChallenges(lctx)
	})

	select {
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	case <-w.scope.Done():
		return Result{Err: ErrScopeClosed}
	case r := <-ch:
		if r.Err != nil {
			return Result{Err: w.scopeErr(r.Err)}
		}
		return w.store(ctx, r.Val.([]domain.Challenge))
	}
}

// store replaces the cache unless the scope or ctx ended meanwhile.
func (w *Workflow) store(ctx context.Context, fresh []domain.Challenge) Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scope.Err() != nil {
		return Result{Err: ErrScopeClosed}
	}
	if err := ctx.Err(); err != nil {
		return Result{Err: err}
	}
	w.cache = slices.Clone(fresh)
	return Result{Challenges: slices.Clone(fresh)}
}

func (w *Workflow) scopeErr(err error) error {
	if w.scope.Err() != nil {
		return ErrScopeClosed
	}
	return err
}

// RequestTransition moves a cached challenge to target. It is refused
// without a network call when a mutation of id is outstanding, when id is
// not cached, or when the cached status cannot reach target.
func (w *Workflow) RequestTransition(ctx context.Context, id string, target domain.ChallengeStatus) Result {
	release, err := w.begin(id, func(current domain.Challenge) error {
		if !current.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, current.Status, target)
		}
		return nil
	})
	if err != nil {
		return Result{Err: err}
	}
	defer release()

	rctx, cancel := w.bind(ctx)
	defer cancel()
	if err := w.res.UpdateStatus(rctx, id, target); err != nil {
		w.log.Warn().Err(err).Str("challenge_id", id).Str("to", string(target)).Msg("status change failed")
		return Result{Err: w.scopeErr(err)}
	}
	w.log.Info().Str("challenge_id", id).Str("to", string(target)).Msg("status changed")
	return w.refetch(ctx)
}

// Delete removes a cached challenge. It shares the mutation marker with
// RequestTransition.
func (w *Workflow) Delete(ctx context.Context, id string) Result {
	release, err := w.begin(id, nil)
	if err != nil {
		return Result{Err: err}
	}
	defer release()

	rctx, cancel := w.bind(ctx)
	defer cancel()
	if err := w.res.DeleteChallenge(rctx, id); err != nil {
		w.log.Warn().Err(err).Str("challenge_id", id).Msg("delete failed")
		return Result{Err: w.scopeErr(err)}
	}
	w.log.Info().Str("challenge_id", id).Msg("challenge deleted")
	return w.refetch(ctx)
}

// begin checks the guards for a mutation of id and marks it in flight.
// check sees the cached challenge.
func (w *Workflow) begin(id string, check func(domain.Challenge) error) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scope.Err() != nil {
		return nil, ErrScopeClosed
	}
	if _, busy := w.mutating[id]; busy {
		return nil, ErrMutationInFlight
	}
	idx := slices.IndexFunc(w.cache, func(c domain.Challenge) bool { return c.ID == id })
	if idx < 0 {
		return nil, domain.ErrChallengeNotFound
	}
	if check != nil {
		if err := check(w.cache[idx]); err != nil {
			return nil, err
		}
	}
	w.mutating[id] = struct{}{}
	return func() {
		w.mu.Lock()
		delete(w.mutating, id)
		w.mu.Unlock()
	}, nil
}

// refetch reloads after a successful mutation. It bypasses the load group so
// it never joins a request that started before the mutation.
func (w *Workflow) refetch(ctx context.Context) Result {
	rctx, cancel := w.bind(ctx)
	defer cancel()
	fresh, err := w.res.AdminChallenges(rctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("refetch after mutation failed, cache is stale")
		return Result{Applied: true, Err: w.scopeErr(err)}
	}
	r := w.store(ctx, fresh)
	r.Applied = true
	return r
}

// Join enrols identity in a challenge while the view is open.
func (w *Workflow) Join(ctx context.Context, id string, identity *domain.Identity) error {
	if w.Closed() {
		return ErrScopeClosed
	}
	rctx, cancel := w.bind(ctx)
	defer cancel()
	if err := w.joins.Join(rctx, id, identity); err != nil {
		return w.scopeErr(err)
	}
	return nil
}

// InFlight reports whether a mutation of id is outstanding.
func (w *Workflow) InFlight(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, busy := w.mutating[id]
	return busy
}

// Snapshot returns a copy of the cached collection.
func (w *Workflow) Snapshot() []domain.Challenge {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.cache)
}

// ByStatus returns the cached challenges in status.
func (w *Workflow) ByStatus(status domain.ChallengeStatus) []domain.Challenge {
	return w.filter(func(c domain.Challenge) bool { return c.Status == status })
}

// Filter matches category exactly (empty or "All" matches every category)
// and query case-insensitively against title and description.
func (w *Workflow) Filter(category, query string) []domain.Challenge {
	query = strings.ToLower(strings.TrimSpace(query))
	allCategories := category == "" || strings.EqualFold(category, "all")
	return w.filter(func(c domain.Challenge) bool {
		if !allCategories && !strings.EqualFold(c.Category, category) {
			return false
		}
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(c.Title), query) ||
			strings.Contains(strings.ToLower(c.Description), query)
	})
}

func (w *Workflow) filter(keep func(domain.Challenge) bool) []domain.Challenge {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.Challenge, 0, len(w.cache))
	for _, c := range w.cache {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
