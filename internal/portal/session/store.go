// Package session holds the portal's view of who is logged in.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// IdentityService is the remote side of the session.
type IdentityService interface {
	Me(ctx context.Context) (*domain.Identity, error)
	Logout(ctx context.Context) error
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Identity      *domain.Identity
	Bootstrapping bool
}

// Authenticated reports whether an identity is known. It is false while
// bootstrapping even though the identity is then unknown rather than absent.
func (s Snapshot) Authenticated() bool {
	return !s.Bootstrapping && s.Identity != nil
}

// Store is the single session of a portal process. The zero value is not
// usable; construct it with NewStore.
type Store struct {
	svc IdentityService
	log zerolog.Logger

	once  sync.Once
	ready chan struct{}

	mu            sync.RWMutex
	identity      *domain.Identity
	bootstrapping bool
	// generation increments on every Login and Logout so a slow bootstrap
	// cannot overwrite a newer identity.
	generation uint64
}

func NewStore(svc IdentityService, log zerolog.Logger) *Store {
	return &Store{
		svc:           svc,
		log:           log,
		ready:         make(chan struct{}),
		bootstrapping: true,
	}
}

// Bootstrap resolves the identity behind any existing session exactly once.
// Failures leave the session anonymous and are only logged.
func (s *Store) Bootstrap(ctx context.Context) {
	s.once.Do(func() {
		s.mu.RLock()
		gen := s.generation
		s.mu.RUnlock()

		id, err := s.svc.Me(ctx)
		switch {
		case err != nil:
			s.log.Debug().Err(err).Msg("session bootstrap failed, continuing anonymous")
			id = nil
		case id != nil && !id.Valid():
			s.log.Debug().Str("user_id", id.ID).Msg("session bootstrap returned an invalid identity")
			id = nil
		}

		s.mu.Lock()
		if s.generation == gen {
			s.identity = cloneIdentity(id)
		}
		s.bootstrapping = false
		close(s.ready)
		s.mu.Unlock()

		if id != nil {
			s.log.Debug().Str("user_id", id.ID).Str("role", id.Role.String()).Msg("session restored")
		}
	})
}

// Ready is closed once bootstrap has completed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until bootstrap completes or ctx ends.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login replaces the identity with one the identity service just returned.
func (s *Store) Login(id *domain.Identity) error {
	if !id.Valid() {
		return errors.New("session: refusing invalid identity")
	}
	s.mu.Lock()
	s.identity = cloneIdentity(id)
	s.generation++
	s.mu.Unlock()
	return nil
}

// Logout tells the identity service and clears the identity whatever the
// outcome of that call.
func (s *Store) Logout(ctx context.Context) {
	if err := s.svc.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
	s.mu.Lock()
	s.identity = nil
	s.generation++
	s.mu.Unlock()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Identity: cloneIdentity(s.identity), Bootstrapping: s.bootstrapping}
}

// Identity returns a copy of the current identity, nil when absent or not
// yet known.
func (s *Store) Identity() *domain.Identity {
	return s.Snapshot().Identity
}

func cloneIdentity(id *domain.Identity) *domain.Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
