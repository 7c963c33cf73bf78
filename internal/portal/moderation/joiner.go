package moderation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// Enroller is the join endpoint of the remote API.
type Enroller interface {
	JoinChallenge(ctx context.Context, id, userID string) error
}

// Joiner sends at most one join per challenge at a time. It is not tied to a
// moderation view and lives as long as its owner.
type Joiner struct {
	res Enroller
	log zerolog.Logger

	mu      sync.Mutex
	joining map[string]struct{}
}

func NewJoiner(res Enroller, log zerolog.Logger) *Joiner {
	return &Joiner{res: res, log: log, joining: make(map[string]struct{})}
}

// Join enrols identity in a challenge. The participant count is not bumped
// locally; the next Load shows the server's figure.
func (j *Joiner) Join(ctx context.Context, id string, identity *domain.Identity) error {
	if identity == nil {
		return domain.ErrNotAuthenticated
	}
	j.mu.Lock()
	if _, busy := j.joining[id]; busy {
		j.mu.Unlock()
		return ErrJoinInFlight
	}
	j.joining[id] = struct{}{}
	j.mu.Unlock()
	defer func() {
		j.mu.Lock()
		delete(j.joining, id)
		j.mu.Unlock()
	}()

	if err := j.res.JoinChallenge(ctx, id, identity.ID); err != nil {
		return err
	}
	j.log.Info().Str("challenge_id", id).Str("user_id", identity.ID).Msg("joined challenge")
	return nil
}

// Joining reports whether a join for id is outstanding.
func (j *Joiner) Joining(id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, busy := j.joining[id]
	return busy
}
