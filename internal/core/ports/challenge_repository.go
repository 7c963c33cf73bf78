package ports

import (
	"context"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// ListChallengesFilter carries the query parameters for listing challenges.
type ListChallengesFilter struct {
	Status    domain.ChallengeStatus // empty = every status (moderation listing)
	CreatedBy string
	Limit     int
}

// ChallengeRepository defines persistence operations for challenges.
type ChallengeRepository interface {
	Create(ctx context.Context, c *domain.Challenge) (*domain.Challenge, error)
	FindByID(ctx context.Context, id string) (*domain.Challenge, error)
	List(ctx context.Context, filter ListChallengesFilter) ([]*domain.Challenge, error)
	// UpdateStatus applies the transition only while the stored status still
	// equals from. It reports domain.ErrInvalidTransition when another writer
	// got there first.
	UpdateStatus(ctx context.Context, id string, from, to domain.ChallengeStatus) error
	Delete(ctx context.Context, id string) error
	// AddParticipant records userID as a participant. Adding the same user
	// twice is a no-op.
	AddParticipant(ctx context.Context, id, userID string) error
	// Categories returns the distinct non-empty categories in use.
	Categories(ctx context.Context) ([]string, error)
}
