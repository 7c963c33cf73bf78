package ports

import (
	"context"
	"time"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// CreateChallengeInput carries everything needed to post a new challenge.
type CreateChallengeInput struct {
	Title             string
	Description       string
	Category          string
	ParticipationType string
	CashPrize         float64
	MaxParticipants   int
	Deadline          time.Time
	CreatedBy         string
}

// ChallengeService covers the public read/write use cases.
type ChallengeService interface {
	Create(ctx context.Context, in CreateChallengeInput) (*domain.Challenge, error)
	Get(ctx context.Context, id string) (*domain.Challenge, error)
	// List defaults to APPROVED when status is empty.
	List(ctx context.Context, status domain.ChallengeStatus) ([]*domain.Challenge, error)
	Join(ctx context.Context, id string, caller *domain.Identity) error
	// Mine lists every challenge the caller posted, whatever its status.
	Mine(ctx context.Context, caller *domain.Identity) ([]*domain.Challenge, error)
	Categories(ctx context.Context) ([]string, error)
}

// ModerationService covers the admin-only use cases.
type ModerationService interface {
	ListAll(ctx context.Context) ([]*domain.Challenge, error)
	Transition(ctx context.Context, id string, target domain.ChallengeStatus, actor *domain.Identity) (*domain.Challenge, error)
	Delete(ctx context.Context, id string, actor *domain.Identity) error
}
