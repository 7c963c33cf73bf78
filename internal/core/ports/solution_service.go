package ports

import (
	"context"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

type SubmitSolutionInput struct {
	ChallengeID string
	Attachments string
	Content     string
	Solver      *domain.Identity
}

// SolutionService covers submissions and the public ranking.
type SolutionService interface {
	Submit(ctx context.Context, in SubmitSolutionInput) (*domain.Solution, error)
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}
