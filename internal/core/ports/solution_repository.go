package ports

import (
	"context"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// SolutionRepository persists solver submissions.
type SolutionRepository interface {
	// Create reports domain.ErrSolutionExists when the solver already has a
	// solution for the challenge.
	Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error)
	// Leaderboard ranks solvers with a positive total score, highest first,
	// ties broken by completed challenges.
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}
