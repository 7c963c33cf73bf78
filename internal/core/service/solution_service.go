package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const leaderboardLimit = 100

var _ ports.SolutionService = (*SolutionService)(nil)

type SolutionService struct {
	solutions  ports.SolutionRepository
	challenges ports.ChallengeRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewSolutionService(solutions ports.SolutionRepository, challenges ports.ChallengeRepository, log zerolog.Logger) *SolutionService {
	return &SolutionService{solutions: solutions, challenges: challenges, log: log, now: time.Now}
}

// Submit records the solver's entry for an approved challenge. Attachments
// is the link to the solution repository and is required.
func (s *SolutionService) Submit(ctx context.Context, in ports.SubmitSolutionInput) (*domain.Solution, error) {
	if !in.Solver.Valid() {
		return nil, domain.ErrNotAuthenticated
	}
	attachments := strings.TrimSpace(in.Attachments)
	switch {
	case strings.TrimSpace(in.ChallengeID) == "":
		return nil, domain.NewValidationError("challengeId", "challengeId is required")
	case attachments == "":
		return nil, domain.NewValidationError("attachments", "attachments is required")
	case !absoluteURL(attachments):
		return nil, domain.NewValidationError("attachments", "attachments must be an http(s) link")
	}

	c, err := s.challenges.FindByID(ctx, in.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if c.Status != domain.StatusApproved {
		return nil, domain.ErrChallengeClosed
	}

	created, err := s.solutions.Create(ctx, &domain.Solution{
		ChallengeID: c.ID,
		SubmittedBy: in.Solver.ID,
		SolverName:  in.Solver.Name,
		Content:     strings.TrimSpace(in.Content),
		Attachments: attachments,
		Status:      domain.SolutionSubmitted,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	s.log.Info().Str("challenge_id", c.ID).Str("user_id", in.Solver.ID).Str("solution_id", created.ID).Msg("solution submitted")
	return created, nil
}

func (s *SolutionService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.solutions.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		s.log.Error().Err(err).Msg("leaderboard query failed")
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
