package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const (
	publicListLimit = 50
	defaultCategory = "General"
)

var _ ports.ChallengeService = (*ChallengeService)(nil)

type ChallengeService struct {
	repo   ports.ChallengeRepository
	locks  ports.JoinLock
	logger zerolog.Logger
	now    func() time.Time
}

func NewChallengeService(repo ports.ChallengeRepository, locks ports.JoinLock, logger zerolog.Logger) *ChallengeService {
	return &ChallengeService{repo: repo, locks: locks, logger: logger, now: time.Now}
}

// Create posts a new challenge. Every challenge starts PENDING and is only
// listed publicly once an admin approves it.
func (s *ChallengeService) Create(ctx context.Context, in ports.CreateChallengeInput) (*domain.Challenge, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	switch {
	case title == "":
		return nil, domain.NewValidationError("title", "title is required")
	case description == "":
		return nil, domain.NewValidationError("description", "description is required")
	case in.CashPrize < 0:
		return nil, domain.NewValidationError("cashPrize", "cashPrize must not be negative")
	case !in.Deadline.After(s.now()):
		return nil, domain.NewValidationError("deadline", "deadline must be in the future")
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultCategory
	}
	participation := strings.ToUpper(strings.TrimSpace(in.ParticipationType))
	if participation == "" {
		participation = domain.ParticipationIndividual
	}

	c := &domain.Challenge{
		Title:             title,
		Description:       description,
		Category:          category,
		ParticipationType: participation,
		CashPrize:         in.CashPrize,
		MaxParticipants:   in.MaxParticipants,
		Deadline:          in.Deadline.UTC(),
		CreatedBy:         in.CreatedBy,
		Status:            domain.StatusPending,
		CreatedAt:         s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create challenge")
		return nil, err
	}

	s.logger.Info().Str("challenge_id", created.ID).Str("created_by", in.CreatedBy).Msg("challenge created")
	return created, nil
}

func (s *ChallengeService) Get(ctx context.Context, id string) (*domain.Challenge, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ChallengeService) List(ctx context.Context, status domain.ChallengeStatus) ([]*domain.Challenge, error) {
	if status == "" {
		status = domain.StatusApproved
	}
	return s.repo.List(ctx, ports.ListChallengesFilter{Status: status, Limit: publicListLimit})
}

// Join records the caller as a participant of an approved challenge.
// Concurrent joins for the same (challenge, user) pair are rejected with
// ErrAlreadyJoined; participant capacity is not enforced.
func (s *ChallengeService) Join(ctx context.Context, id string, caller *domain.Identity) error {
	if !caller.Valid() {
		return domain.ErrNotAuthenticated
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("join: %w", err)
	}
	if c.Status != domain.StatusApproved {
		return domain.ErrChallengeClosed
	}

	acquired, err := s.locks.Acquire(ctx, id, caller.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("challenge_id", id).Msg("join lock unavailable, joining anyway")
	} else if !acquired {
		return domain.ErrAlreadyJoined
	} else {
		defer func() {
			if relErr := s.locks.Release(context.WithoutCancel(ctx), id, caller.ID); relErr != nil {
				s.logger.Warn().Err(relErr).Str("challenge_id", id).Msg("failed to release join lock")
			}
		}()
	}

	if err := s.repo.AddParticipant(ctx, id, caller.ID); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	s.logger.Info().Str("challenge_id", id).Str("user_id", caller.ID).Msg("challenge joined")
	return nil
}

// Mine lists the caller's own challenges newest first, including those still
// waiting for moderation.
func (s *ChallengeService) Mine(ctx context.Context, caller *domain.Identity) ([]*domain.Challenge, error) {
	if !caller.Valid() {
		return nil, domain.ErrNotAuthenticated
	}
	return s.repo.List(ctx, ports.ListChallengesFilter{CreatedBy: caller.ID})
}

func (s *ChallengeService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
