package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const moderationListLimit = 100

var _ ports.ModerationService = (*ModerationService)(nil)

// ModerationService covers the admin-only use cases.
type ModerationService struct {
	repo  ports.ChallengeRepository
	audit ports.AuditPublisher
	log   zerolog.Logger
	now   func() time.Time
}

func NewModerationService(repo ports.ChallengeRepository, audit ports.AuditPublisher, log zerolog.Logger) *ModerationService {
	return &ModerationService{repo: repo, audit: audit, log: log, now: time.Now}
}

func (s *ModerationService) ListAll(ctx context.Context) ([]*domain.Challenge, error) {
	return s.repo.List(ctx, ports.ListChallengesFilter{Limit: moderationListLimit})
}

// Transition validates the state machine and applies the change with a
// compare-and-set on the stored status.
func (s *ModerationService) Transition(ctx context.Context, id string, target domain.ChallengeStatus, actor *domain.Identity) (*domain.Challenge, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}

	if !c.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("transition: %w (from %s to %s)", domain.ErrInvalidTransition, c.Status, target)
	}

	if err := s.repo.UpdateStatus(ctx, id, c.Status, target); err != nil {
		return nil, fmt.Errorf("transition: update status: %w", err)
	}

	s.audit.Enqueue(domain.ModerationEvent{
		ID:          uuid.NewString(),
		ChallengeID: id,
		Action:      domain.ActionStatusChanged,
		From:        c.Status,
		To:          target,
		ActorID:     actor.ID,
		At:          s.now().UTC(),
	})

	s.log.Info().
		Str("challenge_id", id).
		Str("from", string(c.Status)).
		Str("to", string(target)).
		Str("actor", actor.ID).
		Msg("challenge status changed")

	updated := *c
	updated.Status = target
	return &updated, nil
}

func (s *ModerationService) Delete(ctx context.Context, id string, actor *domain.Identity) error {
	if !actor.HasRole(domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	s.audit.Enqueue(domain.ModerationEvent{
		ID:          uuid.NewString(),
		ChallengeID: id,
		Action:      domain.ActionDeleted,
		From:        c.Status,
		ActorID:     actor.ID,
		At:          s.now().UTC(),
	})

	s.log.Info().Str("challenge_id", id).Str("actor", actor.ID).Msg("challenge deleted")
	return nil
}
