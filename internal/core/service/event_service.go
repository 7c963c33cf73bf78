package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

var _ ports.AuditService = (*AuditService)(nil)

// AuditService persists moderation events handed over by the dispatcher.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Record persists a single moderation event.
func (s *AuditService) Record(ctx context.Context, event domain.ModerationEvent) error {
	if event.ChallengeID == "" || event.Action == "" {
		return fmt.Errorf("record audit: %w", domain.NewValidationError("event", "challenge id and action are required"))
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}

	s.log.Debug().
		Str("challenge_id", event.ChallengeID).
		Str("action", string(event.Action)).
		Str("actor", event.ActorID).
		Msg("moderation event recorded")
	return nil
}
