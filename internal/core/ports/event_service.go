package ports

import (
	"context"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// AuditService records moderation events.
type AuditService interface {
	Record(ctx context.Context, event domain.ModerationEvent) error
}

// AuditPublisher hands events to the asynchronous audit pipeline.
type AuditPublisher interface {
	Enqueue(event domain.ModerationEvent)
}

// JoinLock serialises join attempts for the same (challenge, user) pair.
type JoinLock interface {
	Acquire(ctx context.Context, challengeID, userID string) (bool, error)
	Release(ctx context.Context, challengeID, userID string) error
}
