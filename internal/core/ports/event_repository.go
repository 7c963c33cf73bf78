package ports

import (
	"context"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// AuditRepository persists moderation events to the audit collection.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.ModerationEvent) error
}
