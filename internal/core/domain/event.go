package domain

import "time"

// ModerationAction names what an admin did to a challenge.
type ModerationAction string

const (
	ActionStatusChanged ModerationAction = "status_changed"
	ActionDeleted       ModerationAction = "deleted"
)

// ModerationEvent is the audit record of a single moderation mutation.
type ModerationEvent struct {
	ID          string
	ChallengeID string
	Action      ModerationAction
	From        ChallengeStatus
	To          ChallengeStatus // empty for deletions
	ActorID     string
	At          time.Time
}
