package domain

import (
	"fmt"
	"strings"
	"time"
)

// ChallengeStatus represents the moderation state of a challenge.
type ChallengeStatus string

const (
	StatusPending  ChallengeStatus = "PENDING"
	StatusApproved ChallengeStatus = "APPROVED"
	StatusRejected ChallengeStatus = "REJECTED"
)

// validTransitions defines the moderation state machine. APPROVED and
// REJECTED are terminal: there is no resubmission path.
var validTransitions = map[ChallengeStatus][]ChallengeStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

// ParseChallengeStatus normalises casing and rejects unknown values.
func ParseChallengeStatus(s string) (ChallengeStatus, error) {
	st := ChallengeStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ChallengeStatus) CanTransitionTo(next ChallengeStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s ChallengeStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

const (
	ParticipationIndividual = "INDIVIDUAL"
	ParticipationTeam       = "TEAM"
)

// Challenge is the moderated aggregate. The authoritative copy lives in the
// resource service; clients hold read-only snapshots.
type Challenge struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	ParticipationType string          `json:"participationType,omitempty"`
	CashPrize         float64         `json:"cashPrize"`
	Deadline          time.Time       `json:"deadline"`
	CreatedBy         string          `json:"createdBy"`
	Status            ChallengeStatus `json:"status"`
	ParticipantCount  int             `json:"participantCount"`
	MaxParticipants   int             `json:"maxParticipants,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Expired reports whether the deadline has passed at now.
func (c *Challenge) Expired(now time.Time) bool {
	return !c.Deadline.After(now)
}

// DaysRemaining counts whole days left until the deadline, zero once it has
// passed.
func (c *Challenge) DaysRemaining(now time.Time) int {
	if c.Expired(now) {
		return 0
	}
	return int(c.Deadline.Sub(now) / (24 * time.Hour))
}
