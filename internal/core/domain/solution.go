package domain

import "time"

type SolutionStatus string

const SolutionSubmitted SolutionStatus = "SUBMITTED"

// Solution is one solver's entry for a challenge. A solver submits at most
// once per challenge; Score stays zero until the entry is graded.
type Solution struct {
	ID          string         `json:"id"`
	ChallengeID string         `json:"challengeId"`
	SubmittedBy string         `json:"submittedBy"`
	SolverName  string         `json:"solverName"`
	Content     string         `json:"content,omitempty"`
	Attachments string         `json:"attachments"`
	Score       float64        `json:"score"`
	Status      SolutionStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// LeaderboardEntry aggregates a solver's graded solutions.
type LeaderboardEntry struct {
	UserID              string  `json:"-"`
	UserName            string  `json:"userName"`
	Score               float64 `json:"score"`
	ChallengesCompleted int     `json:"challengesCompleted"`
}
