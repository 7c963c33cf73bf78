package handler

import (
	"time"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

type adminRegisterRequest struct {
	Name        string `json:"name"         validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=6"`
	AdminSecret string `json:"admin_secret" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	User *domain.Identity `json:"user"`
}

type authResponse struct {
	Token string           `json:"token,omitempty"`
	User  *domain.Identity `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type createChallengeRequest struct {
	Title             string    `json:"title"             validate:"required,max=200"`
	Description       string    `json:"description"       validate:"required"`
	Category          string    `json:"category"`
	ParticipationType string    `json:"participationType" validate:"omitempty,oneof=INDIVIDUAL TEAM"`
	CashPrize         float64   `json:"cashPrize"         validate:"gte=0"`
	MaxParticipants   int       `json:"maxParticipants"   validate:"gte=0"`
	Deadline          time.Time `json:"deadline"          validate:"required"`
}

type joinRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type challengeResponse struct {
	Challenge *domain.Challenge `json:"challenge"`
}

type challengeListResponse struct {
	Challenges []*domain.Challenge `json:"challenges"`
	Total      int                 `json:"total"`
}

func newChallengeList(cs []*domain.Challenge) challengeListResponse {
	if cs == nil {
		cs = []*domain.Challenge{}
	}
	return challengeListResponse{Challenges: cs, Total: len(cs)}
}

type ownedChallenge struct {
	*domain.Challenge
	IsExpired     bool `json:"isExpired"`
	DaysRemaining int  `json:"daysRemaining"`
}

type ownedChallengeListResponse struct {
	Challenges []ownedChallenge `json:"challenges"`
	Total      int              `json:"total"`
}

func newOwnedChallengeList(cs []*domain.Challenge, now time.Time) ownedChallengeListResponse {
	out := make([]ownedChallenge, 0, len(cs))
	for _, c := range cs {
		out = append(out, ownedChallenge{Challenge: c, IsExpired: c.Expired(now), DaysRemaining: c.DaysRemaining(now)})
	}
	return ownedChallengeListResponse{Challenges: out, Total: len(out)}
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type submitSolutionRequest struct {
	ChallengeID string `json:"challengeId" validate:"required"`
	Attachments string `json:"attachments" validate:"required,url"`
	Content     string `json:"content"`
}

type solutionResponse struct {
	Message  string           `json:"message"`
	Solution *domain.Solution `json:"solution"`
}

type leaderboardResponse struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}
