package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thinkstack/marketplace/internal/api/middleware"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

type stubSolutionService struct {
	submitFn func(ctx context.Context, in ports.SubmitSolutionInput) (*domain.Solution, error)
	boardFn  func(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

func (s *stubSolutionService) Submit(ctx context.Context, in ports.SubmitSolutionInput) (*domain.Solution, error) {
	return s.submitFn(ctx, in)
}

func (s *stubSolutionService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.boardFn(ctx)
}

var solverIdentity = &domain.Identity{ID: "s-1", Name: "Sam", Role: domain.RoleSolver}

func TestSolutionHandler_Submit(t *testing.T) {
	e := newTestEcho()
	h := NewSolutionHandler(&stubSolutionService{
		submitFn: func(ctx context.Context, in ports.SubmitSolutionInput) (*domain.Solution, error) {
			if in.Solver.ID != solverIdentity.ID || in.ChallengeID != "42" {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Solution{ID: "sol-1", ChallengeID: in.ChallengeID, SubmittedBy: in.Solver.ID, Attachments: in.Attachments, Status: domain.SolutionSubmitted}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/solutions",
		`{"challengeId":"42","attachments":"https://github.com/sam/routes","content":"notes"}`), rec)
	c.Set(middleware.ContextIdentity, solverIdentity)

	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp solutionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Solution == nil || resp.Solution.ID != "sol-1" || resp.Solution.Status != domain.SolutionSubmitted {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSolutionHandler_Submit_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewSolutionHandler(&stubSolutionService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/solutions", `{"attachments":"not a link"}`), httptest.NewRecorder())
	c.Set(middleware.ContextIdentity, solverIdentity)

	var ve *domain.ValidationError
	if err := h.Submit(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"challengeId", "attachments"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("expected message for %s, got %+v", field, ve.Fields)
		}
	}
}

func TestSolutionHandler_Submit_Duplicate(t *testing.T) {
	e := newTestEcho()
	h := NewSolutionHandler(&stubSolutionService{
		submitFn: func(ctx context.Context, in ports.SubmitSolutionInput) (*domain.Solution, error) {
			return nil, domain.ErrSolutionExists
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/solutions",
		`{"challengeId":"42","attachments":"https://github.com/sam/routes"}`), httptest.NewRecorder())
	c.Set(middleware.ContextIdentity, solverIdentity)

	if err := h.Submit(c); !errors.Is(err, domain.ErrSolutionExists) {
		t.Fatalf("expected ErrSolutionExists, got %v", err)
	}
	if got := submitResult(domain.ErrSolutionExists); got != "duplicate" {
		t.Errorf("expected duplicate metric label, got %q", got)
	}
}

func TestSolutionHandler_Leaderboard(t *testing.T) {
	e := newTestEcho()
	h := NewSolutionHandler(&stubSolutionService{
		boardFn: func(ctx context.Context) ([]domain.LeaderboardEntry, error) {
			return []domain.LeaderboardEntry{{UserID: "s-1", UserName: "Sam", Score: 50, ChallengesCompleted: 2}}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil), rec)

	if err := h.Leaderboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string][]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	entries := resp["leaderboard"]
	if len(entries) != 1 || entries[0]["userName"] != "Sam" || entries[0]["challengesCompleted"] != float64(2) {
		t.Fatalf("unexpected leaderboard %s", rec.Body.String())
	}
	if _, leaked := entries[0]["userId"]; leaked {
		t.Errorf("user ids must not be published, got %s", rec.Body.String())
	}
}
