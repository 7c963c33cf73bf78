package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thinkstack/marketplace/internal/api/middleware"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

type stubChallengeService struct {
	createFn func(ctx context.Context, in ports.CreateChallengeInput) (*domain.Challenge, error)
	getFn    func(ctx context.Context, id string) (*domain.Challenge, error)
	listFn   func(ctx context.Context, status domain.ChallengeStatus) ([]*domain.Challenge, error)
	joinFn   func(ctx context.Context, id string, caller *domain.Identity) error
	mineFn   func(ctx context.Context, caller *domain.Identity) ([]*domain.Challenge, error)
	catsFn   func(ctx context.Context) ([]string, error)
}

func (s *stubChallengeService) Create(ctx context.Context, in ports.CreateChallengeInput) (*domain.Challenge, error) {
	return s.createFn(ctx, in)
}

func (s *stubChallengeService) Get(ctx context.Context, id string) (*domain.Challenge, error) {
	return s.getFn(ctx, id)
}

func (s *stubChallengeService) List(ctx context.Context, status domain.ChallengeStatus) ([]*domain.Challenge, error) {
	return s.listFn(ctx, status)
}

func (s *stubChallengeService) Join(ctx context.Context, id string, caller *domain.Identity) error {
	return s.joinFn(ctx, id, caller)
}

func (s *stubChallengeService) Mine(ctx context.Context, caller *domain.Identity) ([]*domain.Challenge, error) {
	return s.mineFn(ctx, caller)
}

func (s *stubChallengeService) Categories(ctx context.Context) ([]string, error) {
	return s.catsFn(ctx)
}

var challenger = &domain.Identity{ID: "c-1", Name: "Cleo", Role: domain.RoleChallenger}

func TestChallengeHandler_List_StatusQuery(t *testing.T) {
	e := newTestEcho()
	var gotStatus domain.ChallengeStatus
	h := NewChallengeHandler(&stubChallengeService{
		listFn: func(ctx context.Context, status domain.ChallengeStatus) ([]*domain.Challenge, error) {
			gotStatus = status
			return []*domain.Challenge{{ID: "1", Status: domain.StatusPending}}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/challenges?status=pending", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotStatus != domain.StatusPending {
		t.Fatalf("expected PENDING filter, got %q", gotStatus)
	}

	var resp challengeListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 1 || resp.Challenges[0].ID != "1" {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestChallengeHandler_List_EmptyIsArray(t *testing.T) {
	e := newTestEcho()
	h := NewChallengeHandler(&stubChallengeService{
		listFn: func(ctx context.Context, status domain.ChallengeStatus) ([]*domain.Challenge, error) {
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/challenges", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if _, ok := resp["challenges"].([]any); !ok {
		t.Fatalf("expected an empty array, got %s", rec.Body.String())
	}
}

func TestChallengeHandler_List_UnknownStatus(t *testing.T) {
	e := newTestEcho()
	h := NewChallengeHandler(&stubChallengeService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/challenges?status=archived", nil), httptest.NewRecorder())

	var ve *domain.ValidationError
	if err := h.List(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestChallengeHandler_Create_UsesCaller(t *testing.T) {
	e := newTestEcho()
	h := NewChallengeHandler(&stubChallengeService{
		createFn: func(ctx context.Context, in ports.CreateChallengeInput) (*domain.Challenge, error) {
			if in.CreatedBy != challenger.ID {
				t.Fatalf("expected creator %s, got %s", challenger.ID, in.CreatedBy)
			}
			return &domain.Challenge{ID: "9", Title: in.Title, Category: "AI", Status: domain.StatusPending}, nil
		},
	})

	deadline := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/challenges",
		`{"title":"Routing","description":"Find routes","category":"AI","cashPrize":100,"deadline":"`+deadline+`"}`), rec)
	c.Set(middleware.ContextIdentity, challenger)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestChallengeHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewChallengeHandler(&stubChallengeService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/challenges", `{"description":"x","cashPrize":-5}`), httptest.NewRecorder())
	c.Set(middleware.ContextIdentity, challenger)

	err := h.Create(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"title", "cashPrize", "deadline"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("expected message for %s, got %+v", field, ve.Fields)
		}
	}
}

func TestChallengeHandler_Join(t *testing.T) {
	solver := &domain.Identity{ID: "s-1", Role: domain.RoleSolver}

	t.Run("joins as caller", func(t *testing.T) {
		e := newTestEcho()
		h := NewChallengeHandler(&stubChallengeService{
			joinFn: func(ctx context.Context, id string, caller *domain.Identity) error {
				if id != "42" || caller.ID != solver.ID {
					t.Fatalf("unexpected join args: %s %+v", id, caller)
				}
				return nil
			},
		})
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/challenges/42/join", `{"userId":"s-1"}`), rec)
		c.SetParamNames("id")
		c.SetParamValues("42")
		c.Set(middleware.ContextIdentity, solver)

		if err := h.Join(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("cannot join on behalf of someone else", func(t *testing.T) {
		e := newTestEcho()
		h := NewChallengeHandler(&stubChallengeService{
			joinFn: func(ctx context.Context, id string, caller *domain.Identity) error {
				t.Fatalf("should not be called")
				return nil
			},
		})
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/challenges/42/join", `{"userId":"other"}`), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues("42")
		c.Set(middleware.ContextIdentity, solver)

		if err := h.Join(c); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("requires a session", func(t *testing.T) {
		e := newTestEcho()
		h := NewChallengeHandler(&stubChallengeService{})
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/challenges/42/join", `{"userId":"s-1"}`), httptest.NewRecorder())

		if err := h.Join(c); !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestChallengeHandler_Mine(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := newTestEcho()
	h := NewChallengeHandler(&stubChallengeService{
		mineFn: func(ctx context.Context, caller *domain.Identity) ([]*domain.Challenge, error) {
			if caller.ID != challenger.ID {
				t.Fatalf("expected caller %s, got %s", challenger.ID, caller.ID)
			}
			return []*domain.Challenge{
				{ID: "1", Status: domain.StatusPending, Deadline: now.Add(50 * time.Hour)},
				{ID: "2", Status: domain.StatusApproved, Deadline: now.Add(-time.Hour)},
			}, nil
		},
	})
	h.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/user/challenges", nil), rec)
	c.Set(middleware.ContextIdentity, challenger)

	if err := h.Mine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp ownedChallengeListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 challenges, got %+v", resp)
	}
	if resp.Challenges[0].IsExpired || resp.Challenges[0].DaysRemaining != 2 {
		t.Errorf("expected 2 days left, got %+v", resp.Challenges[0])
	}
	if !resp.Challenges[1].IsExpired || resp.Challenges[1].DaysRemaining != 0 {
		t.Errorf("expected an expired challenge, got %+v", resp.Challenges[1])
	}
	if resp.Challenges[0].ID != "1" {
		t.Errorf("challenge fields must be inlined, got %s", rec.Body.String())
	}
}

func TestChallengeHandler_Mine_RequiresSession(t *testing.T) {
	e := newTestEcho()
	h := NewChallengeHandler(&stubChallengeService{})
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/user/challenges", nil), httptest.NewRecorder())

	if err := h.Mine(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestChallengeHandler_Categories(t *testing.T) {
	e := newTestEcho()
	h := NewChallengeHandler(&stubChallengeService{
		catsFn: func(ctx context.Context) ([]string, error) { return []string{"AI", "Logistics"}, nil },
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/challenges/categories", nil), rec)

	if err := h.Categories(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp categoriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Categories) != 2 || resp.Categories[1] != "Logistics" {
		t.Fatalf("unexpected categories %+v", resp)
	}
}
