package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/api/handler"
	"github.com/thinkstack/marketplace/internal/api/middleware"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const testSecret = "router-secret"

type fakeAuth struct{}

func (fakeAuth) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (fakeAuth) AdminRegister(_ context.Context, _ ports.RegisterInput, _ string) (*domain.User, error) {
	return nil, domain.ErrForbidden
}

func (fakeAuth) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func (fakeAuth) AdminLogin(_ context.Context, _, _ string) (string, *domain.User, error) {
	return "", nil, domain.ErrInvalidCredentials
}

func (fakeAuth) Me(_ context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, Name: "Session User", Role: domain.RoleSolver}, nil
}

type fakeChallenges struct{}

func (fakeChallenges) Create(_ context.Context, in ports.CreateChallengeInput) (*domain.Challenge, error) {
	return &domain.Challenge{ID: "new", Title: in.Title, Status: domain.StatusPending}, nil
}

func (fakeChallenges) Get(_ context.Context, id string) (*domain.Challenge, error) {
	return nil, domain.ErrChallengeNotFound
}

func (fakeChallenges) List(_ context.Context, _ domain.ChallengeStatus) ([]*domain.Challenge, error) {
	return nil, nil
}

func (fakeChallenges) Join(_ context.Context, _ string, _ *domain.Identity) error {
	return domain.ErrChallengeClosed
}

func (fakeChallenges) Mine(_ context.Context, caller *domain.Identity) ([]*domain.Challenge, error) {
	return []*domain.Challenge{{ID: "7", CreatedBy: caller.ID, Deadline: time.Now().Add(-time.Hour)}}, nil
}

func (fakeChallenges) Categories(_ context.Context) ([]string, error) {
	return []string{"AI"}, nil
}

type fakeSolutions struct{}

func (fakeSolutions) Submit(_ context.Context, _ ports.SubmitSolutionInput) (*domain.Solution, error) {
	return nil, fmt.Errorf("submit: %w", domain.ErrSolutionExists)
}

func (fakeSolutions) Leaderboard(_ context.Context) ([]domain.LeaderboardEntry, error) {
	return []domain.LeaderboardEntry{{UserName: "Sam", Score: 50, ChallengesCompleted: 2}}, nil
}

type fakeModeration struct{}

func (fakeModeration) ListAll(_ context.Context) ([]*domain.Challenge, error) {
	return []*domain.Challenge{}, nil
}

func (fakeModeration) Transition(_ context.Context, _ string, _ domain.ChallengeStatus, _ *domain.Identity) (*domain.Challenge, error) {
	return nil, fmt.Errorf("transition: %w", domain.ErrInvalidTransition)
}

func (fakeModeration) Delete(_ context.Context, _ string, _ *domain.Identity) error {
	return nil
}

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Auth:       fakeAuth{},
		Challenges: fakeChallenges{},
		Moderation: fakeModeration{},
		Solutions:  fakeSolutions{},
		Checks:     map[string]handler.Check{},
		JWTSecret:  testSecret,
		Log:        zerolog.Nop(),
		Registry:   prometheus.NewRegistry(),
	})
}

func sessionToken(t *testing.T, role domain.Role) string {
	t.Helper()
	tkn, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"name": "Test",
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tkn
}

func do(t *testing.T, h http.Handler, method, path, body string, role domain.Role) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionToken(t, role)})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestRouter_ErrorMapping(t *testing.T) {
	h := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		role   domain.Role
		want   int
	}{
		{"duplicate email", http.MethodPost, "/api/register", `{"name":"A","email":"a@example.com","password":"secret"}`, "", http.StatusConflict},
		{"validation", http.MethodPost, "/api/register", `{"name":"A","email":"bad","password":"secret"}`, "", http.StatusBadRequest},
		{"bad credentials", http.MethodPost, "/api/login", `{"email":"a@example.com","password":"nope"}`, "", http.StatusUnauthorized},
		{"admin secret", http.MethodPost, "/api/admin-register", `{"name":"A","email":"a@example.com","password":"secret","admin_secret":"x"}`, "", http.StatusForbidden},
		{"missing challenge", http.MethodGet, "/api/challenges/nope", "", "", http.StatusNotFound},
		{"join closed challenge", http.MethodPost, "/api/challenges/1/join", `{"userId":"user-1"}`, domain.RoleSolver, http.StatusConflict},
		{"illegal transition", http.MethodPatch, "/api/challenges/1/status", `{"status":"APPROVED"}`, domain.RoleAdmin, http.StatusUnprocessableEntity},
		{"second solution", http.MethodPost, "/api/solutions", `{"challengeId":"1","attachments":"https://github.com/a/b"}`, domain.RoleSolver, http.StatusConflict},
		{"solution without link", http.MethodPost, "/api/solutions", `{"challengeId":"1"}`, domain.RoleSolver, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body, tc.role)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}
			if errorMessage(t, rec) == "" {
				t.Fatalf("expected an error message, got %s", rec.Body.String())
			}
		})
	}
}

func TestRouter_AccessControl(t *testing.T) {
	h := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		role   domain.Role
		want   int
	}{
		{"admin list anonymous", http.MethodGet, "/api/admin/challenges", "", "", http.StatusUnauthorized},
		{"admin list as solver", http.MethodGet, "/api/admin/challenges", "", domain.RoleSolver, http.StatusForbidden},
		{"admin list as admin", http.MethodGet, "/api/admin/challenges", "", domain.RoleAdmin, http.StatusOK},
		{"delete as challenger", http.MethodDelete, "/api/challenges/1", "", domain.RoleChallenger, http.StatusForbidden},
		{"delete as admin", http.MethodDelete, "/api/challenges/1", "", domain.RoleAdmin, http.StatusOK},
		{"create as solver", http.MethodPost, "/api/challenges", `{"title":"t"}`, domain.RoleSolver, http.StatusForbidden},
		{"join anonymous", http.MethodPost, "/api/challenges/1/join", `{"userId":"user-1"}`, "", http.StatusUnauthorized},
		{"public list", http.MethodGet, "/api/challenges", "", "", http.StatusOK},
		{"categories are not an id", http.MethodGet, "/api/challenges/categories", "", "", http.StatusOK},
		{"leaderboard is public", http.MethodGet, "/api/leaderboard", "", "", http.StatusOK},
		{"own challenges anonymous", http.MethodGet, "/api/user/challenges", "", "", http.StatusUnauthorized},
		{"own challenges", http.MethodGet, "/api/user/challenges", "", domain.RoleChallenger, http.StatusOK},
		{"submit anonymous", http.MethodPost, "/api/solutions", `{}`, "", http.StatusUnauthorized},
		{"submit as challenger", http.MethodPost, "/api/solutions", `{}`, domain.RoleChallenger, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body, tc.role)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_MeReflectsSession(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodGet, "/api/me", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"user":null`) {
		t.Fatalf("expected anonymous 200 with null user, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/me", "", domain.RoleSolver)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"user-1"`) {
		t.Fatalf("expected session user, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	h := newTestRouter()

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		if rec := do(t, h, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_OwnChallengesCarryCountdown(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/api/user/challenges", "", domain.RoleChallenger)

	var resp struct {
		Challenges []map[string]any `json:"challenges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Challenges) != 1 {
		t.Fatalf("expected one challenge, got %s", rec.Body.String())
	}
	got := resp.Challenges[0]
	if got["id"] != "7" || got["isExpired"] != true || got["daysRemaining"] != float64(0) {
		t.Fatalf("unexpected item %+v", got)
	}
}
