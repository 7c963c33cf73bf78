// Package remote talks to the marketplace API on behalf of the portal. The
// session token travels in the cookie the API sets on login, so a Client
// keeps its own cookie jar and must not be shared between users.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up form payload. Role may be empty (SOLVER).
type Registration struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the domain taxonomy so callers can use
// errors.Is without knowing about HTTP.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		fields := e.Fields
		if len(fields) == 0 {
			fields = map[string]string{"error": e.Message}
		}
		return &domain.ValidationError{Fields: fields}
	case http.StatusUnauthorized:
		if e.Message == "invalid credentials" {
			return domain.ErrInvalidCredentials
		}
		return domain.ErrNotAuthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrChallengeNotFound
	case http.StatusUnprocessableEntity:
		return domain.ErrInvalidTransition
	case http.StatusConflict:
		switch e.Message {
		case "email already registered":
			return domain.ErrUserExists
		case "challenge is not accepting participants":
			return domain.ErrChallengeClosed
		case "solution already submitted for this challenge":
			return domain.ErrSolutionExists
		}
		return domain.ErrAlreadyJoined
	}
	return nil
}

// Client is the identity service and challenge resource client.
type Client struct {
	baseURL *url.URL
	client  *http.Client
}

// New returns a Client for the API rooted at baseURL with a fresh cookie jar.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return NewWithHTTPClient(baseURL, &http.Client{Jar: jar, Timeout: timeout})
}

// NewWithHTTPClient uses hc as is. A nil hc falls back to a client with a
// cookie jar; without a jar the session cookie is dropped after login.
func NewWithHTTPClient(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	if hc == nil {
		jar, _ := cookiejar.New(nil)
		hc = &http.Client{Jar: jar}
	}
	return &Client{baseURL: u, client: hc}, nil
}

type identityEnvelope struct {
	User *wireIdentity `json:"user"`
}

type wireIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (w *wireIdentity) toDomain() (*domain.Identity, error) {
	role, err := domain.ParseRole(w.Role)
	if err != nil {
		return nil, err
	}
	id := &domain.Identity{ID: w.ID, Name: w.Name, Email: w.Email, Role: role}
	if !id.Valid() {
		return nil, fmt.Errorf("identity payload without id")
	}
	return id, nil
}

// Me resolves the current session. A nil identity with a nil error means
// the API answered but nobody is logged in.
func (c *Client) Me(ctx context.Context) (*domain.Identity, error) {
	var out identityEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, nil
	}
	return out.User.toDomain()
}

// Login posts the credentials; the API answers with the identity and sets
// the session cookie.
func (c *Client) Login(ctx context.Context, creds Credentials) (*domain.Identity, error) {
	return c.authenticate(ctx, "/api/login", creds)
}

// AdminLogin is Login against the ADMIN-only endpoint.
func (c *Client) AdminLogin(ctx context.Context, creds Credentials) (*domain.Identity, error) {
	return c.authenticate(ctx, "/api/admin/login", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds Credentials) (*domain.Identity, error) {
	var out identityEnvelope
	if err := c.do(ctx, http.MethodPost, path, creds, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, errors.New("login response without user")
	}
	return out.User.toDomain()
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// Register creates an account. It does not start a session.
func (c *Client) Register(ctx context.Context, reg Registration) (*domain.Identity, error) {
	var out identityEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/register", reg, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, errors.New("register response without user")
	}
	return out.User.toDomain()
}

type challengeEnvelope struct {
	Challenge *domain.Challenge `json:"challenge"`
}

type challengeListEnvelope struct {
	Challenges []domain.Challenge `json:"challenges"`
	Total      int                `json:"total"`
}

// ListChallenges returns the public listing; an empty status means APPROVED.
func (c *Client) ListChallenges(ctx context.Context, status domain.ChallengeStatus) ([]domain.Challenge, error) {
	path := "/api/challenges"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}
	return c.list(ctx, path)
}

// AdminChallenges returns every challenge regardless of status.
func (c *Client) AdminChallenges(ctx context.Context) ([]domain.Challenge, error) {
	return c.list(ctx, "/api/admin/challenges")
}

func (c *Client) list(ctx context.Context, path string) ([]domain.Challenge, error) {
	var out challengeListEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Challenges {
		if err := normaliseChallenge(&out.Challenges[i]); err != nil {
			return nil, err
		}
	}
	if out.Challenges == nil {
		out.Challenges = []domain.Challenge{}
	}
	return out.Challenges, nil
}

func (c *Client) GetChallenge(ctx context.Context, id string) (*domain.Challenge, error) {
	var out challengeEnvelope
	if err := c.do(ctx, http.MethodGet, challengePath(id), nil, &out); err != nil {
		return nil, err
	}
	if out.Challenge == nil {
		return nil, domain.ErrChallengeNotFound
	}
	if err := normaliseChallenge(out.Challenge); err != nil {
		return nil, err
	}
	return out.Challenge, nil
}

// UpdateStatus asks the API to move a challenge to status.
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.ChallengeStatus) error {
	body := struct {
		Status domain.ChallengeStatus `json:"status"`
	}{status}
	return c.do(ctx, http.MethodPatch, challengePath(id)+"/status", body, nil)
}

func (c *Client) DeleteChallenge(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, challengePath(id), nil, nil)
}

func (c *Client) JoinChallenge(ctx context.Context, id, userID string) error {
	body := struct {
		UserID string `json:"userId"`
	}{userID}
	return c.do(ctx, http.MethodPost, challengePath(id)+"/join", body, nil)
}

// Solution is the submission form payload.
type Solution struct {
	ChallengeID string `json:"challengeId"`
	Attachments string `json:"attachments"`
	Content     string `json:"content,omitempty"`
}

// SubmitSolution posts the caller's entry for a challenge.
func (c *Client) SubmitSolution(ctx context.Context, sol Solution) (*domain.Solution, error) {
	var out struct {
		Solution *domain.Solution `json:"solution"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/solutions", sol, &out); err != nil {
		return nil, err
	}
	if out.Solution == nil {
		return nil, errors.New("submit response without solution")
	}
	return out.Solution, nil
}

func (c *Client) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	var out struct {
		Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/leaderboard", nil, &out); err != nil {
		return nil, err
	}
	if out.Leaderboard == nil {
		out.Leaderboard = []domain.LeaderboardEntry{}
	}
	return out.Leaderboard, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/challenges/categories", nil, &out); err != nil {
		return nil, err
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	return out.Categories, nil
}

// OwnedChallenge is one of the caller's own challenges with its deadline
// countdown as computed by the API.
type OwnedChallenge struct {
	domain.Challenge
	IsExpired     bool `json:"isExpired"`
	DaysRemaining int  `json:"daysRemaining"`
}

// MyChallenges lists what the logged-in user posted, whatever its status.
func (c *Client) MyChallenges(ctx context.Context) ([]OwnedChallenge, error) {
	var out struct {
		Challenges []OwnedChallenge `json:"challenges"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/user/challenges", nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Challenges {
		if err := normaliseChallenge(&out.Challenges[i].Challenge); err != nil {
			return nil, err
		}
	}
	if out.Challenges == nil {
		out.Challenges = []OwnedChallenge{}
	}
	return out.Challenges, nil
}

func challengePath(id string) string {
	return "/api/challenges/" + url.PathEscape(id)
}

func normaliseChallenge(ch *domain.Challenge) error {
	st, err := domain.ParseChallengeStatus(string(ch.Status))
	if err != nil {
		return fmt.Errorf("challenge %s: %w", ch.ID, err)
	}
	ch.Status = st
	return nil
}

// endpoint appends path to the base URL, keeping any prefix the API is
// mounted under.
func (c *Client) endpoint(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.TrimLeft(ref.EscapedPath(), "/")
	if u.Path, err = url.PathUnescape(u.RawPath); err != nil {
		return "", err
	}
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

// do performs one JSON round trip. in and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	target, err := c.endpoint(path)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil {
		apiErr.Message = envelope.Error
		apiErr.Fields = envelope.Fields
	}
	return apiErr
}
