package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thinkstack/marketplace/internal/api/metrics"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

// ChallengeHandler serves the public challenge catalogue and participation.
type ChallengeHandler struct {
	service ports.ChallengeService
	now     func() time.Time
}

func NewChallengeHandler(service ports.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{service: service, now: time.Now}
}

// List handles GET /api/challenges.
//
// @Summary      List challenges
// @Tags         challenges
// @Produce      json
// @Param        status  query     string  false  "PENDING, APPROVED or REJECTED (default APPROVED)"
// @Success      200     {object}  challengeListResponse
// @Failure      400     {object}  map[string]string
// @Router       /api/challenges [get]
func (h *ChallengeHandler) List(c echo.Context) error {
	var status domain.ChallengeStatus
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := domain.ParseChallengeStatus(raw)
		if err != nil {
			return domain.NewValidationError("status", "status must be one of: PENDING APPROVED REJECTED")
		}
		status = parsed
	}

	challenges, err := h.service.List(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newChallengeList(challenges))
}

// Get handles GET /api/challenges/:id.
//
// @Summary      Get a challenge
// @Tags         challenges
// @Produce      json
// @Param        id   path      string  true  "Challenge id"
// @Success      200  {object}  challengeResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/challenges/{id} [get]
func (h *ChallengeHandler) Get(c echo.Context) error {
	challenge, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, challengeResponse{Challenge: challenge})
}

// Create handles POST /api/challenges. New challenges wait for moderation.
//
// @Summary      Post a challenge
// @Tags         challenges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createChallengeRequest  true  "Challenge details"
// @Success      201   {object}  challengeResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/challenges [post]
func (h *ChallengeHandler) Create(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createChallengeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	challenge, err := h.service.Create(c.Request().Context(), ports.CreateChallengeInput{
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		ParticipationType: req.ParticipationType,
		CashPrize:         req.CashPrize,
		MaxParticipants:   req.MaxParticipants,
		Deadline:          req.Deadline,
		CreatedBy:         caller.ID,
	})
	if err != nil {
		return err
	}

	metrics.ChallengesCreatedTotal.WithLabelValues(challenge.Category).Inc()
	return c.JSON(http.StatusCreated, challengeResponse{Challenge: challenge})
}

// Join handles POST /api/challenges/:id/join.
//
// @Summary      Join a challenge
// @Tags         challenges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Challenge id"
// @Param        body  body      joinRequest  true  "Joining user"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/challenges/{id}/join [post]
func (h *ChallengeHandler) Join(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req joinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.UserID != caller.ID {
		return domain.ErrForbidden
	}

	if err := h.service.Join(c.Request().Context(), c.Param("id"), caller); err != nil {
		metrics.JoinsTotal.WithLabelValues(joinResult(err)).Inc()
		return err
	}

	metrics.JoinsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "joined challenge"})
}

// Mine handles GET /api/user/challenges.
//
// @Summary      List the caller's challenges
// @Description  Every challenge the caller posted, newest first, with deadline countdown.
// @Tags         challenges
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ownedChallengeListResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/user/challenges [get]
func (h *ChallengeHandler) Mine(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	challenges, err := h.service.Mine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOwnedChallengeList(challenges, h.now()))
}

// Categories handles GET /api/challenges/categories.
//
// @Summary      List challenge categories
// @Tags         challenges
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /api/challenges/categories [get]
func (h *ChallengeHandler) Categories(c echo.Context) error {
	cats, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: cats})
}

func joinResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrChallengeClosed):
		return "closed"
	case errors.Is(err, domain.ErrAlreadyJoined):
		return "duplicate"
	default:
		return "error"
	}
}
