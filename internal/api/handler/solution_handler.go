package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thinkstack/marketplace/internal/api/metrics"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

// SolutionHandler serves solution submission and the leaderboard.
type SolutionHandler struct {
	service ports.SolutionService
}

func NewSolutionHandler(service ports.SolutionService) *SolutionHandler {
	return &SolutionHandler{service: service}
}

// Submit handles POST /api/solutions.
//
// @Summary      Submit a solution
// @Description  One submission per solver and challenge. The challenge must be approved.
// @Tags         solutions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitSolutionRequest  true  "Solution"
// @Success      201   {object}  solutionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/solutions [post]
func (h *SolutionHandler) Submit(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req submitSolutionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	solution, err := h.service.Submit(c.Request().Context(), ports.SubmitSolutionInput{
		ChallengeID: req.ChallengeID,
		Attachments: req.Attachments,
		Content:     req.Content,
		Solver:      caller,
	})
	if err != nil {
		metrics.SolutionsSubmittedTotal.WithLabelValues(submitResult(err)).Inc()
		return err
	}

	metrics.SolutionsSubmittedTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusCreated, solutionResponse{Message: "solution submitted", Solution: solution})
}

// Leaderboard handles GET /api/leaderboard.
//
// @Summary      Top solvers
// @Description  Solvers with a positive score, best first; at most 100 entries.
// @Tags         solutions
// @Produce      json
// @Success      200  {object}  leaderboardResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/leaderboard [get]
func (h *SolutionHandler) Leaderboard(c echo.Context) error {
	entries, err := h.service.Leaderboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leaderboardResponse{Leaderboard: entries})
}

func submitResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrSolutionExists):
		return "duplicate"
	case errors.Is(err, domain.ErrChallengeClosed), errors.Is(err, domain.ErrChallengeNotFound):
		return "closed"
	default:
		return "error"
	}
}
