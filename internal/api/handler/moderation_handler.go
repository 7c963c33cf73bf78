package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thinkstack/marketplace/internal/api/metrics"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

// ModerationHandler serves the admin-only endpoints.
type ModerationHandler struct {
	service ports.ModerationService
}

func NewModerationHandler(service ports.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// ListAll handles GET /api/admin/challenges.
//
// @Summary      List every challenge regardless of status
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  challengeListResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/challenges [get]
func (h *ModerationHandler) ListAll(c echo.Context) error {
	challenges, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newChallengeList(challenges))
}

// UpdateStatus handles PATCH /api/challenges/:id/status.
//
// @Summary      Approve or reject a pending challenge
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Challenge id"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  challengeResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/challenges/{id}/status [patch]
func (h *ModerationHandler) UpdateStatus(c echo.Context) error {
	actor, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	target, err := domain.ParseChallengeStatus(req.Status)
	if err != nil {
		return domain.NewValidationError("status", "status must be one of: PENDING APPROVED REJECTED")
	}

	updated, err := h.service.Transition(c.Request().Context(), c.Param("id"), target, actor)
	metrics.ModerationTransitionsTotal.WithLabelValues(string(target), transitionResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, challengeResponse{Challenge: updated})
}

// Delete handles DELETE /api/challenges/:id.
//
// @Summary      Delete a challenge
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Challenge id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/challenges/{id} [delete]
func (h *ModerationHandler) Delete(c echo.Context) error {
	actor, err := callerIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	metrics.ChallengesDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "challenge deleted"})
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrChallengeNotFound):
		return "not_found"
	default:
		return "error"
	}
}
