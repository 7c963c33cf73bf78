package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/thinkstack/marketplace/internal/api/middleware"
	"github.com/thinkstack/marketplace/internal/core/domain"
)

// callerIdentity returns the identity injected by the Auth middleware, or
// domain.ErrNotAuthenticated when the route was reached without one.
func callerIdentity(c echo.Context) (*domain.Identity, error) {
	id, _ := c.Get(middleware.ContextIdentity).(*domain.Identity)
	if !id.Valid() {
		return nil, domain.ErrNotAuthenticated
	}
	return id, nil
}
