package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thinkstack/marketplace/internal/api/middleware"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

// CookieOptions controls how the session cookie is written.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookie CookieOptions) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Me resolves the current session. An anonymous caller is not an error.
//
// @Summary      Current session identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return c.JSON(http.StatusOK, userResponse{User: nil})
	}

	user, err := h.authService.Me(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return c.JSON(http.StatusOK, userResponse{User: nil})
	}
	return c.JSON(http.StatusOK, userResponse{User: user.Identity()})
}

// Register creates a SOLVER or CHALLENGER account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var role domain.Role
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			return domain.NewValidationError("role", "role must be one of: SOLVER CHALLENGER")
		}
		role = parsed
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user.Identity()})
}

// AdminRegister creates an ADMIN account when the shared admin secret matches.
//
// @Summary      Register an administrator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminRegisterRequest  true  "Administrator details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin-register [post]
func (h *AuthHandler) AdminRegister(c echo.Context) error {
	var req adminRegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.AdminRegister(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, req.AdminSecret)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user.Identity()})
}

// Login authenticates any account and starts a cookie session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, h.authService.Login)
}

// AdminLogin authenticates ADMIN accounts only.
//
// @Summary      Administrator login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, h.authService.AdminLogin)
}

type loginFunc func(ctx context.Context, email, password string) (string, *domain.User, error)

func (h *AuthHandler) login(c echo.Context, fn loginFunc) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := fn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(token, h.cookie.TTL))
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user.Identity()})
}

// Logout clears the session cookie. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	}
	return cookie
}
