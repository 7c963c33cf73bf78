package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/thinkstack/marketplace/internal/core/domain"
)

// SessionCookie carries the signed session token between browser and API.
const SessionCookie = "thinkstack_session"

// Context keys populated by Auth and OptionalAuth.
const (
	ContextIdentity = "identity"
	ContextRole     = "role"
)

var errNoToken = errors.New("no session token")

// Auth validates the session token and injects the caller identity into the
// context. Requests without a valid token are rejected with 401.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := identityFromRequest(c, jwtSecret)
			if errors.Is(err, errNoToken) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth but lets anonymous requests through. A
// malformed or expired token is treated the same as no token.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, err := identityFromRequest(c, jwtSecret); err == nil {
				setIdentity(c, id)
			}
			return next(c)
		}
	}
}

func setIdentity(c echo.Context, id *domain.Identity) {
	c.Set(ContextIdentity, id)
	c.Set(ContextRole, id.Role)
}

// tokenFromRequest prefers the Authorization header and falls back to the
// session cookie.
func tokenFromRequest(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", errors.New("invalid authorization header")
		}
		return parts[1], nil
	}
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", errNoToken
	}
	return cookie.Value, nil
}

func identityFromRequest(c echo.Context, jwtSecret string) (*domain.Identity, error) {
	raw, err := tokenFromRequest(c)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	roleClaim, _ := claims["role"].(string)
	role, err := domain.ParseRole(roleClaim)
	if err != nil {
		return nil, err
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	id := &domain.Identity{ID: sub, Name: name, Email: email, Role: role}
	if !id.Valid() {
		return nil, errors.New("incomplete identity claims")
	}
	return id, nil
}
