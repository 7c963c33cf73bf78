package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/thinkstack/marketplace/internal/api/docs"
	"github.com/thinkstack/marketplace/internal/api/handler"
	"github.com/thinkstack/marketplace/internal/api/middleware"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth       ports.AuthService
	Challenges ports.ChallengeService
	Moderation ports.ModerationService
	Solutions  ports.SolutionService
	Checks     map[string]handler.Check

	JWTSecret string
	Cookie    handler.CookieOptions
	Log       zerolog.Logger

	// Registry receives the HTTP request metrics and backs /metrics.
	// The default Prometheus registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "thinkstack",
		Registerer: registerer,
	}))

	authRequired := middleware.Auth(d.JWTSecret)
	authOptional := middleware.OptionalAuth(d.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie)
	challengeHandler := handler.NewChallengeHandler(d.Challenges)
	moderationHandler := handler.NewModerationHandler(d.Moderation)
	solutionHandler := handler.NewSolutionHandler(d.Solutions)
	readinessHandler := handler.NewReadinessHandler(d.Checks)

	api := e.Group("/api")

	// --- Identity ---
	api.GET("/me", authHandler.Me, authOptional)
	api.POST("/register", authHandler.Register)
	api.POST("/admin-register", authHandler.AdminRegister)
	api.POST("/login", authHandler.Login)
	api.POST("/admin/login", authHandler.AdminLogin)
	api.POST("/logout", authHandler.Logout)

	// --- Challenges ---
	api.GET("/challenges", challengeHandler.List)
	api.GET("/challenges/categories", challengeHandler.Categories)
	api.GET("/challenges/:id", challengeHandler.Get)
	api.POST("/challenges", challengeHandler.Create, authRequired, middleware.RBAC(domain.RoleChallenger))
	api.POST("/challenges/:id/join", challengeHandler.Join, authRequired)
	api.GET("/user/challenges", challengeHandler.Mine, authRequired)

	// --- Solutions ---
	api.POST("/solutions", solutionHandler.Submit, authRequired, middleware.RBAC(domain.RoleSolver))
	api.GET("/leaderboard", solutionHandler.Leaderboard)

	// --- Moderation ---
	api.GET("/admin/challenges", moderationHandler.ListAll, authRequired, adminOnly)
	api.PATCH("/challenges/:id/status", moderationHandler.UpdateStatus, authRequired, adminOnly)
	api.DELETE("/challenges/:id", moderationHandler.Delete, authRequired, adminOnly)

	// --- Operations ---
	e.GET("/health", handler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
