// Command api serves the marketplace identity and challenge API.
//
//	@title						ThinkStack Marketplace API
//	@version					1.0
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/thinkstack/marketplace/internal/api"
	"github.com/thinkstack/marketplace/internal/api/handler"
	"github.com/thinkstack/marketplace/internal/core/service"
	mongodb "github.com/thinkstack/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/thinkstack/marketplace/internal/infrastructure/db/redis"
	"github.com/thinkstack/marketplace/internal/infrastructure/queue"
	"github.com/thinkstack/marketplace/internal/pkg/config"
	"github.com/thinkstack/marketplace/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "thinkstack-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("could not create indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	auditSvc := service.NewAuditService(mongodb.NewAuditRepository(db), logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditSvc, logger.Component("dispatcher"))
	// The dispatcher outlives the signal so queued audit events drain after
	// the server stops accepting requests.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	challengeRepo := mongodb.NewChallengeRepository(db)

	e := api.NewRouter(api.Deps{
		Auth:       service.NewAuthService(mongodb.NewAuthRepository(db), cfg.JWTSecret, cfg.AdminSecret, cfg.TokenTTL),
		Challenges: service.NewChallengeService(challengeRepo, redisdb.NewJoinLock(rdb), logger.Component("challenges")),
		Moderation: service.NewModerationService(challengeRepo, dispatcher, logger.Component("moderation")),
		Solutions:  service.NewSolutionService(mongodb.NewSolutionRepository(db), challengeRepo, logger.Component("solutions")),
		Checks: map[string]handler.Check{
			"mongo": handler.MongoCheck(db),
			"redis": handler.RedisCheck(rdb),
		},
		JWTSecret: cfg.JWTSecret,
		Cookie:    handler.CookieOptions{Secure: cfg.IsProduction(), TTL: cfg.TokenTTL},
		Log:       logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown failed")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("goodbye")
}
