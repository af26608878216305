// @title           Review Widget API
// @version         1.0
// @description     Collects customer reviews from an embeddable widget and lets site owners manage them.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/reviewly/review-service/internal/api"
	"github.com/reviewly/review-service/internal/api/handler"
	"github.com/reviewly/review-service/internal/core/ports"
	"github.com/reviewly/review-service/internal/core/service"
	"github.com/reviewly/review-service/internal/infrastructure/config"
	"github.com/reviewly/review-service/internal/infrastructure/db/memory"
	"github.com/reviewly/review-service/internal/infrastructure/db/mongo"
	"github.com/reviewly/review-service/internal/infrastructure/db/redis"
	"github.com/reviewly/review-service/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{Service: "review-service"})
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "review-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var (
		accounts    ports.AccountRepository
		reviews     ports.ReviewRepository
		mongoClient *mongodriver.Client
	)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		accounts = memory.NewAccountRepository()
		reviews = memory.NewReviewRepository()
	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Store.Timeout,
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		mongoClient = client

		accountRepo := mongo.NewAccountRepository(db, cfg.Store.Timeout)
		reviewRepo := mongo.NewReviewRepository(db, cfg.Store.Timeout)
		if err := mongo.EnsureIndexes(ctx, accountRepo, reviewRepo); err != nil {
			return err
		}
		accounts, reviews = accountRepo, reviewRepo
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	}

	var rdb *goredis.Client
	reviewOpts := []service.ReviewServiceOption{service.WithSiteScope(cfg.StrictSiteScope)}
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
		reviewOpts = append(reviewOpts, service.WithDeduper(redis.NewSubmissionDeduper(client, cfg.Redis.DedupWindow)))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("submission dedup enabled")
	}

	tokens := service.NewTokenService(cfg.JWTSecret, service.DefaultTokenTTL)

	e := api.NewRouter(api.Dependencies{
		AuthService:   service.NewAuthService(accounts, tokens, log),
		ReviewService: service.NewReviewService(reviews, log, reviewOpts...),
		Tokens:        tokens,
		Health:        handler.NewHealthHandler(mongoClient, rdb),
		Logger:        log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("strict_site_scope", cfg.StrictSiteScope).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server exited properly")
	return nil
}
