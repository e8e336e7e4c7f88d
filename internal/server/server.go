// Package server assembles the LinkVault process from configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/linkvault/linkvault/internal/api"
	"github.com/linkvault/linkvault/internal/core/service"
	"github.com/linkvault/linkvault/internal/infrastructure/db/mongo"
	"github.com/linkvault/linkvault/internal/infrastructure/db/redis"
	"github.com/linkvault/linkvault/internal/infrastructure/queue"
	"github.com/linkvault/linkvault/internal/infrastructure/token"
	"github.com/linkvault/linkvault/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener and every long-lived connection.
type Server struct {
	cfg        *config.Config
	log        zerolog.Logger
	echo       *echo.Echo
	httpServer *http.Server
	mongo      *mongodriver.Client
	redis      *goredis.Client
	activity   *queue.Dispatcher
}

// New connects to the stores and wires services, handlers and workers.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, log: log, mongo: mongoClient}

	health := map[string]func(context.Context) error{
		"mongodb": func(ctx context.Context) error { return mongo.Ping(ctx, mongoClient) },
	}

	authOpts := []service.AuthOption{service.WithBcryptCost(cfg.BcryptCost)}
	if cfg.Login.Throttle {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			s.closeStores(context.Background())
			return nil, err
		}
		s.redis = rdb
		health["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, rdb) }
		authOpts = append(authOpts, service.WithLoginThrottle(
			redis.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window),
		))
	}

	if err := ensureIndexes(ctx, db); err != nil {
		s.closeStores(context.Background())
		return nil, err
	}

	users := mongo.NewUserRepository(db)
	s.activity = queue.NewDispatcher(cfg.Activity.Workers, mongo.NewActivityRepository(db), log)

	auth := service.NewAuthService(users, token.NewJWT(cfg.SecretKey, cfg.TokenTTL), log, authOpts...)
	collection := service.NewCollectionService(users, mongo.ObjectIDs{}, s.activity, log)

	s.echo = api.NewRouter(api.Deps{
		Auth:        auth,
		Collection:  collection,
		Health:      health,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Run serves until ctx is cancelled, then drains requests and the activity
// queue before closing the stores.
func (s *Server) Run(ctx context.Context) error {
	s.activity.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", s.httpServer.Addr).Str("env", s.cfg.Env).Msg("server starting")
		if err := s.echo.StartServer(s.httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := s.activity.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("activity drain: %w", err))
		}
		s.closeStores(shutdownCtx)
		return errors.Join(errs...)
	})

	err := g.Wait()
	s.log.Info().Msg("server stopped")
	return err
}

func (s *Server) closeStores(ctx context.Context) {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn().Err(err).Msg("redis close failed")
		}
	}
	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			s.log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}
}

// EnsureIndexes creates the Mongo indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := ensureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
	return nil
}

func ensureIndexes(ctx context.Context, db *mongodriver.Database) error {
	if err := mongo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := mongo.NewActivityRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("activity indexes: %w", err)
	}
	return nil
}
