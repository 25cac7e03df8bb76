// @title           SitterHub Marketplace API
// @version         1.0
// @description     Babysitting marketplace: accounts, babysitter directory and bookings.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/sitterhub/marketplace/docs"
	"github.com/sitterhub/marketplace/internal/api"
	"github.com/sitterhub/marketplace/internal/api/handler"
	"github.com/sitterhub/marketplace/internal/core/ports"
	"github.com/sitterhub/marketplace/internal/core/service"
	"github.com/sitterhub/marketplace/internal/infrastructure/db/mongo"
	"github.com/sitterhub/marketplace/internal/infrastructure/db/postgres"
	"github.com/sitterhub/marketplace/internal/infrastructure/db/redis"
	"github.com/sitterhub/marketplace/internal/infrastructure/queue"
	"github.com/sitterhub/marketplace/internal/pkg/config"
	"github.com/sitterhub/marketplace/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "sitterhub-api",
	})
	lg := logger.Component("main")

	db, err := postgres.Connect(ctx, postgres.Config{
		URL:          cfg.Postgres.URL,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		QueryTimeout: cfg.Postgres.QueryTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	lg.Info().Msg("postgres ready")

	rdb, limiter := initRedis(ctx, cfg, lg)
	if rdb != nil {
		defer rdb.Close()
	}

	mongoClient, mdb, auditRepo := initMongo(ctx, cfg, lg)
	var auditor ports.BookingAuditor
	if mongoClient != nil {
		dispatcher := queue.NewAuditDispatcher(cfg.Mongo.AuditWorkers, auditRepo, logger.Component("audit"))
		dispatcher.Start(ctx)
		auditor = dispatcher

		// runs before Disconnect so queued events still reach mongo
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := dispatcher.Close(dctx); err != nil {
				lg.Warn().Err(err).Msg("audit queue not drained")
			}
			_ = mongoClient.Disconnect(dctx)
		}()
	}

	e := buildServer(cfg, db, rdb, mdb, limiter, auditor)

	if cfg.Admin.Enabled() {
		if err := ensureAdmin(ctx, cfg, db, limiter, lg); err != nil {
			return err
		}
	}

	return serve(ctx, e, cfg.Port, lg)
}

func initRedis(ctx context.Context, cfg *config.Config, lg zerolog.Logger) (*goredis.Client, ports.LoginLimiter) {
	if cfg.Redis.Addr == "" {
		lg.Warn().Msg("REDIS_ADDR not set, login rate limiting disabled")
		return nil, nil
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		lg.Warn().Err(err).Msg("redis unavailable, login rate limiting disabled")
		return nil, nil
	}
	lg.Info().Str("addr", cfg.Redis.Addr).Msg("redis ready")
	return rdb, redis.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
}

func initMongo(ctx context.Context, cfg *config.Config, lg zerolog.Logger) (*gomongo.Client, *gomongo.Database, *mongo.AuditRepository) {
	if cfg.Mongo.URI == "" {
		lg.Warn().Msg("MONGO_URI not set, booking audit trail disabled")
		return nil, nil, nil
	}

	client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		lg.Warn().Err(err).Msg("mongodb unavailable, booking audit trail disabled")
		return nil, nil, nil
	}

	audit := mongo.NewAuditRepository(mdb)
	if err := audit.EnsureIndexes(ctx); err != nil {
		lg.Warn().Err(err).Msg("failed to ensure audit indexes")
	}
	lg.Info().Str("database", mdb.Name()).Msg("mongodb ready")
	return client, mdb, audit
}

func buildServer(
	cfg *config.Config,
	db *sqlx.DB,
	rdb *goredis.Client,
	mdb *gomongo.Database,
	limiter ports.LoginLimiter,
	auditor ports.BookingAuditor,
) http.Handler {
	accounts := postgres.NewAccountRepository(db, cfg.Postgres.QueryTimeout)
	bookings := postgres.NewBookingRepository(db, cfg.Postgres.QueryTimeout)
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	return api.NewRouter(api.Dependencies{
		Log:         logger.Component("http"),
		Tokens:      tokens,
		Auth:        service.NewAuthService(accounts, tokens, limiter, logger.Component("auth")),
		Accounts:    service.NewAccountService(accounts, auditor, logger.Component("accounts")),
		Bookings:    service.NewBookingService(bookings, accounts, auditor, logger.Component("bookings")),
		Admin:       service.NewAdminService(accounts, bookings, logger.Component("admin")),
		Readiness:   handler.NewReadinessHandler(db, rdb, mdb),
		CORSOrigins: cfg.CORSOrigins,
	})
}

func ensureAdmin(ctx context.Context, cfg *config.Config, db *sqlx.DB, limiter ports.LoginLimiter, lg zerolog.Logger) error {
	accounts := postgres.NewAccountRepository(db, cfg.Postgres.QueryTimeout)
	auth := service.NewAuthService(accounts, service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), limiter, lg)

	created, err := auth.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		lg.Info().Str("email", cfg.Admin.Email).Msg("admin account created")
	}
	return nil
}

func serve(ctx context.Context, h http.Handler, port string, lg zerolog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
