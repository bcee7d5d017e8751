// @title                       Commerce API
// @version                     1.0
// @description                 Customer registration, authentication and profile pictures.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cursomc/commerce-api/internal/api"
	"github.com/cursomc/commerce-api/internal/api/middleware"
	"github.com/cursomc/commerce-api/internal/core/imaging"
	"github.com/cursomc/commerce-api/internal/core/ports"
	"github.com/cursomc/commerce-api/internal/core/service"
	"github.com/cursomc/commerce-api/internal/infrastructure/config"
	mongodb "github.com/cursomc/commerce-api/internal/infrastructure/db/mongo"
	"github.com/cursomc/commerce-api/internal/infrastructure/db/postgres"
	redisdb "github.com/cursomc/commerce-api/internal/infrastructure/db/redis"
	"github.com/cursomc/commerce-api/internal/infrastructure/security"
	"github.com/cursomc/commerce-api/internal/infrastructure/storage"
	"github.com/cursomc/commerce-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "commerce-api"})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "commerce-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := map[string]func(context.Context) error{}

	// --- Customer store ---
	repo, closeStore, err := openStore(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Upload rate limiting (optional) ---
	var limiter middleware.RateLimiter
	if cfg.RedisEnabled() {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		limiter = redisdb.NewRateLimiter(rdb, cfg.Upload.RateLimit, cfg.Upload.RateWindow, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected, upload rate limiting enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, upload rate limiting disabled")
	}

	// --- Object storage ---
	store, err := openObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("object storage ready")

	// --- Services ---
	secret := cfg.Auth.JWTSecret
	if cfg.Auth.SecretGenerated {
		log.Warn().Msg("JWT_SECRET not set, using a random secret for this process")
	}

	encoder := security.NewBcryptEncoder(0)
	pipeline := imaging.NewPipeline(cfg.Image.ProfileSize, cfg.Image.JPEGQuality, cfg.Image.MaxPixels)

	authService := service.NewAuthService(repo, encoder, secret, cfg.Auth.TokenTTL, log)
	customerService := service.NewCustomerService(repo, encoder, pipeline, store, cfg.Image.ProfilePrefix, log)

	e := api.NewRouter(api.Dependencies{
		AuthService:     authService,
		CustomerService: customerService,
		UploadLimiter:   limiter,
		HealthChecks:    checks,
		JWTSecret:       secret,
		MaxUploadBytes:  cfg.Image.MaxUploadBytes,
		Log:             log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}

// openStore connects the configured customer repository and registers its
// readiness check.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, checks map[string]func(context.Context) error) (ports.CustomerRepository, func(), error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewCustomerRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = mongodb.Disconnect(client)
			return nil, nil, err
		}
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
		return repo, func() { _ = mongodb.Disconnect(client) }, nil
	default:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Store.DatabaseURL})
		if err != nil {
			return nil, nil, err
		}
		if cfg.Store.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		checks["postgres"] = pingPool(pool)
		log.Info().Msg("postgres connected")
		return postgres.NewCustomerRepository(pool), pool.Close, nil
	}
}

func pingPool(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error { return pool.Ping(ctx) }
}

func openObjectStore(ctx context.Context, cfg *config.Config) (ports.ObjectStore, error) {
	if cfg.Storage.Driver == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			PublicURL: cfg.Storage.PublicURL,
		})
	}
	return storage.NewLocalStore(afero.NewOsFs(), cfg.Storage.LocalDir, cfg.Storage.PublicURL)
}
