// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/bookstore-api/internal/admin"
	"github.com/carterperez-dev/bookstore-api/internal/auth"
	"github.com/carterperez-dev/bookstore-api/internal/book"
	"github.com/carterperez-dev/bookstore-api/internal/comment"
	"github.com/carterperez-dev/bookstore-api/internal/config"
	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/health"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
	"github.com/carterperez-dev/bookstore-api/internal/rating"
	"github.com/carterperez-dev/bookstore-api/internal/server"
	"github.com/carterperez-dev/bookstore-api/internal/user"
	"github.com/carterperez-dev/bookstore-api/migrations"
)

const (
	drainDelay = 5 * time.Second

	adminBudgetFactor = 4
)

// Set with -ldflags "-X main.version=... -X main.buildTime=...".
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	if err := run(*configPath, *migrateOnly); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, migrateOnly bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	if migrateOnly || cfg.Database.AutoMigrate {
		if err := core.Migrate(cfg.Database.URL, migrations.FS); err != nil {
			return err
		}
		logger.Info("database migrations applied")
		if migrateOnly {
			return nil
		}
	}

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", version,
		"build_time", buildTime,
		"environment", cfg.App.Environment,
		"rating_policy", cfg.Rating.DuplicatePolicy,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"query_timeout", cfg.Database.QueryTimeout,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokens, err := auth.NewTokenService(cfg.JWT)
	if err != nil {
		return err
	}

	pager := core.NewPager(cfg.Pagination)
	sessions := auth.NewSessionStore(redis.Client)

	userSvc := user.NewService(user.NewRepository(db.DB, db.QueryTimeout), sessions)
	authSvc := auth.NewService(tokens, sessions, userSvc, cfg.JWT.RefreshTokenExpire)
	bookSvc := book.NewService(book.NewRepository(db.DB, db.QueryTimeout))
	commentSvc := comment.NewService(comment.NewRepository(db.DB, db.QueryTimeout), bookSvc)
	ratingSvc := rating.NewService(
		rating.NewRepository(db.DB, db.QueryTimeout),
		bookSvc,
		cfg.Rating.DuplicatePolicy,
	)

	userHandler := user.NewHandler(userSvc, pager)
	bookHandler := book.NewHandler(bookSvc, pager)
	commentHandler := comment.NewHandler(commentSvc, pager)
	ratingHandler := rating.NewHandler(ratingSvc, pager)

	healthHandler := health.NewHandler(db, redis, health.BuildInfo{
		Version:   version,
		BuildTime: buildTime,
	})

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Dashboard:  admin.NewRepository(db.DB, db.QueryTimeout),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	metrics := middleware.NewMetrics("bookstore")

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(metrics.Instrument)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit:    middleware.LimitFromConfig(cfg.RateLimit),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.MaxBodySize(cfg.Server.MaxBodyBytes))

	healthHandler.RegisterRoutes(router)
	router.Handle("/metrics", metrics.Handler())

	userBudget := middleware.LimitFromConfig(cfg.RateLimit)
	adminBudget := userBudget
	adminBudget.Rate *= adminBudgetFactor
	adminBudget.Burst *= adminBudgetFactor

	authenticate := middleware.Authenticator(tokens, userSvc)
	perRole := middleware.RoleRateLimiter(redis.Client, map[core.Role]redis_rate.Limit{
		core.RoleUser:  userBudget,
		core.RoleAdmin: adminBudget,
	})
	authenticator := func(next http.Handler) http.Handler {
		return authenticate(perRole(next))
	}

	server.MountAPI(router, server.APIRoutes{
		Authenticator: authenticator,
		Resources: []server.RouteRegistrar{
			auth.NewHandler(authSvc),
			userHandler,
			bookHandler,
			commentHandler,
			ratingHandler,
		},
		Admin: []server.AdminRegistrar{
			userHandler,
			bookHandler,
			commentHandler,
			ratingHandler,
			adminHandler,
		},
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
