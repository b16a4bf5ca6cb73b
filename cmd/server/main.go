package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sosnovich/skyward/internal/async"
	"github.com/sosnovich/skyward/internal/cache"
	"github.com/sosnovich/skyward/internal/config"
	"github.com/sosnovich/skyward/internal/database"
	"github.com/sosnovich/skyward/internal/handlers"
	"github.com/sosnovich/skyward/internal/logging"
	"github.com/sosnovich/skyward/internal/middleware"
	"github.com/sosnovich/skyward/internal/repository"
	"github.com/sosnovich/skyward/internal/routes"
	"github.com/sosnovich/skyward/internal/security"
	"github.com/sosnovich/skyward/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Token codec fails fast on a missing or non-base64 secret
	codec, err := security.NewTokenCodec(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		slog.Error("invalid JWT configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log retention cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Core collaborators
	hasher := security.NewPasswordHasher()
	userRepo := repository.NewGormUserRepository(database.DB)
	projectRepo := repository.NewGormProjectRepository(database.DB)
	userCache := cache.NewUserCache(cfg.UserCacheSize)
	pool := async.NewPool(cfg.WorkerCount, cfg.WorkerCount*4)
	guard := services.NewConcurrencyGuard(cfg.RetryMaxAttempts, cfg.RetryBackoff)

	// Services
	authService := services.NewAuthService(userRepo, hasher, codec)
	userService := services.NewUserService(userRepo, hasher, userCache, pool, guard)
	projectService := services.NewProjectService(userRepo, projectRepo, pool, guard)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, projectService)
	healthHandler := handlers.NewHealthHandler()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Trace())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))

	// Routes
	authGate := middleware.AuthGate(codec, userRepo)
	routes.Setup(app, authHandler, userHandler, healthHandler, authGate)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pool.Stop()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// errorHandler maps errors that escape the handlers. Fiber routing errors
// keep their status (404 for unknown routes); anything else surfaces as
// 417 Expectation Failed carrying the raw message.
func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error":   true,
			"message": e.Message,
		})
	}

	slog.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusExpectationFailed).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
