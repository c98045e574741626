package main

import (
	"context"
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
	"github.com/miat-mn/action-log/internal/config"
	"github.com/miat-mn/action-log/internal/database"
	"github.com/miat-mn/action-log/internal/events"
	"github.com/miat-mn/action-log/internal/handlers"
	"github.com/miat-mn/action-log/internal/logging"
	"github.com/miat-mn/action-log/internal/metrics"
	"github.com/miat-mn/action-log/internal/middleware"
	"github.com/miat-mn/action-log/internal/routes"
	"github.com/miat-mn/action-log/internal/services"
	"github.com/miat-mn/action-log/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records also go to system_logs
	dbLogHandler := logging.AttachDB(db)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Workflow events
	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			slog.Error("rabbitmq connection failed", "error", err)
			os.Exit(1)
		}
		publisher = rabbit
		slog.Info("publishing workflow events", "queue", cfg.RabbitMQQueue)
	}

	// Hazard images
	var store storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			slog.Error("minio client failed", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = minioStore.EnsureBucket(ctx)
		cancel()
		if err != nil {
			slog.Error("minio bucket unavailable", "bucket", cfg.MinioBucket, "error", err)
			os.Exit(1)
		}
		store = minioStore
	} else {
		slog.Warn("MINIO_ENDPOINT not set, image routes disabled")
	}

	// Services
	adminService := services.NewAdminService(db)
	ownerService := services.NewTaskOwnerService(db)
	checker := services.NewPermissionChecker(db, adminService, ownerService)
	authService := services.NewAuthService(db, cfg, adminService)
	hazardService := services.NewHazardService(db, store)
	responseService := services.NewResponseService(db, publisher)

	// Handlers
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Health:     handlers.NewHealthHandler(db),
		Catalog:    handlers.NewCatalogHandler(services.NewHazardTypeService(db), services.NewLocationService(db)),
		Hazard:     handlers.NewHazardHandler(hazardService, checker),
		Response:   handlers.NewResponseHandler(responseService, checker),
		TaskOwner:  handlers.NewTaskOwnerHandler(ownerService, checker),
		Admin:      handlers.NewAdminHandler(adminService),
		AdminStore: adminService,
	}
	if store != nil {
		h.Image = handlers.NewImageHandler(services.NewImageService(db, store), checker)
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(metrics.Middleware())

	routes.Setup(app, cfg, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	if err := publisher.Close(); err != nil {
		slog.Error("publisher close error", "error", err)
	}
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
