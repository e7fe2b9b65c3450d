package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/centime-app/centime-backend/internal/config"
	"github.com/centime-app/centime-backend/internal/domain"
	"github.com/centime-app/centime-backend/internal/handler"
	"github.com/centime-app/centime-backend/internal/middleware"
	"github.com/centime-app/centime-backend/internal/repository/postgres"
	"github.com/centime-app/centime-backend/internal/repository/sqlite"
	"github.com/centime-app/centime-backend/internal/repository/storage"
	"github.com/centime-app/centime-backend/internal/service"
	"github.com/centime-app/centime-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Open the database for the configured driver
	var (
		transactionRepo domain.TransactionRepository
		settingsRepo    domain.SettingsRepository
	)
	switch cfg.DBDriver {
	case "postgres":
		pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()
		transactionRepo = postgres.NewTransactionRepository(pool)
		settingsRepo = postgres.NewSettingsRepository(pool)
		log.Info().Msg("Connected to PostgreSQL")
	default:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()
		transactionRepo = sqlite.NewTransactionRepository(db)
		settingsRepo = sqlite.NewSettingsRepository(db)
		log.Info().Str("path", cfg.SQLitePath).Msg("Opened SQLite database")
	}

	// Receipt image storage is optional
	var imageService *service.ImageService
	if cfg.S3.Configured() {
		imageRepo, err := storage.NewS3ImageRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize image storage")
		}
		imageService = service.NewImageService(imageRepo)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Image storage enabled")
	} else {
		imageService = service.NewImageService(nil)
		log.Info().Msg("Image storage disabled (S3_BUCKET not set)")
	}

	// Initialize services
	transactionService := service.NewTransactionService(transactionRepo, settingsRepo)
	recurringService := service.NewRecurringService(transactionRepo)
	importService := service.NewImportService(transactionRepo)
	receiptService := service.NewReceiptService()
	analyticsService := service.NewAnalyticsService(transactionRepo)
	settingsService := service.NewSettingsService(settingsRepo)

	// Seed the example transactions on a fresh install
	seeded, err := transactionService.SeedIfFirstRun()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed initial data")
	}
	if seeded {
		log.Info().Msg("Seeded example transactions")
	}

	// WebSocket hub
	hub := websocket.NewHub()

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(transactionService, recurringService, hub)
	importHandler := handler.NewImportHandler(importService, hub)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	imageHandler := handler.NewImageHandler(imageService, transactionService)
	settingsHandler := handler.NewSettingsHandler(settingsService, hub)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Per-client rate limiting
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, transactionHandler, importHandler, receiptHandler, analyticsHandler, imageHandler, settingsHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
