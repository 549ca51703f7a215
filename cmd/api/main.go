package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/budgetbot/ml-backend/internal/config"
	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/handler"
	"github.com/budgetbot/ml-backend/internal/middleware"
	"github.com/budgetbot/ml-backend/internal/repository/postgres"
	"github.com/budgetbot/ml-backend/internal/repository/storage"
	"github.com/budgetbot/ml-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
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

	// Model store
	models, err := newModelRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize model store")
	}

	// Transaction database is optional; history-backed endpoints and
	// recommendation signals need it, the batch endpoints do not.
	var transactions domain.TransactionStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping database")
		}
		log.Info().Msg("Connected to database")
		transactions = postgres.NewTransactionRepository(pool)
	} else {
		log.Info().Msg("No DATABASE_URL set, history-backed endpoints disabled")
	}

	// Initialize services
	classifierService := service.NewClassifierService(domain.DefaultCategoryRules, models)
	forecastService := service.NewForecastService()
	trainerService := service.NewTrainerService(models)
	recommendationService := service.NewRecommendationService(transactions)

	// Auth middleware is optional; the service normally sits behind the
	// main app on an internal network.
	var authMiddleware *middleware.AuthMiddleware
	if cfg.Auth0Domain != "" {
		authMiddleware, err = middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth middleware")
		}
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	categorizeHandler := handler.NewCategorizeHandler(classifierService)
	forecastHandler := handler.NewForecastHandler(forecastService, transactions)
	trainHandler := handler.NewTrainHandler(trainerService, transactions)
	recommendHandler := handler.NewRecommendHandler(recommendationService)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		MaxAge:       86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, categorizeHandler, forecastHandler, trainHandler, recommendHandler)

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

// newModelRepository picks the model store backend from configuration
func newModelRepository(cfg *config.Config) (storage.ModelRepository, error) {
	switch cfg.ModelStore {
	case config.ModelStoreS3:
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Using S3 model store")
		return storage.NewS3ModelRepository(context.Background(), cfg.S3)
	default:
		log.Info().Str("dir", cfg.ModelsDir).Msg("Using filesystem model store")
		return storage.NewFilesystemModelRepository(cfg.ModelsDir)
	}
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
