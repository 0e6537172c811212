package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"menu-analytics/config"
	"menu-analytics/database"
	"menu-analytics/handlers"
	"menu-analytics/middleware"
	"menu-analytics/pricing"
	"menu-analytics/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	middleware.JWTSecret = []byte(cfg.JWTSecret)

	ctx := context.Background()
	if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx, database.GetDB()); err != nil {
		logger.WithError(err).Fatal("database schema bootstrap failed")
	}

	store := database.NewStore(database.GetDB())
	engine, err := pricing.NewEngine(store, store, cfg.Pricing, logger)
	if err != nil {
		logger.WithError(err).Fatal("pricing engine setup failed")
	}

	app := NewApp(cfg, logger,
		handlers.NewAnalysisHandler(engine, store, logger),
		handlers.NewImportHandler(store, cfg.Pricing.Location, logger),
		store,
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.WithError(err).Error("shutdown failed")
		}
	}()

	logger.WithField("port", cfg.Port).Info("menu analytics listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// NewApp builds the fiber app with middleware and routes.
func NewApp(cfg *config.Config, logger logrus.FieldLogger, analysis *handlers.AnalysisHandler, imports *handlers.ImportHandler, health handlers.Pinger) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "menu-analytics"})

	app.Use(recover.New())
	app.Use(middleware.RequestID)
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New())
	app.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), logger))

	routes.SetupRoutes(app, analysis, imports, health)
	return app
}
