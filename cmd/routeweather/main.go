package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/Txpho0n/weather-monitoring-web-bot/internal/api/http"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/config"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/dialog"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/providers/accuweather"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/route"
	"github.com/Txpho0n/weather-monitoring-web-bot/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls; the timeout here is the
	// only call-duration bound in the system.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// AccuWeather client serves both capabilities: location resolution and
	// forecast retrieval.
	provider := accuweather.NewClient(httpClient, cfg.AccuWeatherAPIKey, cfg.AccuWeatherBaseURL, cfg.ForecastLanguage)

	// Core service shared by both front ends.
	routes := route.NewService(provider, provider)

	// Chat dialogue state, with periodic expiry of abandoned sessions.
	sessions := dialog.NewStore(cfg.SessionTTL)
	machine := dialog.NewMachine(routes)

	sweeper := scheduler.New(sessions, cfg.SweepInterval)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start session sweeper: %v", err)
	}
	defer sweeper.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "route-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "route-weather",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, routes, sessions, machine)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
