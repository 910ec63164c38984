package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/atmoview/atmoview/internal/airquality"
	httpapi "github.com/atmoview/atmoview/internal/api/http"
	"github.com/atmoview/atmoview/internal/cache"
	"github.com/atmoview/atmoview/internal/config"
	"github.com/atmoview/atmoview/internal/geo"
	"github.com/atmoview/atmoview/internal/lookup"
	"github.com/atmoview/atmoview/internal/scheduler"
	"github.com/atmoview/atmoview/internal/transport"
	"github.com/atmoview/atmoview/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{}

	// Cache substrate: on-disk when a directory is configured, else in-memory.
	var substrate cache.Substrate
	if cfg.CacheDir != "" {
		substrate = cache.NewFileSubstrate(cfg.CacheDir)
	} else {
		substrate = cache.NewMemorySubstrate()
	}
	store := cache.New(substrate)

	// Pipeline stages, each with its own circuit breaker.
	resolver := geo.NewResolver(transport.NewClient("geocoding", httpClient, cfg.HTTPTimeout), store, "")
	weatherFetcher := weather.NewFetcher(transport.NewClient("weather", httpClient, cfg.HTTPTimeout), store, "")
	airFetcher := airquality.NewFetcher(transport.NewClient("airquality", httpClient, cfg.HTTPTimeout), store, "", "")

	service := lookup.NewService(resolver, weatherFetcher, airFetcher)

	// Scheduler that keeps configured locations warm in the cache.
	sched := scheduler.New(cfg.WarmLocations, cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "atmoview",
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
			"service": "atmoview",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
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
