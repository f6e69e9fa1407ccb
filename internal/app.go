package internal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/patzer/internal/analysis"
	"github.com/lk16/patzer/internal/config"
	"github.com/lk16/patzer/internal/engine"
	"github.com/lk16/patzer/internal/middleware"
	"github.com/lk16/patzer/internal/routes"
	"github.com/lk16/patzer/internal/services"
)

const (
	defaultConcurrency = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout = 10 * time.Second
	defaultIdleTimeout = 5 * time.Second
	defaultBodyLimit   = 64 * 1024
	writeTimeoutSlack  = 10 * time.Second
)

// NewApp creates the Fiber app with all middleware and routes.
func NewApp(cfg *config.ServerConfig, services *services.Services) *fiber.App {
	// Analyses can take as long as the engine move timeout
	writeTimeout := writeTimeoutSlack
	if cfg.Engine != nil {
		writeTimeout += cfg.Engine.MoveTimeout
	}

	app := fiber.New(fiber.Config{
		Prefork:      cfg.Prefork,
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	// Setup connections to external services and config in Fiber app
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("services", services)
		c.Locals("config", cfg)
		return c.Next()
	})

	// Add logging middleware
	app.Use(middleware.Logging())

	// Setup all routes
	routes.SetupRoutes(app)

	return app
}

// SetupApp loads the configuration, starts and initializes the engine and connects to the
// external services. The returned function stops the engine and closes the connections.
func SetupApp() (*fiber.App, *config.ServerConfig, func(), error) {
	cfg := config.LoadServerConfig()

	process, err := engine.Start(cfg.Engine)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to start engine: %w", err)
	}

	stopEngine := func() {
		if err := process.Close(); err != nil {
			slog.Error("Failed to stop engine", "error", err)
		}
	}

	analyzer := analysis.NewAnalyzer(process.Driver(), cfg.Engine.Options, cfg.Engine.MoveTimeout)
	if err = analyzer.Initialize(); err != nil {
		stopEngine()
		return nil, nil, nil, err
	}

	services, err := services.InitServices(cfg, analyzer)
	if err != nil {
		stopEngine()
		return nil, nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	cleanup := func() {
		services.Close()
		stopEngine()
	}

	return NewApp(cfg, services), cfg, cleanup, nil
}
