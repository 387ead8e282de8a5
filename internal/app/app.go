// Package app assembles the engine: database handle, repositories, source
// registry, probe backends and the services built on them.
package app

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"github.com/remoteindex/remoteindex/config"
	v1 "github.com/remoteindex/remoteindex/internal/api/v1/routes"
	"github.com/remoteindex/remoteindex/internal/api/v1/handlers"
	"github.com/remoteindex/remoteindex/internal/db"
	"github.com/remoteindex/remoteindex/internal/db/repos"
	"github.com/remoteindex/remoteindex/internal/probe"
	"github.com/remoteindex/remoteindex/internal/services"
	"github.com/remoteindex/remoteindex/internal/sources"
)

// Engine bundles the fully wired services of one process.
type Engine struct {
	DB        *gorm.DB
	Stores    *repos.Stores
	Registry  *sources.Registry
	Sync      *services.SyncService
	Discovery *services.DiscoveryService
	Dedupe    *services.DedupeService
	Prune     *services.PruneService
}

// NewEngine connects to the database using environment configuration and
// wires every service. The database handle is the single explicit
// dependency every component receives.
func NewEngine() (*Engine, error) {
	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", ""),
		Port:     config.GetEnvInt("DB_PORT", 0),
		User:     config.GetEnv("DB_USER", ""),
		Password: config.GetEnv("DB_PASSWORD", ""),
		DBName:   config.GetEnv("DB_NAME", ""),
	})
	if err != nil {
		return nil, err
	}
	return NewEngineWithDB(database), nil
}

// NewEngineWithDB wires every service over an existing database handle.
func NewEngineWithDB(database *gorm.DB) *Engine {
	stores := repos.NewStores(database)
	registry := sources.DefaultRegistry()
	client := sources.NewHTTPClient()
	backends := []probe.Backend{
		probe.NewGreenhouseBackend(client),
		probe.NewLeverBackend(client),
	}

	return &Engine{
		DB:        database,
		Stores:    stores,
		Registry:  registry,
		Sync:      services.NewSyncService(stores, registry),
		Discovery: services.NewDiscoveryService(stores, backends),
		Dedupe:    services.NewDedupeService(stores),
		Prune:     services.NewPruneService(stores, registry),
	}
}

// NewServer builds the fiber app exposing the engine's control surface.
func (e *Engine) NewServer() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Middleware (e.g., logging)
	app.Use(fiberlogger.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// Register versioned routes
	v1.Register(app, v1.Handlers{
		Sync:      handlers.NewSyncHandler(e.Sync),
		Discovery: handlers.NewDiscoveryHandler(e.Discovery),
		Dedupe:    handlers.NewDedupeHandler(e.Dedupe),
		Prune:     handlers.NewPruneHandler(e.Prune),
		History:   handlers.NewHistoryHandler(e.Stores.History),
	})

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
