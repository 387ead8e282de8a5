// Package v1 wires the engine's control surface into a fiber app.
package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/remoteindex/remoteindex/internal/api/v1/handlers"
)

// Handlers bundles every v1 handler for route registration.
type Handlers struct {
	Sync      *handlers.SyncHandler
	Discovery *handlers.DiscoveryHandler
	Dedupe    *handlers.DedupeHandler
	Prune     *handlers.PruneHandler
	History   *handlers.HistoryHandler
}

// SetupRoutes configures all the v1 routes
func SetupRoutes(router fiber.Router, h Handlers) {
	sync := router.Group("/sync")
	sync.Post("/tick", h.Sync.RunTick)
	sync.Get("/history", h.History.ListRuns)
	sync.Get("/history/:id", h.History.GetRun)

	router.Post("/discovery/tick", h.Discovery.RunTick)
	router.Post("/dedupe", h.Dedupe.Run)
	router.Post("/prune", h.Prune.Run)
}

// Register registers the v1 routes
func Register(app *fiber.App, h Handlers) {
	// API v1 routes
	v1Group := app.Group("/api/v1")
	SetupRoutes(v1Group, h)
}
