package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/remoteindex/remoteindex/internal/services"
)

// SyncHandler exposes the sync orchestrator over HTTP
type SyncHandler struct {
	syncService *services.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// RunTick runs one bounded sync tick
func (h *SyncHandler) RunTick(c *fiber.Ctx) error {
	opts := services.DefaultSyncOptions()
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   fmt.Sprintf("invalid request body: %v", err),
			})
		}
	}

	result, err := h.syncService.RunTick(c.Context(), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("sync tick failed: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"added":   result.Added,
		"updated": result.Updated,
		"skipped": result.Skipped,
		"logs":    result.Logs,
	})
}
