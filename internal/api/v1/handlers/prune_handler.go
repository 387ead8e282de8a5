package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/remoteindex/remoteindex/internal/services"
)

// PruneHandler exposes the pruner over HTTP
type PruneHandler struct {
	pruneService *services.PruneService
}

// NewPruneHandler creates a new prune handler
func NewPruneHandler(pruneService *services.PruneService) *PruneHandler {
	return &PruneHandler{
		pruneService: pruneService,
	}
}

// Run removes orphaned or stale postings
func (h *PruneHandler) Run(c *fiber.Ctx) error {
	var opts services.PruneOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   fmt.Sprintf("invalid request body: %v", err),
			})
		}
	}

	result, err := h.pruneService.Run(c.Context(), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("prune failed: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"jobs_to_delete": result.JobsToDelete,
		"jobs_deleted":   result.JobsDeleted,
		"orphaned":       result.Orphaned,
		"logs":           result.Logs,
	})
}
