package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/remoteindex/remoteindex/internal/services"
)

// DedupeHandler exposes the deduplicator over HTTP
type DedupeHandler struct {
	dedupeService *services.DedupeService
}

// NewDedupeHandler creates a new dedupe handler
func NewDedupeHandler(dedupeService *services.DedupeService) *DedupeHandler {
	return &DedupeHandler{
		dedupeService: dedupeService,
	}
}

// Run scans for near-duplicate postings
func (h *DedupeHandler) Run(c *fiber.Ctx) error {
	var opts services.DedupeOptions
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   fmt.Sprintf("invalid request body: %v", err),
			})
		}
	}

	result, err := h.dedupeService.Run(c.Context(), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("dedupe failed: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"duplicates_found":   result.DuplicatesFound,
		"duplicates_removed": result.DuplicatesRemoved,
		"groups":             result.Groups,
		"logs":               result.Logs,
	})
}
