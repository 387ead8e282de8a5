package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/remoteindex/remoteindex/internal/services"
)

// DiscoveryHandler exposes the discovery state machine over HTTP
type DiscoveryHandler struct {
	discoveryService *services.DiscoveryService
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discoveryService *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
	}
}

// RunTick probes one window of the candidate queue
func (h *DiscoveryHandler) RunTick(c *fiber.Ctx) error {
	result, err := h.discoveryService.RunTick(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("discovery tick failed: %v", err),
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"discovered": result.Discovered,
		"not_found":  result.NotFound,
		"logs":       result.Logs,
	})
}
