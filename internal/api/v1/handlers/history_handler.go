package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/db/repos"
)

// HistoryHandler exposes the run ledger over HTTP
type HistoryHandler struct {
	history *repos.SyncHistoryRepository
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *repos.SyncHistoryRepository) *HistoryHandler {
	return &HistoryHandler{
		history: history,
	}
}

// ListRuns returns user-visible runs, newest first. Cursor rows are never
// included.
func (h *HistoryHandler) ListRuns(c *fiber.Ctx) error {
	opts := &models.ListOptions{}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid limit value",
			})
		}
		opts.Limit = n
	}
	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid offset value",
			})
		}
		opts.Offset = n
	}

	runs, err := h.history.List(c.Context(), c.Query("sync_type"), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to list runs: %v", err),
		})
	}

	return c.JSON(fiber.Map{"runs": runs})
}

// GetRun returns one run by id
func (h *HistoryHandler) GetRun(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "run id must be numeric",
		})
	}

	run, err := h.history.GetByID(c.Context(), uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to get run: %v", err),
		})
	}

	return c.JSON(run)
}
