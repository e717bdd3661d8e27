/**
 * @description
 * Price History API Handlers.
 * Read-only views over the observation ledger.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/skinledger/backend/internal/services"
	"github.com/skinledger/backend/internal/store"
)

type HistoryHandler struct {
	Service *services.HistoryService
}

func NewHistoryHandler(service *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{Service: service}
}

// ListAll returns observations across every investment, newest-first
// GET /api/v1/price-history
func (h *HistoryHandler) ListAll(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)

	history, err := h.Service.All(c.Context(), days, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch price history"})
	}
	return c.JSON(history)
}

// ByInvestment returns one investment's observations, newest-first
// GET /api/v1/price-history/:id
func (h *HistoryHandler) ByInvestment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid investment id"})
	}

	days := c.QueryInt("days", 0)
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)

	history, err := h.Service.ByInvestment(c.Context(), id, days, offset, limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Investment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch price history"})
	}
	return c.JSON(history)
}

// Latest returns the most recent observation for an investment
// GET /api/v1/price-history/:id/latest
func (h *HistoryHandler) Latest(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid investment id"})
	}

	latest, err := h.Service.Latest(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No price history found for this investment"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch latest price"})
	}
	return c.JSON(latest)
}
