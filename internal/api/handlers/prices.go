/**
 * @description
 * Price refresh API Handlers.
 * Exposes single and batch refresh triggers; batch refresh is long-running
 * (holding count x rate-limit interval) and rejected with 409 while another
 * batch holds the refresh lock.
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

type PriceHandler struct {
	Investments store.InvestmentStore
	Service     *services.PriceService
}

func NewPriceHandler(investments store.InvestmentStore, service *services.PriceService) *PriceHandler {
	return &PriceHandler{Investments: investments, Service: service}
}

// RefreshSingle refreshes the price of one investment
// POST /api/v1/prices/refresh/:id
func (h *PriceHandler) RefreshSingle(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid investment id"})
	}

	inv, err := h.Investments.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Investment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch investment"})
	}

	result := h.Service.RefreshOne(c.Context(), inv)
	return c.JSON(result)
}

// RefreshAll refreshes prices for every investment, sequentially
// POST /api/v1/prices/refresh-all
func (h *PriceHandler) RefreshAll(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 0)

	summary, err := h.Service.RefreshAll(c.Context(), offset, limit)
	if err != nil {
		if errors.Is(err, store.ErrRefreshInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to refresh prices"})
	}
	return c.JSON(summary)
}
