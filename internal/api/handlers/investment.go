/**
 * @description
 * Investment API Handlers.
 * CRUD over tracked holdings.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/services"
	"github.com/skinledger/backend/internal/store"
)

type InvestmentHandler struct {
	Service *services.InvestmentService
}

func NewInvestmentHandler(service *services.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{Service: service}
}

// parseID reads the :id path parameter
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func isValidationError(err error) bool {
	return errors.Is(err, models.ErrItemNameRequired) ||
		errors.Is(err, models.ErrInvalidItemType) ||
		errors.Is(err, models.ErrNonPositivePrice) ||
		errors.Is(err, models.ErrQuantityBelowOne)
}

// Create adds a new investment
// POST /api/v1/investments
func (h *InvestmentHandler) Create(c *fiber.Ctx) error {
	var input services.CreateInvestmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	inv, err := h.Service.Create(c.Context(), input)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create investment"})
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// List returns all investments
// GET /api/v1/investments
func (h *InvestmentHandler) List(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)

	investments, err := h.Service.List(c.Context(), offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch investments"})
	}
	return c.JSON(investments)
}

// Get returns a single investment by id
// GET /api/v1/investments/:id
func (h *InvestmentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid investment id"})
	}

	inv, err := h.Service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Investment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch investment"})
	}
	return c.JSON(inv)
}

// Update applies a partial update
// PATCH /api/v1/investments/:id
func (h *InvestmentHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid investment id"})
	}

	var input services.UpdateInvestmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	inv, err := h.Service.Update(c.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Investment not found"})
		case isValidationError(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update investment"})
		}
	}
	return c.JSON(inv)
}

// Delete removes an investment and its price history
// DELETE /api/v1/investments/:id
func (h *InvestmentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid investment id"})
	}

	if err := h.Service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Investment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete investment"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
