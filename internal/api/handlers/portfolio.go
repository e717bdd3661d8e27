/**
 * @description
 * Portfolio analytics API Handlers.
 * Value-over-time reconstruction, gainers/losers ranking, totals, and an SSE
 * feed of live price updates.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/services
 */

package handlers

import (
	"bufio"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/skinledger/backend/internal/services"
)

type PortfolioHandler struct {
	Service *services.PortfolioService
}

func NewPortfolioHandler(service *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{Service: service}
}

// ValueHistory returns portfolio value per hour bucket
// GET /api/v1/portfolio/value-history?days=30
func (h *PortfolioHandler) ValueHistory(c *fiber.Ctx) error {
	days := c.QueryInt("days", services.DefaultValueHistoryDays)

	points, err := h.Service.ValueHistory(c.Context(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute value history"})
	}
	return c.JSON(points)
}

// TopPerformers returns the best and worst holdings by percentage return
// GET /api/v1/portfolio/top-performers?limit=3
func (h *PortfolioHandler) TopPerformers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultTopLimit)

	top, err := h.Service.TopPerformers(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to rank performers"})
	}
	return c.JSON(top)
}

// Summary returns portfolio totals
// GET /api/v1/portfolio/summary
func (h *PortfolioHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.Service.PortfolioSummary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute summary"})
	}
	return c.JSON(summary)
}

// StreamPriceUpdates streams live price updates over SSE
// GET /api/v1/portfolio/stream
func (h *PortfolioHandler) StreamPriceUpdates(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	requestCtx := c.Context()

	ctx, cancel := context.WithCancel(context.Background())

	pubsub := h.Service.Redis.Subscribe(ctx, services.PriceUpdateChannel)
	ch := pubsub.Channel()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cancel()
			_ = pubsub.Close()
		}()

		requestDone := requestCtx.Done()

		for {
			select {
			case <-requestDone:
				return
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", msg.Payload)
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
