/**
 * @description
 * API Route definitions.
 * Sets up the router groups, wires stores and services, and assigns handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/api/middleware
 * - backend/internal/services
 * - backend/internal/steam
 * - backend/internal/store
 */

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/skinledger/backend/internal/api/handlers"
	"github.com/skinledger/backend/internal/api/middleware"
	"github.com/skinledger/backend/internal/config"
	"github.com/skinledger/backend/internal/services"
	"github.com/skinledger/backend/internal/steam"
	"github.com/skinledger/backend/internal/store"
	"gorm.io/gorm"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// 1. Initialize Stores
	investments := store.NewInvestmentStore(db)
	history := store.NewPriceHistoryStore(db)
	locker := store.NewRefreshLocker(db)

	// 2. Initialize Services
	// One steam client per process: the rate limiter inside it is shared state
	steamClient := steam.NewClient(cfg)
	investmentService := services.NewInvestmentService(investments)
	priceService := services.NewPriceService(investments, locker, steamClient, rdb)
	historyService := services.NewHistoryService(investments, history)
	portfolioService := services.NewPortfolioService(investments, history, rdb)

	// 3. Initialize Handlers
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	priceHandler := handlers.NewPriceHandler(investments, priceService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	protected := middleware.Protected(cfg.Auth.JWTSecret)

	// 4. Define Routes
	apiGroup := app.Group("/api")
	v1 := apiGroup.Group("/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Investment Routes (reads public, writes protected)
	inv := v1.Group("/investments")
	inv.Get("/", investmentHandler.List)
	inv.Get("/:id", investmentHandler.Get)
	inv.Post("/", protected, investmentHandler.Create)
	inv.Patch("/:id", protected, investmentHandler.Update)
	inv.Delete("/:id", protected, investmentHandler.Delete)

	// Price Refresh Routes (protected: they spend the marketplace budget)
	prices := v1.Group("/prices", protected)
	prices.Post("/refresh/:id", priceHandler.RefreshSingle)
	prices.Post("/refresh-all", priceHandler.RefreshAll)

	// Price History Routes (public)
	ph := v1.Group("/price-history")
	ph.Get("/", historyHandler.ListAll)
	ph.Get("/:id", historyHandler.ByInvestment)
	ph.Get("/:id/latest", historyHandler.Latest)

	// Portfolio Routes (public)
	portfolio := v1.Group("/portfolio")
	portfolio.Get("/value-history", portfolioHandler.ValueHistory)
	portfolio.Get("/top-performers", portfolioHandler.TopPerformers)
	portfolio.Get("/summary", portfolioHandler.Summary)
	portfolio.Get("/stream", portfolioHandler.StreamPriceUpdates)
}
