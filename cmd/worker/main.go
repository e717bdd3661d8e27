/**
 * @description
 * Worker Service Entry Point.
 * Runs the scheduled price refresh: every Refresh.Interval it walks the
 * investment ledger, fetching current Steam market prices and appending
 * observations to the price history.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/services
 * - backend/internal/steam
 * - backend/internal/store
 */

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skinledger/backend/internal/config"
	"github.com/skinledger/backend/internal/db"
	"github.com/skinledger/backend/internal/logger"
	"github.com/skinledger/backend/internal/services"
	"github.com/skinledger/backend/internal/steam"
	"github.com/skinledger/backend/internal/store"
)

func main() {
	logger.Info("🔥 Starting Skin Ledger Worker...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Connect DBs
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Postgres connection failed: %v", err)
	}
	if err := db.Migrate(pgDB); err != nil {
		logger.Fatal("Failed to migrate schema: %v", err)
	}

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("Redis connection failed: %v", err)
	}

	// 3. Initialize Services
	investments := store.NewInvestmentStore(pgDB)
	history := store.NewPriceHistoryStore(pgDB)
	locker := store.NewRefreshLocker(pgDB)
	steamClient := steam.NewClient(cfg)
	priceService := services.NewPriceService(investments, locker, steamClient, redisClient)
	historyService := services.NewHistoryService(investments, history)

	// 4. Context with Cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Refresh Loop
	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(cfg.Refresh.Interval)
		defer ticker.Stop()

		// Initial run at startup
		runRefresh(ctx, priceService, cfg.Refresh.BatchLimit)
		pruneHistory(ctx, historyService, cfg.Refresh.HistoryRetentionDays)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runRefresh(ctx, priceService, cfg.Refresh.BatchLimit)
				pruneHistory(ctx, historyService, cfg.Refresh.HistoryRetentionDays)
			}
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	<-done
	logger.Info("Worker exited.")
}

// runRefresh runs one full batch and logs the outcome
func runRefresh(ctx context.Context, ps *services.PriceService, batchLimit int) {
	logger.Info("🔄 Starting scheduled price refresh (batch limit %d)...", batchLimit)

	summary, err := ps.RefreshAll(ctx, 0, batchLimit)
	if err != nil {
		if errors.Is(err, store.ErrRefreshInProgress) {
			logger.Warn("Skipping scheduled refresh: another batch is running")
			return
		}
		if errors.Is(err, context.Canceled) {
			if summary != nil {
				logger.Warn("Scheduled refresh cancelled: %s", summary.Message)
			}
			return
		}
		logger.Error("Scheduled refresh failed: %v", err)
		return
	}

	logger.Info("✅ Scheduled refresh complete: total=%d updated=%d failed=%d rate_limited=%d",
		summary.Total, summary.Updated, summary.Failed, summary.RateLimited)
}

// pruneHistory drops observations past the retention window, if one is set
func pruneHistory(ctx context.Context, hs *services.HistoryService, retentionDays int) {
	if retentionDays <= 0 || ctx.Err() != nil {
		return
	}

	deleted, err := hs.Prune(ctx, retentionDays)
	if err != nil {
		logger.Error("History prune failed: %v", err)
		return
	}
	if deleted > 0 {
		logger.Info("Pruned %d price observations older than %d days", deleted, retentionDays)
	}
}
