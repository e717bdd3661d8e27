/**
 * @description
 * Price refresh workflow.
 * Orchestrates: fetch a quote from the Steam market client, atomically update
 * the ledger's cached price and append the history row, then publish the
 * update on Redis and drop stale portfolio caches. Batch refreshes iterate
 * holdings strictly sequentially and aggregate per-holding outcomes.
 *
 * @dependencies
 * - backend/internal/steam
 * - backend/internal/store
 * - github.com/redis/go-redis/v9
 * - github.com/google/uuid
 *
 * @notes
 * - A holding is never left half-updated: the store's RecordQuote commits the
 *   ledger mutation and the history append together or not at all.
 * - One holding's failure never aborts a batch.
 */

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/skinledger/backend/internal/logger"
	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/steam"
	"github.com/skinledger/backend/internal/store"
)

// PriceUpdateChannel carries JSON price updates to SSE subscribers
const PriceUpdateChannel = "investments:price_updates"

// PriceFetcher is satisfied by *steam.Client
type PriceFetcher interface {
	FetchPrice(ctx context.Context, itemName string) (*steam.Quote, error)
}

// PriceService runs single and batch price refreshes
type PriceService struct {
	Investments store.InvestmentStore
	Locker      store.RefreshLocker
	Fetcher     PriceFetcher
	Redis       *redis.Client
}

func NewPriceService(investments store.InvestmentStore, locker store.RefreshLocker, fetcher PriceFetcher, rdb *redis.Client) *PriceService {
	return &PriceService{
		Investments: investments,
		Locker:      locker,
		Fetcher:     fetcher,
		Redis:       rdb,
	}
}

// RefreshResult reports the outcome of one holding's refresh
type RefreshResult struct {
	InvestmentID uint             `json:"investment_id"`
	Updated      bool             `json:"updated"`
	RateLimited  bool             `json:"rate_limited"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	UpdatedAt    *time.Time       `json:"updated_at,omitempty"`
	Message      string           `json:"message"`
}

// RefreshSummary aggregates a batch refresh
type RefreshSummary struct {
	BatchID     uuid.UUID `json:"batch_id"`
	Total       int       `json:"total"`
	Updated     int       `json:"updated"`
	Failed      int       `json:"failed"`
	RateLimited int       `json:"rate_limited"`
	Message     string    `json:"message"`
}

// RefreshOne fetches the current market price for a single investment and
// persists it. On any failure the investment's cached price and timestamp are
// untouched; the result carries the reason instead of an error because
// marketplace unavailability is expected and non-fatal.
func (s *PriceService) RefreshOne(ctx context.Context, inv *models.Investment) RefreshResult {
	result := RefreshResult{InvestmentID: inv.ID}

	quote, err := s.Fetcher.FetchPrice(ctx, inv.ItemName)
	if err != nil {
		result.RateLimited = errors.Is(err, steam.ErrRateLimited)
		switch {
		case errors.Is(err, steam.ErrNotFound):
			result.Message = "item not found on the Steam market"
		case result.RateLimited:
			result.Message = "rate limited by the Steam market"
		default:
			result.Message = "Steam market unavailable"
		}
		logger.Error("Price fetch failed for investment %d (%s): %v", inv.ID, inv.ItemName, err)
		return result
	}

	if err := s.Investments.RecordQuote(ctx, inv, quote); err != nil {
		result.Message = "failed to store the refreshed price"
		logger.Error("RecordQuote failed for investment %d: %v", inv.ID, err)
		return result
	}

	result.Updated = true
	result.Price = inv.CurrentPrice
	result.UpdatedAt = inv.PriceLastUpdated
	result.Message = "price updated and saved to history"

	s.publishPriceUpdate(ctx, inv, quote)
	s.invalidatePortfolioCaches(ctx)

	return result
}

// RefreshAll refreshes every investment in the (offset, limit) range, one at
// a time. The shared client rate limit makes concurrency pointless, and
// Steam's own limits make it harmful. A second concurrent batch is rejected
// with store.ErrRefreshInProgress. Cancellation takes effect before the next
// holding is started, never mid-holding.
func (s *PriceService) RefreshAll(ctx context.Context, offset, limit int) (*RefreshSummary, error) {
	unlock, err := s.Locker.TryLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	investments, err := s.Investments.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load investments for refresh: %w", err)
	}

	summary := &RefreshSummary{BatchID: uuid.New(), Total: len(investments)}
	logger.Info("🔄 Refresh batch %s: %d investments", summary.BatchID, summary.Total)

	for i := range investments {
		if ctx.Err() != nil {
			logger.Warn("Refresh batch %s cancelled after %d/%d investments", summary.BatchID, i, summary.Total)
			summary.Message = summaryMessage(summary)
			return summary, ctx.Err()
		}

		result := s.RefreshOne(ctx, &investments[i])
		if result.Updated {
			summary.Updated++
		} else {
			summary.Failed++
			if result.RateLimited {
				summary.RateLimited++
			}
		}
	}

	summary.Message = summaryMessage(summary)
	logger.Info("✅ Refresh batch %s done: %s", summary.BatchID, summary.Message)
	return summary, nil
}

func summaryMessage(s *RefreshSummary) string {
	return fmt.Sprintf("Updated %d/%d prices. %d rate limited. History saved for all updates.",
		s.Updated, s.Total, s.RateLimited)
}

// priceUpdateEvent is the payload published on PriceUpdateChannel
type priceUpdateEvent struct {
	InvestmentID uint            `json:"investment_id"`
	ItemName     string          `json:"item_name"`
	Price        decimal.Decimal `json:"price"`
	Timestamp    time.Time       `json:"timestamp"`
}

func (s *PriceService) publishPriceUpdate(ctx context.Context, inv *models.Investment, quote *steam.Quote) {
	if s.Redis == nil {
		return
	}
	payload, err := json.Marshal(priceUpdateEvent{
		InvestmentID: inv.ID,
		ItemName:     inv.ItemName,
		Price:        quote.Price,
		Timestamp:    quote.ObservedAt,
	})
	if err != nil {
		logger.Error("Failed to marshal price update for investment %d: %v", inv.ID, err)
		return
	}
	if err := s.Redis.Publish(ctx, PriceUpdateChannel, payload).Err(); err != nil {
		logger.Error("Failed to publish price update for investment %d: %v", inv.ID, err)
	}
}

func (s *PriceService) invalidatePortfolioCaches(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, CacheKeyValueHistory, CacheKeyTopPerformers, CacheKeySummary).Err(); err != nil {
		logger.Error("Failed to invalidate portfolio caches: %v", err)
	}
}
