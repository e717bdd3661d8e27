/**
 * @description
 * Portfolio valuation engine.
 * Reconstructs total portfolio value over time from the observation ledger,
 * ranks holdings by return, and totals the portfolio. Default-parameter
 * queries are cached in Redis; the refresh workflow drops the caches after
 * every successful price update.
 *
 * @dependencies
 * - backend/internal/store
 * - github.com/redis/go-redis/v9
 * - github.com/shopspring/decimal
 */

package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/skinledger/backend/internal/logger"
	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/store"
)

const (
	CacheKeyValueHistory  = "portfolio:value_history"
	CacheKeyTopPerformers = "portfolio:top_performers"
	CacheKeySummary       = "portfolio:summary"
	CacheTTL              = 5 * time.Minute

	// DefaultValueHistoryDays is the trailing window when the caller gives none
	DefaultValueHistoryDays = 30
	// DefaultTopLimit is the number of gainers/losers when the caller gives none
	DefaultTopLimit = 3
)

// PortfolioService answers aggregate analytics queries
type PortfolioService struct {
	Investments store.InvestmentStore
	History     store.PriceHistoryStore
	Redis       *redis.Client
}

func NewPortfolioService(investments store.InvestmentStore, history store.PriceHistoryStore, rdb *redis.Client) *PortfolioService {
	return &PortfolioService{Investments: investments, History: history, Redis: rdb}
}

// ValuePoint is one reconstructed portfolio value at a bucket timestamp
type ValuePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// Performer is one holding's return ranking entry
type Performer struct {
	ID              uint            `json:"id"`
	ItemName        string          `json:"item_name"`
	ItemType        models.ItemType `json:"item_type"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	Quantity        int             `json:"quantity"`
	PriceChange     decimal.Decimal `json:"price_change"`
	PriceChangePct  decimal.Decimal `json:"price_change_pct"`
	TotalProfitLoss decimal.Decimal `json:"total_profit_loss"`
}

// TopPerformers holds the two ranked lists
type TopPerformers struct {
	Gainers []Performer `json:"gainers"`
	Losers  []Performer `json:"losers"`
}

// Summary totals the portfolio at its cached current prices
type Summary struct {
	Investments   int             `json:"investments"`
	TotalItems    int             `json:"total_items"`
	PricedItems   int             `json:"priced_items"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	Profit        decimal.Decimal `json:"profit"`
	ProfitPercent decimal.Decimal `json:"profit_percent"`
}

// ValueHistory reconstructs total portfolio value per hour bucket over the
// trailing window. days <= 0 means the full available history.
func (s *PortfolioService) ValueHistory(ctx context.Context, days int) ([]ValuePoint, error) {
	useCache := days == DefaultValueHistoryDays
	if useCache {
		var cached []ValuePoint
		if s.readCache(ctx, CacheKeyValueHistory, &cached) {
			return cached, nil
		}
	}

	investments, err := s.Investments.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(investments) == 0 {
		return []ValuePoint{}, nil
	}

	history, err := s.History.Window(ctx, days)
	if err != nil {
		return nil, err
	}

	points := buildValueSeries(investments, history)

	if useCache {
		s.writeCache(ctx, CacheKeyValueHistory, points)
	}
	return points, nil
}

// buildValueSeries buckets observations into hours (last observation wins per
// holding per bucket), walks buckets in ascending order carrying the last
// known price per holding forward, and values holdings without any known
// price at their purchase price. history must be ordered by ascending
// timestamp.
func buildValueSeries(investments []models.Investment, history []models.PriceHistory) []ValuePoint {
	buckets := make(map[time.Time]map[uint]decimal.Decimal)
	for _, rec := range history {
		key := rec.Timestamp.Truncate(time.Hour)
		if buckets[key] == nil {
			buckets[key] = make(map[uint]decimal.Decimal)
		}
		buckets[key][rec.InvestmentID] = rec.Price
	}

	timestamps := make([]time.Time, 0, len(buckets))
	for ts := range buckets {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	lastKnown := make(map[uint]decimal.Decimal)
	points := make([]ValuePoint, 0, len(timestamps))

	for _, ts := range timestamps {
		for id, price := range buckets[ts] {
			lastKnown[id] = price
		}

		total := decimal.Zero
		for _, inv := range investments {
			price, ok := lastKnown[inv.ID]
			if !ok {
				price = inv.PurchasePrice
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(inv.Quantity))))
		}

		points = append(points, ValuePoint{Timestamp: ts, Value: total.Round(2)})
	}

	return points
}

// TopPerformers ranks holdings by percentage return. Holdings without a
// cached current price are excluded, not zero-ranked.
func (s *PortfolioService) TopPerformers(ctx context.Context, limit int) (*TopPerformers, error) {
	useCache := limit == DefaultTopLimit
	if useCache {
		var cached TopPerformers
		if s.readCache(ctx, CacheKeyTopPerformers, &cached) {
			return &cached, nil
		}
	}

	investments, err := s.Investments.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	top := rankPerformers(investments, limit)

	if useCache {
		s.writeCache(ctx, CacheKeyTopPerformers, top)
	}
	return top, nil
}

var hundred = decimal.NewFromInt(100)

// rankPerformers sorts qualifying holdings by percentage return (descending)
// and slices the two lists. Losers come worst-first. A holding placed in
// gainers is never repeated in losers, so with fewer than 2*limit qualifying
// holdings the lists stay disjoint.
func rankPerformers(investments []models.Investment, limit int) *TopPerformers {
	performers := make([]Performer, 0, len(investments))
	for _, inv := range investments {
		if inv.CurrentPrice == nil {
			continue
		}

		change := inv.CurrentPrice.Sub(inv.PurchasePrice)
		pct := decimal.Zero
		if inv.PurchasePrice.IsPositive() {
			pct = change.Div(inv.PurchasePrice).Mul(hundred)
		}

		performers = append(performers, Performer{
			ID:              inv.ID,
			ItemName:        inv.ItemName,
			ItemType:        inv.ItemType,
			PurchasePrice:   inv.PurchasePrice,
			CurrentPrice:    *inv.CurrentPrice,
			Quantity:        inv.Quantity,
			PriceChange:     change.Round(2),
			PriceChangePct:  pct.Round(2),
			TotalProfitLoss: change.Mul(decimal.NewFromInt(int64(inv.Quantity))).Round(2),
		})
	}

	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].PriceChangePct.GreaterThan(performers[j].PriceChangePct)
	})

	if limit < 0 {
		limit = 0
	}
	gainEnd := limit
	if gainEnd > len(performers) {
		gainEnd = len(performers)
	}

	top := &TopPerformers{
		Gainers: append([]Performer{}, performers[:gainEnd]...),
		Losers:  []Performer{},
	}
	for i := len(performers) - 1; i >= gainEnd && len(top.Losers) < limit; i-- {
		top.Losers = append(top.Losers, performers[i])
	}

	return top
}

// PortfolioSummary totals cost basis and current value across the ledger.
// Holdings without a cached price count at purchase price.
func (s *PortfolioService) PortfolioSummary(ctx context.Context) (*Summary, error) {
	var cached Summary
	if s.readCache(ctx, CacheKeySummary, &cached) {
		return &cached, nil
	}

	investments, err := s.Investments.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	summary := summarize(investments)
	s.writeCache(ctx, CacheKeySummary, summary)
	return summary, nil
}

func summarize(investments []models.Investment) *Summary {
	summary := &Summary{
		Investments:   len(investments),
		TotalCost:     decimal.Zero,
		CurrentValue:  decimal.Zero,
		Profit:        decimal.Zero,
		ProfitPercent: decimal.Zero,
	}

	for _, inv := range investments {
		qty := decimal.NewFromInt(int64(inv.Quantity))
		summary.TotalItems += inv.Quantity
		summary.TotalCost = summary.TotalCost.Add(inv.PurchasePrice.Mul(qty))

		price := inv.PurchasePrice
		if inv.CurrentPrice != nil {
			price = *inv.CurrentPrice
			summary.PricedItems += inv.Quantity
		}
		summary.CurrentValue = summary.CurrentValue.Add(price.Mul(qty))
	}

	summary.Profit = summary.CurrentValue.Sub(summary.TotalCost)
	if summary.TotalCost.IsPositive() {
		summary.ProfitPercent = summary.Profit.Div(summary.TotalCost).Mul(hundred)
	}

	summary.TotalCost = summary.TotalCost.Round(2)
	summary.CurrentValue = summary.CurrentValue.Round(2)
	summary.Profit = summary.Profit.Round(2)
	summary.ProfitPercent = summary.ProfitPercent.Round(2)
	return summary
}

func (s *PortfolioService) readCache(ctx context.Context, key string, out interface{}) bool {
	if s.Redis == nil {
		return false
	}
	val, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (s *PortfolioService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error("Failed to marshal %s for cache: %v", key, err)
		return
	}
	if err := s.Redis.Set(ctx, key, data, CacheTTL).Err(); err != nil {
		logger.Error("Failed to set %s cache: %v", key, err)
	}
}
