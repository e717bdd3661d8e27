package services

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skinledger/backend/internal/models"
)

func holding(id uint, purchase string, qty int) models.Investment {
	return models.Investment{
		ID:            id,
		ItemName:      "item",
		ItemType:      models.ItemTypeSkin,
		PurchasePrice: decimal.RequireFromString(purchase),
		Quantity:      qty,
	}
}

func pricedHolding(id uint, purchase, current string, qty int) models.Investment {
	inv := holding(id, purchase, qty)
	price := decimal.RequireFromString(current)
	inv.CurrentPrice = &price
	return inv
}

func observation(investmentID uint, price string, at time.Time) models.PriceHistory {
	return models.PriceHistory{
		InvestmentID: investmentID,
		Price:        decimal.RequireFromString(price),
		Timestamp:    at,
		Source:       models.SourceSteamMarket,
	}
}

func TestBuildValueSeriesPurchasePriceFallback(t *testing.T) {
	// Holding A has no observations at all and must value at purchase price in
	// every bucket. Holding B has one observation of 80 at hour T.
	hourT := time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC)
	investments := []models.Investment{
		holding(1, "100", 2),
		holding(2, "50", 1),
	}
	history := []models.PriceHistory{
		observation(2, "80", hourT.Add(12*time.Minute)),
	}

	points := buildValueSeries(investments, history)

	require.Len(t, points, 1)
	assert.Equal(t, hourT, points[0].Timestamp)
	// 100*2 + 80*1
	assert.True(t, points[0].Value.Equal(decimal.RequireFromString("280")), "got %s", points[0].Value)
}

func TestBuildValueSeriesLastObservationWinsWithinBucket(t *testing.T) {
	hourT := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	investments := []models.Investment{holding(1, "10", 1)}
	history := []models.PriceHistory{
		observation(1, "11", hourT.Add(5*time.Minute)),
		observation(1, "13", hourT.Add(40*time.Minute)),
	}

	points := buildValueSeries(investments, history)

	require.Len(t, points, 1)
	assert.True(t, points[0].Value.Equal(decimal.RequireFromString("13")), "got %s", points[0].Value)
}

func TestBuildValueSeriesCarriesLastKnownPriceForward(t *testing.T) {
	hourT := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	investments := []models.Investment{
		holding(1, "10", 1),
		holding(2, "20", 3),
	}
	history := []models.PriceHistory{
		observation(1, "12", hourT),
		observation(2, "25", hourT),
		// next hour only holding 1 was observed; holding 2 carries 25
		observation(1, "14", hourT.Add(time.Hour)),
	}

	points := buildValueSeries(investments, history)

	require.Len(t, points, 2)
	assert.True(t, points[0].Value.Equal(decimal.RequireFromString("87")), "got %s", points[0].Value)  // 12 + 25*3
	assert.True(t, points[1].Value.Equal(decimal.RequireFromString("89")), "got %s", points[1].Value)  // 14 + 25*3
	assert.True(t, points[0].Timestamp.Before(points[1].Timestamp))
}

func TestBuildValueSeriesIdempotent(t *testing.T) {
	hourT := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	investments := []models.Investment{
		holding(1, "3.50", 4),
		holding(2, "120", 1),
	}
	history := []models.PriceHistory{
		observation(1, "4.10", hourT),
		observation(2, "110", hourT.Add(time.Hour)),
		observation(1, "4.25", hourT.Add(2*time.Hour)),
	}

	first := buildValueSeries(investments, history)
	second := buildValueSeries(investments, history)
	require.Equal(t, first, second)
}

func TestBuildValueSeriesNoObservations(t *testing.T) {
	points := buildValueSeries([]models.Investment{holding(1, "10", 1)}, nil)
	assert.Empty(t, points)
}

func TestRankPerformersOrdersByPercentChange(t *testing.T) {
	investments := []models.Investment{
		pricedHolding(1, "100", "90", 1),  // -10%
		pricedHolding(2, "100", "105", 1), // +5%
		pricedHolding(3, "100", "140", 1), // +40%
	}

	top := rankPerformers(investments, 1)

	require.Len(t, top.Gainers, 1)
	require.Len(t, top.Losers, 1)
	assert.Equal(t, uint(3), top.Gainers[0].ID)
	assert.Equal(t, uint(1), top.Losers[0].ID)
	assert.True(t, top.Gainers[0].PriceChangePct.Equal(decimal.RequireFromString("40")))
	assert.True(t, top.Losers[0].PriceChangePct.Equal(decimal.RequireFromString("-10")))
}

func TestRankPerformersLosersWorstFirst(t *testing.T) {
	investments := []models.Investment{
		pricedHolding(1, "100", "80", 1),  // -20%
		pricedHolding(2, "100", "95", 1),  // -5%
		pricedHolding(3, "100", "120", 1), // +20%
		pricedHolding(4, "100", "110", 1), // +10%
	}

	top := rankPerformers(investments, 2)

	require.Len(t, top.Losers, 2)
	assert.Equal(t, uint(1), top.Losers[0].ID)
	assert.Equal(t, uint(2), top.Losers[1].ID)
}

func TestRankPerformersNeverDuplicatesAcrossLists(t *testing.T) {
	// 4 qualifying holdings with limit 3: gainers take three, losers get only
	// the one holding not already placed
	investments := []models.Investment{
		pricedHolding(1, "100", "140", 1),
		pricedHolding(2, "100", "120", 1),
		pricedHolding(3, "100", "110", 1),
		pricedHolding(4, "100", "90", 1),
	}

	top := rankPerformers(investments, 3)

	require.Len(t, top.Gainers, 3)
	require.Len(t, top.Losers, 1)
	assert.Equal(t, uint(4), top.Losers[0].ID)

	seen := map[uint]bool{}
	for _, p := range top.Gainers {
		seen[p.ID] = true
	}
	for _, p := range top.Losers {
		assert.False(t, seen[p.ID], "holding %d appears in both lists", p.ID)
	}
}

func TestRankPerformersFewerThanLimit(t *testing.T) {
	investments := []models.Investment{
		pricedHolding(1, "100", "110", 1),
		pricedHolding(2, "100", "90", 1),
	}

	top := rankPerformers(investments, 3)

	// all qualifying holdings land in gainers; losers stays empty rather than
	// repeating them
	require.Len(t, top.Gainers, 2)
	assert.Empty(t, top.Losers)
}

func TestRankPerformersExcludesUnpricedHoldings(t *testing.T) {
	investments := []models.Investment{
		holding(1, "100", 1), // never refreshed: silently excluded
		pricedHolding(2, "50", "60", 2),
	}

	top := rankPerformers(investments, 3)

	require.Len(t, top.Gainers, 1)
	assert.Equal(t, uint(2), top.Gainers[0].ID)
	assert.True(t, top.Gainers[0].TotalProfitLoss.Equal(decimal.RequireFromString("20")))
}

func TestSummarize(t *testing.T) {
	investments := []models.Investment{
		pricedHolding(1, "100", "150", 2), // cost 200, value 300
		holding(2, "50", 1),               // unpriced: counts at purchase both sides
	}

	summary := summarize(investments)

	assert.Equal(t, 2, summary.Investments)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.PricedItems)
	assert.True(t, summary.TotalCost.Equal(decimal.RequireFromString("250")))
	assert.True(t, summary.CurrentValue.Equal(decimal.RequireFromString("350")))
	assert.True(t, summary.Profit.Equal(decimal.RequireFromString("100")))
	assert.True(t, summary.ProfitPercent.Equal(decimal.RequireFromString("40")))
}

func TestValueHistoryEmptyLedger(t *testing.T) {
	investments := new(MockInvestmentStore)
	investments.On("List", mock.Anything, 0, 0).Return([]models.Investment{}, nil).Once()

	svc := NewPortfolioService(investments, new(MockPriceHistoryStore), nil)
	points, err := svc.ValueHistory(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestValueHistoryUsesCacheForDefaultWindow(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hourT := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	investments := new(MockInvestmentStore)
	history := new(MockPriceHistoryStore)
	investments.On("List", mock.Anything, 0, 0).
		Return([]models.Investment{holding(1, "10", 1)}, nil).Once()
	history.On("Window", mock.Anything, DefaultValueHistoryDays).
		Return([]models.PriceHistory{observation(1, "12", hourT)}, nil).Once()

	svc := NewPortfolioService(investments, history, rdb)

	first, err := svc.ValueHistory(context.Background(), DefaultValueHistoryDays)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(CacheKeyValueHistory))

	// second call is served from the cache; the .Once() expectations above
	// fail the test if the stores are hit again
	second, err := svc.ValueHistory(context.Background(), DefaultValueHistoryDays)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, first[0].Value.Equal(second[0].Value))

	investments.AssertExpectations(t)
	history.AssertExpectations(t)
}
