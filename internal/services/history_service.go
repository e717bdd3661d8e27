/**
 * @description
 * Service layer for price history queries.
 * Read-only views over the append-only observation ledger, plus a retention
 * prune for maintenance.
 *
 * @dependencies
 * - backend/internal/store
 * - backend/internal/models
 */

package services

import (
	"context"

	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/store"
)

// HistoryService answers price history queries
type HistoryService struct {
	Investments store.InvestmentStore
	History     store.PriceHistoryStore
}

func NewHistoryService(investments store.InvestmentStore, history store.PriceHistoryStore) *HistoryService {
	return &HistoryService{Investments: investments, History: history}
}

// ByInvestment returns an investment's observations newest-first.
// Returns store.ErrNotFound when the investment does not exist.
func (s *HistoryService) ByInvestment(ctx context.Context, investmentID uint, days, offset, limit int) ([]models.PriceHistory, error) {
	if _, err := s.Investments.GetByID(ctx, investmentID); err != nil {
		return nil, err
	}
	return s.History.ByInvestment(ctx, investmentID, days, offset, limit)
}

// Latest returns the most recent observation for an investment.
// Returns store.ErrNotFound when the investment does not exist or has no
// observations yet.
func (s *HistoryService) Latest(ctx context.Context, investmentID uint) (*models.PriceHistory, error) {
	if _, err := s.Investments.GetByID(ctx, investmentID); err != nil {
		return nil, err
	}
	return s.History.Latest(ctx, investmentID)
}

// All returns observations across every investment, newest-first
func (s *HistoryService) All(ctx context.Context, days, offset, limit int) ([]models.PriceHistory, error) {
	return s.History.All(ctx, days, offset, limit)
}

// Prune deletes observations older than the retention window
func (s *HistoryService) Prune(ctx context.Context, days int) (int64, error) {
	return s.History.DeleteOlderThan(ctx, days)
}
