/**
 * @description
 * GORM-backed PriceHistoryStore.
 * Read side of the append-only observation ledger; the only write paths are
 * RecordQuote (append) and DeleteOlderThan (maintenance prune).
 *
 * @dependencies
 * - gorm.io/gorm
 * - backend/internal/models
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/skinledger/backend/internal/models"
	"gorm.io/gorm"
)

// GormPriceHistoryStore implements PriceHistoryStore on PostgreSQL
type GormPriceHistoryStore struct {
	db *gorm.DB
}

func NewPriceHistoryStore(db *gorm.DB) *GormPriceHistoryStore {
	return &GormPriceHistoryStore{db: db}
}

func (s *GormPriceHistoryStore) ByInvestment(ctx context.Context, investmentID uint, days, offset, limit int) ([]models.PriceHistory, error) {
	query := s.db.WithContext(ctx).
		Where("investment_id = ?", investmentID).
		Order("timestamp DESC")
	query = applyWindow(query, days)
	query = applyPaging(query, offset, limit)

	var history []models.PriceHistory
	if err := query.Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (s *GormPriceHistoryStore) Latest(ctx context.Context, investmentID uint) (*models.PriceHistory, error) {
	var entry models.PriceHistory
	err := s.db.WithContext(ctx).
		Where("investment_id = ?", investmentID).
		Order("timestamp DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *GormPriceHistoryStore) All(ctx context.Context, days, offset, limit int) ([]models.PriceHistory, error) {
	query := s.db.WithContext(ctx).Model(&models.PriceHistory{}).Order("timestamp DESC")
	query = applyWindow(query, days)
	query = applyPaging(query, offset, limit)

	var history []models.PriceHistory
	if err := query.Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (s *GormPriceHistoryStore) Window(ctx context.Context, days int) ([]models.PriceHistory, error) {
	query := s.db.WithContext(ctx).Model(&models.PriceHistory{}).Order("timestamp ASC")
	query = applyWindow(query, days)

	var history []models.PriceHistory
	if err := query.Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (s *GormPriceHistoryStore) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.PriceHistory{})
	return result.RowsAffected, result.Error
}

func applyWindow(query *gorm.DB, days int) *gorm.DB {
	if days > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		query = query.Where("timestamp >= ?", cutoff)
	}
	return query
}

func applyPaging(query *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}
