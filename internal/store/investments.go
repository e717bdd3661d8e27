/**
 * @description
 * GORM-backed InvestmentStore.
 * Owns the only write path for cached prices: RecordQuote runs the ledger
 * mutation and the history append in one local transaction.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/jackc/pgx/v5/pgconn: Postgres error-code inspection
 * - backend/internal/models
 */

package store

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/steam"
	"gorm.io/gorm"
)

// GormInvestmentStore implements InvestmentStore on PostgreSQL
type GormInvestmentStore struct {
	db *gorm.DB
}

func NewInvestmentStore(db *gorm.DB) *GormInvestmentStore {
	return &GormInvestmentStore{db: db}
}

func (s *GormInvestmentStore) Create(ctx context.Context, inv *models.Investment) error {
	return s.db.WithContext(ctx).Create(inv).Error
}

func (s *GormInvestmentStore) GetByID(ctx context.Context, id uint) (*models.Investment, error) {
	var inv models.Investment
	err := s.db.WithContext(ctx).First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *GormInvestmentStore) List(ctx context.Context, offset, limit int) ([]models.Investment, error) {
	query := s.db.WithContext(ctx).Model(&models.Investment{}).Order("id")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var investments []models.Investment
	if err := query.Find(&investments).Error; err != nil {
		return nil, err
	}
	return investments, nil
}

func (s *GormInvestmentStore) Update(ctx context.Context, inv *models.Investment) error {
	result := s.db.WithContext(ctx).Model(&models.Investment{}).
		Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"item_name":      inv.ItemName,
			"item_type":      inv.ItemType,
			"purchase_price": inv.PurchasePrice,
			"quantity":       inv.Quantity,
			"purchase_date":  inv.PurchaseDate,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the investment and its observations together. The FK also
// cascades, but the explicit transaction keeps the behavior identical on
// databases where the constraint was not created.
func (s *GormInvestmentStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("investment_id = ?", id).Delete(&models.PriceHistory{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Investment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormInvestmentStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Investment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *GormInvestmentStore) RecordQuote(ctx context.Context, inv *models.Investment, quote *steam.Quote) error {
	var volume *string
	if quote.Volume != "" {
		v := quote.Volume
		volume = &v
	}

	const maxAttempts = 2
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.Investment{}).
				Where("id = ?", inv.ID).
				Updates(map[string]interface{}{
					"current_price":      quote.Price,
					"price_last_updated": quote.ObservedAt,
					"updated_at":         time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNotFound
			}

			entry := models.PriceHistory{
				InvestmentID: inv.ID,
				Price:        quote.Price,
				Timestamp:    quote.ObservedAt,
				Source:       models.SourceSteamMarket,
				Volume:       volume,
			}
			return tx.Create(&entry).Error
		})
		if err == nil {
			price := quote.Price
			observedAt := quote.ObservedAt
			inv.CurrentPrice = &price
			inv.PriceLastUpdated = &observedAt
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
			time.Sleep(time.Duration(attempt*100+rand.Intn(100)) * time.Millisecond)
			continue
		}
		break
	}
	return err
}
