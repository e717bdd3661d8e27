/**
 * @description
 * Price History database model.
 * Maps to the 'price_history' table in PostgreSQL. Append-only: rows are
 * created by the refresh workflow and never updated afterwards.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 */

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceSteamMarket tags observations fetched from the Steam Community Market
const SourceSteamMarket = "steam_market"

// PriceHistory represents one timestamped price observation for an investment
type PriceHistory struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	InvestmentID uint            `gorm:"column:investment_id;not null;index:idx_price_history_investment_time" json:"investment_id"`
	Price        decimal.Decimal `gorm:"column:price;type:decimal(12,4);not null" json:"price"`
	Timestamp    time.Time       `gorm:"column:timestamp;not null;index:idx_price_history_investment_time" json:"timestamp"`
	Source       string          `gorm:"column:source;not null;default:steam_market" json:"source"`
	Volume       *string         `gorm:"column:volume" json:"volume"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	// Deleting an investment cascades to its observations
	Investment *Investment `gorm:"foreignKey:InvestmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name used by PriceHistory to `price_history`
func (PriceHistory) TableName() string {
	return "price_history"
}
