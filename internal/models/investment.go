/**
 * @description
 * Investment database model.
 * Maps to the 'investments' table in PostgreSQL. One row per tracked purchase
 * of a collectible item (skin, sticker, case, ...).
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/shopspring/decimal
 */

package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ItemType enumerates the kinds of collectible items the market trades
type ItemType string

const (
	ItemTypeSkin     ItemType = "skin"
	ItemTypeSticker  ItemType = "sticker"
	ItemTypeCase     ItemType = "case"
	ItemTypeAgent    ItemType = "agent"
	ItemTypeKnife    ItemType = "knife"
	ItemTypeGloves   ItemType = "gloves"
	ItemTypePatch    ItemType = "patch"
	ItemTypeMusicKit ItemType = "music_kit"
	ItemTypeGraffiti ItemType = "graffiti"
	ItemTypeOther    ItemType = "other"
)

// Valid reports whether t is one of the known item types
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeSkin, ItemTypeSticker, ItemTypeCase, ItemTypeAgent, ItemTypeKnife,
		ItemTypeGloves, ItemTypePatch, ItemTypeMusicKit, ItemTypeGraffiti, ItemTypeOther:
		return true
	}
	return false
}

var (
	ErrItemNameRequired = errors.New("item_name must not be empty")
	ErrInvalidItemType  = errors.New("item_type is not a known item type")
	ErrNonPositivePrice = errors.New("purchase_price must be positive")
	ErrQuantityBelowOne = errors.New("quantity must be at least 1")
)

// Investment represents one tracked purchase of a collectible item.
// CurrentPrice and PriceLastUpdated stay nil until the first successful
// price refresh, and are only ever written by the refresh workflow.
type Investment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ItemName string   `gorm:"column:item_name;index;not null" json:"item_name"`
	ItemType ItemType `gorm:"column:item_type;not null;default:skin" json:"item_type"`

	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:decimal(12,4);not null" json:"purchase_price"`
	Quantity      int             `gorm:"column:quantity;not null;default:1" json:"quantity"`
	PurchaseDate  time.Time       `gorm:"column:purchase_date;not null" json:"purchase_date"`

	CurrentPrice     *decimal.Decimal `gorm:"column:current_price;type:decimal(12,4)" json:"current_price"`
	PriceLastUpdated *time.Time       `gorm:"column:price_last_updated" json:"price_last_updated"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name used by Investment to `investments`
func (Investment) TableName() string {
	return "investments"
}

// Validate enforces the invariants a row must satisfy before it is persisted
func (i *Investment) Validate() error {
	if i.ItemName == "" {
		return ErrItemNameRequired
	}
	if !i.ItemType.Valid() {
		return ErrInvalidItemType
	}
	if !i.PurchasePrice.IsPositive() {
		return ErrNonPositivePrice
	}
	if i.Quantity < 1 {
		return ErrQuantityBelowOne
	}
	return nil
}
