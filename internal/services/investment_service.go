/**
 * @description
 * Service layer for the investment ledger.
 * CRUD over tracked holdings with invariant validation; deleting a holding
 * cascades to its price history inside the store transaction.
 *
 * @dependencies
 * - backend/internal/store
 * - backend/internal/models
 * - github.com/shopspring/decimal
 */

package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/store"
)

// InvestmentService handles ledger operations
type InvestmentService struct {
	Investments store.InvestmentStore
}

func NewInvestmentService(investments store.InvestmentStore) *InvestmentService {
	return &InvestmentService{Investments: investments}
}

// CreateInvestmentInput carries the fields a caller may set on creation
type CreateInvestmentInput struct {
	ItemName      string          `json:"item_name"`
	ItemType      models.ItemType `json:"item_type"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Quantity      int             `json:"quantity"`
	PurchaseDate  *time.Time      `json:"purchase_date"`
}

// UpdateInvestmentInput carries a partial update; nil fields are untouched.
// Cached current-price fields are deliberately absent: only the refresh
// workflow writes those.
type UpdateInvestmentInput struct {
	ItemName      *string          `json:"item_name"`
	ItemType      *models.ItemType `json:"item_type"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Quantity      *int             `json:"quantity"`
	PurchaseDate  *time.Time       `json:"purchase_date"`
}

func (s *InvestmentService) Create(ctx context.Context, input CreateInvestmentInput) (*models.Investment, error) {
	inv := &models.Investment{
		ItemName:      input.ItemName,
		ItemType:      input.ItemType,
		PurchasePrice: input.PurchasePrice,
		Quantity:      input.Quantity,
	}
	if inv.ItemType == "" {
		inv.ItemType = models.ItemTypeSkin
	}
	if inv.Quantity == 0 {
		inv.Quantity = 1
	}
	if input.PurchaseDate != nil {
		inv.PurchaseDate = *input.PurchaseDate
	} else {
		inv.PurchaseDate = time.Now().UTC()
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.Investments.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvestmentService) Get(ctx context.Context, id uint) (*models.Investment, error) {
	return s.Investments.GetByID(ctx, id)
}

func (s *InvestmentService) List(ctx context.Context, offset, limit int) ([]models.Investment, error) {
	return s.Investments.List(ctx, offset, limit)
}

func (s *InvestmentService) Update(ctx context.Context, id uint, input UpdateInvestmentInput) (*models.Investment, error) {
	inv, err := s.Investments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ItemName != nil {
		inv.ItemName = *input.ItemName
	}
	if input.ItemType != nil {
		inv.ItemType = *input.ItemType
	}
	if input.PurchasePrice != nil {
		inv.PurchasePrice = *input.PurchasePrice
	}
	if input.Quantity != nil {
		inv.Quantity = *input.Quantity
	}
	if input.PurchaseDate != nil {
		inv.PurchaseDate = *input.PurchaseDate
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.Investments.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvestmentService) Delete(ctx context.Context, id uint) error {
	return s.Investments.Delete(ctx, id)
}
