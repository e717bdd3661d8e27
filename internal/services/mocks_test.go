package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/steam"
)

// MockInvestmentStore is a mock implementation of store.InvestmentStore
type MockInvestmentStore struct {
	mock.Mock
}

func (m *MockInvestmentStore) Create(ctx context.Context, inv *models.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentStore) GetByID(ctx context.Context, id uint) (*models.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Investment), args.Error(1)
}

func (m *MockInvestmentStore) List(ctx context.Context, offset, limit int) ([]models.Investment, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Investment), args.Error(1)
}

func (m *MockInvestmentStore) Update(ctx context.Context, inv *models.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvestmentStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvestmentStore) RecordQuote(ctx context.Context, inv *models.Investment, quote *steam.Quote) error {
	args := m.Called(ctx, inv, quote)
	return args.Error(0)
}

// MockPriceHistoryStore is a mock implementation of store.PriceHistoryStore
type MockPriceHistoryStore struct {
	mock.Mock
}

func (m *MockPriceHistoryStore) ByInvestment(ctx context.Context, investmentID uint, days, offset, limit int) ([]models.PriceHistory, error) {
	args := m.Called(ctx, investmentID, days, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryStore) Latest(ctx context.Context, investmentID uint) (*models.PriceHistory, error) {
	args := m.Called(ctx, investmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryStore) All(ctx context.Context, days, offset, limit int) ([]models.PriceHistory, error) {
	args := m.Called(ctx, days, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryStore) Window(ctx context.Context, days int) ([]models.PriceHistory, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryStore) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

// MockFetcher is a mock implementation of PriceFetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchPrice(ctx context.Context, itemName string) (*steam.Quote, error) {
	args := m.Called(ctx, itemName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*steam.Quote), args.Error(1)
}

// MockLocker is a mock implementation of store.RefreshLocker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context) (func(), error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}
