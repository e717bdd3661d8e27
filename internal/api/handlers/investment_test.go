package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinledger/backend/internal/models"
	"github.com/skinledger/backend/internal/services"
	"github.com/skinledger/backend/internal/steam"
	"github.com/skinledger/backend/internal/store"
)

// memInvestmentStore is an in-memory InvestmentStore for handler tests.
type memInvestmentStore struct {
	nextID uint
	items  map[uint]*models.Investment
}

func newMemInvestmentStore() *memInvestmentStore {
	return &memInvestmentStore{nextID: 1, items: make(map[uint]*models.Investment)}
}

func (s *memInvestmentStore) Create(_ context.Context, inv *models.Investment) error {
	inv.ID = s.nextID
	s.nextID++
	copied := *inv
	s.items[inv.ID] = &copied
	return nil
}

func (s *memInvestmentStore) GetByID(_ context.Context, id uint) (*models.Investment, error) {
	inv, ok := s.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (s *memInvestmentStore) List(_ context.Context, offset, limit int) ([]models.Investment, error) {
	out := make([]models.Investment, 0, len(s.items))
	for id := uint(1); id < s.nextID; id++ {
		if inv, ok := s.items[id]; ok {
			out = append(out, *inv)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *memInvestmentStore) Update(_ context.Context, inv *models.Investment) error {
	if _, ok := s.items[inv.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *inv
	s.items[inv.ID] = &copied
	return nil
}

func (s *memInvestmentStore) Delete(_ context.Context, id uint) error {
	if _, ok := s.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *memInvestmentStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

func (s *memInvestmentStore) RecordQuote(_ context.Context, inv *models.Investment, quote *steam.Quote) error {
	stored, ok := s.items[inv.ID]
	if !ok {
		return store.ErrNotFound
	}
	price := quote.Price
	stored.CurrentPrice = &price
	stored.PriceLastUpdated = &quote.ObservedAt
	inv.CurrentPrice = &price
	inv.PriceLastUpdated = &quote.ObservedAt
	return nil
}

func newInvestmentApp(memStore *memInvestmentStore) *fiber.App {
	handler := NewInvestmentHandler(services.NewInvestmentService(memStore))
	app := fiber.New()
	app.Post("/api/v1/investments", handler.Create)
	app.Get("/api/v1/investments", handler.List)
	app.Get("/api/v1/investments/:id", handler.Get)
	app.Patch("/api/v1/investments/:id", handler.Update)
	app.Delete("/api/v1/investments/:id", handler.Delete)
	return app
}

func TestCreateInvestment(t *testing.T) {
	app := newInvestmentApp(newMemInvestmentStore())

	body := `{"item_name":"AWP | Asiimov (Field-Tested)","item_type":"skin","purchase_price":"45.50","quantity":2}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/investments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"id":1`)
	assert.Contains(t, string(payload), "AWP | Asiimov (Field-Tested)")
}

func TestCreateInvestmentRejectsInvalidBody(t *testing.T) {
	app := newInvestmentApp(newMemInvestmentStore())

	cases := []struct {
		name string
		body string
	}{
		{"missing item name", `{"purchase_price":"10.00"}`},
		{"bad item type", `{"item_name":"Chroma 3 Case","item_type":"crate","purchase_price":"0.50"}`},
		{"zero price", `{"item_name":"Chroma 3 Case","purchase_price":"0"}`},
		{"negative quantity", `{"item_name":"Chroma 3 Case","purchase_price":"0.50","quantity":-1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/api/v1/investments", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetInvestmentNotFound(t *testing.T) {
	app := newInvestmentApp(newMemInvestmentStore())

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/investments/42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateInvestment(t *testing.T) {
	memStore := newMemInvestmentStore()
	seed := &models.Investment{
		ItemName:      "Glove Case",
		ItemType:      models.ItemTypeCase,
		PurchasePrice: decimal.RequireFromString("1.20"),
		Quantity:      5,
	}
	require.NoError(t, memStore.Create(context.Background(), seed))

	app := newInvestmentApp(memStore)

	req := httptest.NewRequest(fiber.MethodPatch, "/api/v1/investments/1", strings.NewReader(`{"quantity":8}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	updated, err := memStore.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)
	assert.Equal(t, "Glove Case", updated.ItemName)
}

func TestDeleteInvestment(t *testing.T) {
	memStore := newMemInvestmentStore()
	require.NoError(t, memStore.Create(context.Background(), &models.Investment{
		ItemName:      "Fracture Case",
		ItemType:      models.ItemTypeCase,
		PurchasePrice: decimal.RequireFromString("0.30"),
		Quantity:      10,
	}))

	app := newInvestmentApp(memStore)

	req := httptest.NewRequest(fiber.MethodDelete, "/api/v1/investments/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodDelete, "/api/v1/investments/1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
