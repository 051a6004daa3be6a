package handler

import (
	"net/http"
	"testing"

	appinventory "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryHandler_StockEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.produce(t, "350ml", 48)
	id := api.stockItem(t, "350ml").ID.String()

	t.Run("get by id", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/inventory/stock/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var item appinventory.StockItemResponse
		decode(t, w, &item)
		assert.Equal(t, "350ml", item.Name)
		assert.Equal(t, 24, item.PiecesPerUnit)
	})

	t.Run("count resets pieces", func(t *testing.T) {
		w := api.do(http.MethodPut, "/api/v1/inventory/stock/"+id+"/count", gin.H{"pieces": 30}, "X-Employee-ID", "counter")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var item appinventory.StockItemResponse
		decode(t, w, &item)
		assert.Equal(t, int64(30), item.QuantityPieces)
		assert.Equal(t, int64(1), item.QuantityGrouped)
	})

	t.Run("threshold drives low stock", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/inventory/low-stock", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var low []appinventory.StockItemResponse
		decode(t, w, &low)
		assert.Empty(t, low)

		w = api.do(http.MethodPut, "/api/v1/inventory/stock/"+id+"/threshold", gin.H{"low_stock_threshold": 2})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var item appinventory.StockItemResponse
		decode(t, w, &item)
		assert.True(t, item.IsLowStock)

		w = api.do(http.MethodGet, "/api/v1/inventory/low-stock", nil)
		decode(t, w, &low)
		require.Len(t, low, 1)
		assert.Equal(t, "350ml", low[0].Name)
	})

	t.Run("unit cost", func(t *testing.T) {
		w := api.do(http.MethodPut, "/api/v1/inventory/stock/"+id+"/unit-cost", gin.H{"unit_cost": "145.50"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var item appinventory.StockItemResponse
		decode(t, w, &item)
		require.NotNil(t, item.UnitCost)
		assert.Equal(t, "145.5", item.UnitCost.String())
	})

	t.Run("errors", func(t *testing.T) {
		requireError(t, api.do(http.MethodGet, "/api/v1/inventory/stock/nope", nil),
			http.StatusBadRequest, dto.ErrCodeBadRequest)
		requireError(t, api.do(http.MethodGet, "/api/v1/inventory/stock/00000000-0000-0000-0000-000000000009", nil),
			http.StatusNotFound, dto.ErrCodeItemNotFound)
		requireError(t, api.do(http.MethodPut, "/api/v1/inventory/stock/"+id+"/count", gin.H{"pieces": -1}),
			http.StatusBadRequest, dto.ErrCodeValidation)
	})
}

func TestInventoryHandler_Deduct(t *testing.T) {
	api := newTestAPI(t)
	api.produce(t, "500ml", 24)

	tests := []struct {
		name   string
		body   gin.H
		status int
		code   string
	}{
		{"unknown type", gin.H{"type": "Gadgets", "item_name": "500ml", "pieces": 1}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"raw without supplier", gin.H{"type": "Raw Materials", "item_name": "Label", "pieces": 1}, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"more than on hand", gin.H{"type": "Finished Goods", "item_name": "500ml", "pieces": 25}, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"missing item", gin.H{"type": "Finished Goods", "item_name": "6L", "pieces": 1}, http.StatusNotFound, dto.ErrCodeItemNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireError(t, api.do(http.MethodPost, "/api/v1/inventory/deduct", tt.body), tt.status, tt.code)
		})
	}

	w := api.do(http.MethodPost, "/api/v1/inventory/deduct",
		gin.H{"type": "Finished Goods", "item_name": "500ml", "pieces": 4},
		"X-Employee-ID", "auditor")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var item appinventory.StockItemResponse
	decode(t, w, &item)
	assert.Equal(t, int64(20), item.QuantityPieces)
	assert.Equal(t, int64(0), item.QuantityGrouped)
}

func TestSupplierHandler(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/suppliers", gin.H{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	requireError(t, api.do(http.MethodPost, "/api/v1/suppliers", gin.H{"name": "Acme"}),
		http.StatusConflict, dto.ErrCodeAlreadyExists)
	requireError(t, api.do(http.MethodPost, "/api/v1/suppliers", gin.H{}),
		http.StatusBadRequest, dto.ErrCodeValidation)
	requireError(t, api.do(http.MethodPost, "/api/v1/suppliers/offers",
		gin.H{"material": "Label", "supplier_name": "Nobody", "price": "1"}),
		http.StatusNotFound, dto.ErrCodeNotFound)

	w = api.do(http.MethodPost, "/api/v1/suppliers/offers", gin.H{
		"material": "Label", "supplier_name": "Acme", "price": "1000", "receiving_conversion": 20000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var offer appinventory.OfferResponse
	decode(t, w, &offer)
	assert.Equal(t, "0.05", offer.PricePerPiece.String())

	w = api.do(http.MethodGet, "/api/v1/suppliers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var suppliers []appinventory.SupplierResponse
	resp := decode(t, w, &suppliers)
	require.Len(t, suppliers, 1)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w = api.do(http.MethodGet, "/api/v1/suppliers/offers?material=Label", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var offers []appinventory.OfferResponse
	decode(t, w, &offers)
	require.Len(t, offers, 1)
	assert.Equal(t, "Acme", offers[0].SupplierName)

	w = api.do(http.MethodGet, "/api/v1/inventory/lots?material=Label", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lots []appinventory.LotResponse
	decode(t, w, &lots)
	require.Len(t, lots, 1)
	assert.Equal(t, 20000, lots[0].ReceivingConversion)
}

func TestInventoryHandler_ReceiveAndAdd(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/inventory/receive",
		gin.H{"item": "500ML", "quantity": 1, "quantity_pcs": 4},
		"X-Employee-ID", "stocker", "Idempotency-Key", "recv-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var item appinventory.StockItemResponse
	decode(t, w, &item)
	assert.Equal(t, "500ml", item.Name)
	assert.Equal(t, int64(28), item.QuantityPieces)

	again := api.do(http.MethodPost, "/api/v1/inventory/receive",
		gin.H{"item": "500ml", "quantity": 1}, "Idempotency-Key", "recv-1")
	requireError(t, again, http.StatusConflict, dto.ErrCodeDuplicateRequest)

	requireError(t, api.do(http.MethodPost, "/api/v1/inventory/receive", gin.H{"item": "500ml"}),
		http.StatusBadRequest, dto.ErrCodeInvalidInput)
	requireError(t, api.do(http.MethodPost, "/api/v1/inventory/receive", gin.H{"item": "500ml", "quantity": -1}),
		http.StatusBadRequest, dto.ErrCodeValidation)

	w = api.do(http.MethodPost, "/api/v1/inventory/stock/"+item.ID.String()+"/add", gin.H{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &item)
	assert.Equal(t, int64(76), item.QuantityPieces)
	assert.Equal(t, int64(76), api.stockItem(t, "500ml").QuantityPieces)
}
