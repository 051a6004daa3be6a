package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appinventory "github.com/bottling/backend/internal/application/inventory"
	appproduction "github.com/bottling/backend/internal/application/production"
	apptrade "github.com/bottling/backend/internal/application/trade"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/cache"
	"github.com/bottling/backend/internal/infrastructure/config"
	"github.com/bottling/backend/internal/infrastructure/persistence"
	"github.com/bottling/backend/internal/interfaces/http/dto"
	"github.com/bottling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testAPI is a gin engine wired to real services on in-memory sqlite
type testAPI struct {
	engine *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db.DB))
	t.Cleanup(func() { _ = db.Close() })

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	log := zap.NewNop()
	units := inventory.DefaultUnitConversionTable()
	bom := inventory.DefaultBillOfMaterials()
	policies := inventory.DefaultLedgerPolicies()
	scope := persistence.NewGormTransactionScope(db.DB)
	ledger := appinventory.NewStockLedger(units, log).WithBillOfMaterials(bom)
	guard := appinventory.NewRequestGuard(store, shared.DefaultIdempotencyConfig(), log)

	inventorySvc := appinventory.NewInventoryService(scope, ledger, guard, log)
	production := NewProductionHandler(appproduction.NewProductionService(scope, ledger, guard, bom, policies, log), units)
	purchases := NewPurchaseOrderHandler(apptrade.NewPurchaseOrderService(scope, ledger, guard, bom, log))
	sales := NewSalesOrderHandler(apptrade.NewSalesOrderService(scope, ledger, guard, bom, policies, log))
	returns := NewReturnHandler(apptrade.NewReturnService(scope, ledger, guard, bom, log))
	stock := NewInventoryHandler(inventorySvc)
	suppliers := NewSupplierHandler(appinventory.NewSupplierService(scope, ledger, log))
	ledgerH := NewLedgerHandler(inventorySvc)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Actor())
	api := r.Group("/api/v1")

	api.POST("/production/batches", production.Record)
	api.GET("/production/batches", production.List)
	api.DELETE("/production/batches", production.DeleteRange)
	api.GET("/production/batches/:batch/costing", production.Costing)
	api.GET("/production/products/:product/materials", production.MaterialOptions)

	api.POST("/purchase-orders", purchases.Create)
	api.GET("/purchase-orders", purchases.List)
	api.GET("/purchase-orders/stats", purchases.Stats)
	api.GET("/purchase-orders/receipts", purchases.ListReceipts)
	api.GET("/purchase-orders/:id", purchases.GetByID)
	api.PUT("/purchase-orders/:id", purchases.Update)
	api.DELETE("/purchase-orders/:id", purchases.Delete)
	api.POST("/purchase-orders/:id/receive", purchases.Receive)

	api.POST("/sales-orders", sales.Create)
	api.GET("/sales-orders", sales.List)
	api.DELETE("/sales-orders", sales.Delete)
	api.GET("/sales-orders/:id", sales.GetByID)
	api.PUT("/sales-orders/:id/status", sales.UpdateStatus)
	api.POST("/sales-orders/:id/deliver", sales.Deliver)

	api.POST("/returns", returns.Create)
	api.GET("/returns", returns.List)
	api.GET("/returns/:id", returns.GetByID)
	api.POST("/returns/:id/approve", returns.Approve)

	api.GET("/inventory/stock", stock.ListStock)
	api.GET("/inventory/stock/:id", stock.GetStock)
	api.POST("/inventory/stock/:id/add", stock.AddQuantity)
	api.PUT("/inventory/stock/:id/count", stock.Count)
	api.PUT("/inventory/stock/:id/threshold", stock.UpdateThreshold)
	api.PUT("/inventory/stock/:id/unit-cost", stock.UpdateUnitCost)
	api.GET("/inventory/lots", stock.ListLots)
	api.GET("/inventory/low-stock", stock.LowStock)
	api.POST("/inventory/deduct", stock.Deduct)
	api.POST("/inventory/receive", stock.Receive)

	api.POST("/suppliers", suppliers.Create)
	api.GET("/suppliers", suppliers.List)
	api.POST("/suppliers/offers", suppliers.SaveOffer)
	api.GET("/suppliers/offers", suppliers.ListOffers)

	api.GET("/ledger-events", ledgerH.List)
	api.GET("/ledger-events/export", ledgerH.Export)

	return &testAPI{engine: r}
}

// do sends a request with optional JSON body and headers given as name/value pairs
func (a *testAPI) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// decode unmarshals the envelope, with data decoded into out when non-nil
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var env struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
	}
	return env.Response
}

// requireError asserts an error envelope with the given status and code
func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	resp := decode(t, w, nil)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
}

func (a *testAPI) produce(t *testing.T, product string, pieces int64) {
	t.Helper()
	w := a.do(http.MethodPost, "/api/v1/production/batches", gin.H{
		"lines": []gin.H{{"product": product, "quantity_pieces": pieces}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (a *testAPI) stockItem(t *testing.T, name string) appinventory.StockItemResponse {
	t.Helper()
	w := a.do(http.MethodGet, "/api/v1/inventory/stock?search="+name, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []appinventory.StockItemResponse
	decode(t, w, &items)
	for _, it := range items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("stock item %s not listed", name)
	return appinventory.StockItemResponse{}
}
