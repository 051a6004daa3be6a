package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bottling/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testHandlers() Handlers {
	return Handlers{
		Production:     handler.NewProductionHandler(nil, nil),
		PurchaseOrders: handler.NewPurchaseOrderHandler(nil),
		SalesOrders:    handler.NewSalesOrderHandler(nil),
		Returns:        handler.NewReturnHandler(nil),
		Inventory:      handler.NewInventoryHandler(nil),
		Suppliers:      handler.NewSupplierHandler(nil),
		Ledger:         handler.NewLedgerHandler(nil),
		Scheduler:      handler.NewSchedulerHandler(nil),
		System:         handler.NewSystemHandler("bottling-backend", "test"),
	}
}

func TestDomainGroup_Routes(t *testing.T) {
	noop := func(*gin.Context) {}
	g := NewDomainGroup("inventory", "/inventory").
		GET("/lots", noop).
		POST("/deduct", noop)
	g.Group("stock", "/stock").
		GET("", noop).
		PUT("/:id/count", noop)

	assert.Equal(t, "inventory", g.Name())
	assert.Equal(t, "/inventory", g.Prefix())
	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/inventory/lots"},
		{Method: http.MethodPost, Path: "/inventory/deduct"},
		{Method: http.MethodGet, Path: "/inventory/stock"},
		{Method: http.MethodPut, Path: "/inventory/stock/:id/count"},
	}, g.Routes())
}

func TestRegisterAPI_RouteTable(t *testing.T) {
	engine := gin.New()
	RegisterAPI(engine, testHandlers())

	registered := make(map[string]bool)
	for _, info := range engine.Routes() {
		registered[info.Method+" "+info.Path] = true
	}

	want := []string{
		"GET /health",
		"POST /api/v1/production/batches",
		"GET /api/v1/production/batches",
		"DELETE /api/v1/production/batches",
		"GET /api/v1/production/batches/:batch/costing",
		"GET /api/v1/production/products/:product/materials",
		"POST /api/v1/purchase-orders",
		"GET /api/v1/purchase-orders/stats",
		"GET /api/v1/purchase-orders/receipts",
		"GET /api/v1/purchase-orders/:id",
		"PUT /api/v1/purchase-orders/:id",
		"DELETE /api/v1/purchase-orders/:id",
		"POST /api/v1/purchase-orders/:id/receive",
		"POST /api/v1/sales-orders",
		"DELETE /api/v1/sales-orders",
		"GET /api/v1/sales-orders/:id",
		"PUT /api/v1/sales-orders/:id/status",
		"POST /api/v1/sales-orders/:id/deliver",
		"POST /api/v1/returns",
		"POST /api/v1/returns/:id/approve",
		"GET /api/v1/inventory/stock",
		"GET /api/v1/inventory/stock/:id",
		"POST /api/v1/inventory/stock/:id/add",
		"PUT /api/v1/inventory/stock/:id/count",
		"PUT /api/v1/inventory/stock/:id/threshold",
		"PUT /api/v1/inventory/stock/:id/unit-cost",
		"GET /api/v1/inventory/lots",
		"GET /api/v1/inventory/low-stock",
		"POST /api/v1/inventory/deduct",
		"POST /api/v1/inventory/receive",
		"POST /api/v1/suppliers",
		"POST /api/v1/suppliers/offers",
		"GET /api/v1/suppliers/offers",
		"GET /api/v1/ledger-events",
		"GET /api/v1/ledger-events/export",
		"GET /api/v1/scheduler/jobs",
		"POST /api/v1/scheduler/jobs/:name/run",
		"GET /api/v1/system/info",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestRegisterAPI_OptionalHandlers(t *testing.T) {
	h := testHandlers()
	h.Scheduler = nil
	h.System = nil

	engine := gin.New()
	RegisterAPI(engine, h, WithAPIVersion("v2"))

	for _, info := range engine.Routes() {
		assert.NotContains(t, info.Path, "/scheduler")
		assert.NotEqual(t, "/health", info.Path)
		assert.Contains(t, info.Path, "/api/v2/")
	}
}

func TestRouter_GroupMiddleware(t *testing.T) {
	engine := gin.New()
	var hits int
	g := NewDomainGroup("ledger-events", "/ledger-events").
		Use(func(c *gin.Context) { hits++; c.Next() }).
		GET("", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	NewRouter(engine).Register(g).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger-events", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, hits)
}

func TestRegisterAPI_Health(t *testing.T) {
	engine := gin.New()
	RegisterAPI(engine, testHandlers())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
