package router

import (
	"github.com/bottling/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler of the bottling API
type Handlers struct {
	Production     *handler.ProductionHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	SalesOrders    *handler.SalesOrderHandler
	Returns        *handler.ReturnHandler
	Inventory      *handler.InventoryHandler
	Suppliers      *handler.SupplierHandler
	Ledger         *handler.LedgerHandler
	Scheduler      *handler.SchedulerHandler
	System         *handler.SystemHandler
}

// DomainGroups builds the route groups of the versioned API.
// Static segments such as /stats are declared before /:id.
func DomainGroups(h Handlers) []*DomainGroup {
	production := NewDomainGroup("production", "/production")
	production.GET("/batches", h.Production.List).
		POST("/batches", h.Production.Record).
		DELETE("/batches", h.Production.DeleteRange).
		GET("/batches/:batch/costing", h.Production.Costing).
		GET("/products/:product/materials", h.Production.MaterialOptions)

	purchases := NewDomainGroup("purchase-orders", "/purchase-orders").
		GET("", h.PurchaseOrders.List).
		POST("", h.PurchaseOrders.Create).
		GET("/stats", h.PurchaseOrders.Stats).
		GET("/receipts", h.PurchaseOrders.ListReceipts).
		GET("/:id", h.PurchaseOrders.GetByID).
		PUT("/:id", h.PurchaseOrders.Update).
		DELETE("/:id", h.PurchaseOrders.Delete).
		POST("/:id/receive", h.PurchaseOrders.Receive)

	sales := NewDomainGroup("sales-orders", "/sales-orders").
		GET("", h.SalesOrders.List).
		POST("", h.SalesOrders.Create).
		DELETE("", h.SalesOrders.Delete).
		GET("/:id", h.SalesOrders.GetByID).
		PUT("/:id/status", h.SalesOrders.UpdateStatus).
		POST("/:id/deliver", h.SalesOrders.Deliver)

	returns := NewDomainGroup("returns", "/returns").
		GET("", h.Returns.List).
		POST("", h.Returns.Create).
		GET("/:id", h.Returns.GetByID).
		POST("/:id/approve", h.Returns.Approve)

	inventory := NewDomainGroup("inventory", "/inventory").
		GET("/lots", h.Inventory.ListLots).
		GET("/low-stock", h.Inventory.LowStock).
		POST("/deduct", h.Inventory.Deduct).
		POST("/receive", h.Inventory.Receive)
	inventory.Group("stock", "/stock").
		GET("", h.Inventory.ListStock).
		GET("/:id", h.Inventory.GetStock).
		POST("/:id/add", h.Inventory.AddQuantity).
		PUT("/:id/count", h.Inventory.Count).
		PUT("/:id/threshold", h.Inventory.UpdateThreshold).
		PUT("/:id/unit-cost", h.Inventory.UpdateUnitCost)

	suppliers := NewDomainGroup("suppliers", "/suppliers").
		GET("", h.Suppliers.List).
		POST("", h.Suppliers.Create).
		GET("/offers", h.Suppliers.ListOffers).
		POST("/offers", h.Suppliers.SaveOffer)

	ledger := NewDomainGroup("ledger-events", "/ledger-events").
		GET("", h.Ledger.List).
		GET("/export", h.Ledger.Export)

	groups := []*DomainGroup{production, purchases, sales, returns, inventory, suppliers, ledger}

	if h.Scheduler != nil {
		groups = append(groups, NewDomainGroup("scheduler", "/scheduler").
			GET("/jobs", h.Scheduler.ListJobs).
			POST("/jobs/:name/run", h.Scheduler.RunJob))
	}
	if h.System != nil {
		groups = append(groups, NewDomainGroup("system", "/system").
			GET("/info", h.System.Info))
	}
	return groups
}

// RegisterAPI mounts the versioned API on r and /health on the bare engine
func RegisterAPI(engine *gin.Engine, h Handlers, opts ...RouterOption) *Router {
	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	r := NewRouter(engine, opts...)
	for _, g := range DomainGroups(h) {
		r.Register(g)
	}
	r.Setup()
	return r
}
