package handler

import (
	appinventory "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles stock, lot and manual adjustment endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *appinventory.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *appinventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// ListStock lists finished goods.
// GET /inventory/stock
func (h *InventoryHandler) ListStock(c *gin.Context) {
	var q appinventory.StockListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	page := pageOf(q.Page, q.PageSize)
	q.Page, q.PageSize = page.Page, page.PageSize

	items, total, err := h.inventoryService.ListStock(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// GetStock returns one finished good.
// GET /inventory/stock/:id
func (h *InventoryHandler) GetStock(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventoryService.GetStock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListLots lists raw material lots.
// GET /inventory/lots
func (h *InventoryHandler) ListLots(c *gin.Context) {
	var q appinventory.LotListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	page := pageOf(q.Page, q.PageSize)
	q.Page, q.PageSize = page.Page, page.PageSize

	lots, total, err := h.inventoryService.ListLots(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, lots, total, q.Page, q.PageSize)
}

// LowStock lists finished goods at or below their threshold.
// GET /inventory/low-stock
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Deduct removes pieces from a finished good or a raw material lot.
// POST /inventory/deduct
func (h *InventoryHandler) Deduct(c *gin.Context) {
	var req appinventory.DeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)
	req.RequestKey = middleware.GetIdempotencyKey(c)

	result, err := h.inventoryService.Deduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Receive adds finished goods by name, creating the row when needed.
// POST /inventory/receive
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req appinventory.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)
	req.RequestKey = middleware.GetIdempotencyKey(c)

	item, err := h.inventoryService.ReceiveStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AddQuantity adds cases and pieces to an existing finished good.
// POST /inventory/stock/:id/add
func (h *InventoryHandler) AddQuantity(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req appinventory.AddQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)
	req.RequestKey = middleware.GetIdempotencyKey(c)

	item, err := h.inventoryService.AddQuantity(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Count records a physical stock count for a finished good.
// PUT /inventory/stock/:id/count
func (h *InventoryHandler) Count(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)

	item, err := h.inventoryService.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// UpdateThreshold sets or clears the low stock threshold.
// PUT /inventory/stock/:id/threshold
func (h *InventoryHandler) UpdateThreshold(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req appinventory.UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	item, err := h.inventoryService.UpdateThreshold(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// UpdateUnitCost sets the cost of one grouped unit.
// PUT /inventory/stock/:id/unit-cost
func (h *InventoryHandler) UpdateUnitCost(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req appinventory.UpdateUnitCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	item, err := h.inventoryService.UpdateUnitCost(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
