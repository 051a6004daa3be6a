package handler

import (
	apptrade "github.com/bottling/backend/internal/application/trade"
	"github.com/bottling/backend/internal/interfaces/http/dto"
	"github.com/bottling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SalesOrderHandler handles sales order endpoints
type SalesOrderHandler struct {
	BaseHandler
	orderService *apptrade.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orderService *apptrade.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{orderService: orderService}
}

// SearchQuery is the list query shared by sales orders and returns
type SearchQuery struct {
	Search string `form:"search"`
	dto.PageRequest
}

// Create records a sales order and deducts its finished goods.
// POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req apptrade.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)
	req.RequestKey = middleware.GetIdempotencyKey(c)

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID returns one sales order.
// GET /sales-orders/:id
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List lists sales orders.
// GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	page := q.Normalize()

	orders, total, err := h.orderService.List(c.Request.Context(), q.Search, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, page.Page, page.PageSize)
}

// UpdateStatus moves a sales order to a later status.
// PUT /sales-orders/:id/status
func (h *SalesOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req apptrade.UpdateSalesOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Deliver records the delivery date.
// POST /sales-orders/:id/deliver
func (h *SalesOrderHandler) Deliver(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req apptrade.MarkDeliveredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.MarkDelivered(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes sales orders by id. Stock is not restored.
// DELETE /sales-orders
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	var req apptrade.DeleteSalesOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	result, err := h.orderService.Delete(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
