package handler

import (
	apptrade "github.com/bottling/backend/internal/application/trade"
	"github.com/bottling/backend/internal/interfaces/http/dto"
	"github.com/bottling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseOrderHandler handles purchase order and receiving endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *apptrade.PurchaseOrderService
}

// ReceiptListRequest filters the receiving history
type ReceiptListRequest struct {
	PurchaseOrderID string `form:"purchase_order_id"`
	dto.PageRequest
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *apptrade.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// Create creates a purchase order in Pending status.
// POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req apptrade.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID returns one purchase order with its lines.
// GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
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

// List lists purchase orders filtered by status, supplier and search text.
// GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var q apptrade.PurchaseOrderListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	page := pageOf(q.Page, q.PageSize)
	q.Page, q.PageSize = page.Page, page.PageSize

	orders, total, err := h.orderService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, q.Page, q.PageSize)
}

// Update replaces the supplier, dates and lines of an order with nothing received.
// PUT /purchase-orders/:id
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req apptrade.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete removes an order with nothing received.
// DELETE /purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": 1})
}

// Stats counts purchase orders per status.
// GET /purchase-orders/stats
func (h *PurchaseOrderHandler) Stats(c *gin.Context) {
	counts, err := h.orderService.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Receive books received quantity against one order line.
// POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req apptrade.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)
	req.RequestKey = middleware.GetIdempotencyKey(c)

	result, err := h.orderService.Receive(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListReceipts lists the receiving history, optionally for one order.
// GET /purchase-orders/receipts
func (h *PurchaseOrderHandler) ListReceipts(c *gin.Context) {
	var req ReceiptListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	page := req.Normalize()
	q := apptrade.ReceiptListQuery{Page: page.Page, PageSize: page.PageSize}
	if req.PurchaseOrderID != "" {
		id, err := uuid.Parse(req.PurchaseOrderID)
		if err != nil {
			h.BadRequest(c, "Invalid purchase_order_id format")
			return
		}
		q.OrderID = &id
	}

	receipts, total, err := h.orderService.ListReceipts(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, receipts, total, page.Page, page.PageSize)
}
