package handler

import (
	apptrade "github.com/bottling/backend/internal/application/trade"
	"github.com/bottling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ReturnHandler handles return-to-vendor endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *apptrade.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *apptrade.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Create records a return and deducts the returned finished goods.
// POST /returns
func (h *ReturnHandler) Create(c *gin.Context) {
	var req apptrade.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)
	req.RequestKey = middleware.GetIdempotencyKey(c)

	ret, err := h.returnService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// GetByID returns one return.
// GET /returns/:id
func (h *ReturnHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ret, err := h.returnService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}

// List lists returns.
// GET /returns
func (h *ReturnHandler) List(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	page := q.Normalize()

	returns, total, err := h.returnService.List(c.Request.Context(), q.Search, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, returns, total, page.Page, page.PageSize)
}

// Approve moves a Pending return to Approved.
// POST /returns/:id/approve
func (h *ReturnHandler) Approve(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	ret, err := h.returnService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ret)
}
