package handler

import (
	appinventory "github.com/bottling/backend/internal/application/inventory"
	appproduction "github.com/bottling/backend/internal/application/production"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProductionHandler handles production batch endpoints
type ProductionHandler struct {
	BaseHandler
	service *appproduction.ProductionService
	units   *inventory.UnitConversionTable
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(service *appproduction.ProductionService, units *inventory.UnitConversionTable) *ProductionHandler {
	return &ProductionHandler{service: service, units: units}
}

// MaterialOptionResponse lists the ranked suppliers of one BOM material
type MaterialOptionResponse struct {
	Material      string                       `json:"material"`
	Suppliers     []appinventory.OfferResponse `json:"suppliers"`
	MultiSupplier bool                         `json:"multi_supplier"`
}

// Record records a production batch.
// POST /production/batches
func (h *ProductionHandler) Record(c *gin.Context) {
	var req appproduction.RecordProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.EmployeeID = middleware.ResolveEmployeeID(c, req.EmployeeID)
	req.RequestKey = middleware.GetIdempotencyKey(c)

	batch, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// List lists production outputs.
// GET /production/batches
func (h *ProductionHandler) List(c *gin.Context) {
	var q appproduction.ProductionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	page := pageOf(q.Page, q.PageSize)
	q.Page, q.PageSize = page.Page, page.PageSize

	outputs, total, err := h.service.ListBatches(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, outputs, total, q.Page, q.PageSize)
}

// Costing prices the materials consumed by a batch.
// GET /production/batches/:batch/costing
func (h *ProductionHandler) Costing(c *gin.Context) {
	costing, err := h.service.BatchCosting(c.Request.Context(), c.Param("batch"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, costing)
}

// MaterialOptions lists supplier choices for each material of a product.
// GET /production/products/:product/materials
func (h *ProductionHandler) MaterialOptions(c *gin.Context) {
	options, err := h.service.MaterialOptions(c.Request.Context(), c.Param("product"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]MaterialOptionResponse, 0, len(options))
	for _, opt := range options {
		suppliers := make([]appinventory.OfferResponse, 0, len(opt.Suppliers))
		for _, o := range opt.Suppliers {
			suppliers = append(suppliers, appinventory.ToOfferResponse(o, h.units))
		}
		resp = append(resp, MaterialOptionResponse{
			Material:      opt.Material,
			Suppliers:     suppliers,
			MultiSupplier: opt.MultiSupplier,
		})
	}
	h.Success(c, resp)
}

// DeleteRange removes production records dated within ?from=&to=.
// DELETE /production/batches
func (h *ProductionHandler) DeleteRange(c *gin.Context) {
	var req appproduction.DeleteRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	deleted, err := h.service.DeleteBatchesBetween(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": deleted})
}
