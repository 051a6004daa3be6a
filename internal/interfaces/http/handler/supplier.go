package handler

import (
	appinventory "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SupplierHandler handles supplier and supplier offer endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *appinventory.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *appinventory.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create registers a supplier.
// POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req appinventory.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// List lists suppliers by name.
// GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	var q dto.PageRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	q = q.Normalize()

	suppliers, total, err := h.supplierService.ListSuppliers(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, suppliers, total, q.Page, q.PageSize)
}

// SaveOffer creates or replaces the price a supplier asks for a material.
// POST /suppliers/offers
func (h *SupplierHandler) SaveOffer(c *gin.Context) {
	var req appinventory.SaveOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	offer, err := h.supplierService.SaveOffer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offer)
}

// ListOffers lists offers, ranked, optionally for one ?material=.
// GET /suppliers/offers
func (h *SupplierHandler) ListOffers(c *gin.Context) {
	offers, err := h.supplierService.ListOffers(c.Request.Context(), c.Query("material"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offers)
}
