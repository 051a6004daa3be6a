package handler

import (
	"bytes"
	"net/http"
	"time"

	appinventory "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
)

// MaxExportRows caps a single activity log export
const MaxExportRows = 50000

// LedgerHandler serves the activity log
type LedgerHandler struct {
	BaseHandler
	inventoryService *appinventory.InventoryService
	now              func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(inventoryService *appinventory.InventoryService) *LedgerHandler {
	return &LedgerHandler{inventoryService: inventoryService, now: time.Now}
}

// List lists ledger events newest first.
// GET /ledger-events
func (h *LedgerHandler) List(c *gin.Context) {
	var q appinventory.LedgerEventQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	f := q.ToFilter()

	events, total, err := h.inventoryService.ListLedgerEvents(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, events, total, f.Page, f.PageSize)
}

// Export downloads the filtered activity log as an XLSX workbook.
// GET /ledger-events/export
func (h *LedgerHandler) Export(c *gin.Context) {
	var q appinventory.LedgerEventQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	events, err := h.inventoryService.ExportLedgerEvents(c.Request.Context(), q, MaxExportRows)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLedgerEvents(&buf, events); err != nil {
		h.HandleError(c, err)
		return
	}

	filename := export.LedgerFilename(h.now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
