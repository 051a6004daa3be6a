package production

import (
	"time"

	"github.com/bottling/backend/internal/domain/production"
	"github.com/google/uuid"
)

// ProductionLineRequest is one finished good produced in a batch
type ProductionLineRequest struct {
	Product        string `json:"product" binding:"required"`
	QuantityPieces int64  `json:"quantity_pieces" binding:"required,gt=0"`
	// SupplierOverrides maps a BOM material to the supplier to draw it from
	SupplierOverrides map[string]string `json:"suppliers"`
}

// RecordProductionRequest records a production batch
type RecordProductionRequest struct {
	BatchNumber string                  `json:"batch_number" binding:"omitempty,max=64"`
	EmployeeID  string                  `json:"employee_id"`
	Lines       []ProductionLineRequest `json:"lines" binding:"required,min=1,dive"`
	RequestKey  string                  `json:"-"`
}

// ShortfallResponse reports raw material that was not on hand under the clamp policy
type ShortfallResponse struct {
	Product  string `json:"product"`
	Material string `json:"material"`
	Supplier string `json:"supplier"`
	Pieces   int64  `json:"pieces"`
}

// OutputResponse represents one production output
type OutputResponse struct {
	ID                 uuid.UUID         `json:"id"`
	BatchNumber        string            `json:"batch_number"`
	Product            string            `json:"product_name"`
	QuantityPieces     int64             `json:"quantity_pcs"`
	QuantityGrouped    int64             `json:"quantity_grouped"`
	Unit               string            `json:"unit"`
	SupplierSelections map[string]string `json:"selected_suppliers"`
	SkippedMaterials   []string          `json:"skipped_materials,omitempty"`
	EmployeeID         string            `json:"employee_id"`
	ProductionDate     time.Time         `json:"production_date"`
}

// BatchResponse represents a recorded batch
type BatchResponse struct {
	BatchNumber    string              `json:"batch_number"`
	EmployeeID     string              `json:"employee_id"`
	ProductionDate time.Time           `json:"production_date"`
	Outputs        []OutputResponse    `json:"outputs"`
	Shortfalls     []ShortfallResponse `json:"shortfalls,omitempty"`
}

// ProductionQuery filters the production list
type ProductionQuery struct {
	Product  string     `form:"product"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DeleteRangeRequest removes production records within a date range
type DeleteRangeRequest struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

func toOutputResponse(o *production.ProductionOutput, unit string) OutputResponse {
	selections := o.SupplierSelections
	if selections == nil {
		selections = map[string]string{}
	}
	return OutputResponse{
		ID:                 o.ID,
		BatchNumber:        o.BatchNumber,
		Product:            o.Product,
		QuantityPieces:     o.QuantityPieces,
		QuantityGrouped:    o.QuantityGrouped,
		Unit:               unit,
		SupplierSelections: selections,
		SkippedMaterials:   o.SkippedMaterials,
		EmployeeID:         o.EmployeeID,
		ProductionDate:     o.ProductionDate,
	}
}
