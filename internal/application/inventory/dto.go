package inventory

import (
	"time"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItemResponse represents finished-goods stock in API responses
type StockItemResponse struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Unit              string           `json:"unit"`
	PiecesPerUnit     int              `json:"pieces_per_unit"`
	QuantityGrouped   int64            `json:"quantity_grouped"`
	QuantityPieces    int64            `json:"quantity_pieces"`
	RemainderPieces   int64            `json:"remainder_pieces"`
	LowStockThreshold *int64           `json:"low_stock_threshold,omitempty"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	IsLowStock        bool             `json:"is_low_stock"`
	Version           int              `json:"version"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToStockItemResponse converts a domain stock item
func ToStockItemResponse(item *inventory.StockItem, units *inventory.UnitConversionTable) StockItemResponse {
	ppu := units.PiecesPerUnit(item.Name)
	return StockItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Unit:              item.Unit,
		PiecesPerUnit:     ppu,
		QuantityGrouped:   item.Counts.QuantityGrouped,
		QuantityPieces:    item.Counts.QuantityPieces,
		RemainderPieces:   item.Counts.Remainder(ppu),
		LowStockThreshold: item.LowStockThreshold,
		UnitCost:          item.UnitCost,
		IsLowStock:        item.IsBelowThreshold(),
		Version:           item.Version,
		UpdatedAt:         item.UpdatedAt,
	}
}

// LotResponse represents a raw material lot in API responses
type LotResponse struct {
	ID                  uuid.UUID `json:"id"`
	Material            string    `json:"material"`
	SupplierID          uuid.UUID `json:"supplier_id"`
	SupplierName        string    `json:"supplier_name"`
	PiecesPerUnit       int       `json:"pieces_per_unit"`
	QuantityGrouped     int64     `json:"quantity_grouped"`
	QuantityPieces      int64     `json:"quantity_pieces"`
	ReceivingConversion int       `json:"receiving_conversion"`
	Version             int       `json:"version"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ToLotResponse converts a domain lot
func ToLotResponse(lot *inventory.RawMaterialLot, units *inventory.UnitConversionTable) LotResponse {
	return LotResponse{
		ID:                  lot.ID,
		Material:            lot.Material,
		SupplierID:          lot.SupplierID,
		SupplierName:        lot.SupplierName,
		PiecesPerUnit:       units.PiecesPerUnit(lot.Material),
		QuantityGrouped:     lot.Counts.QuantityGrouped,
		QuantityPieces:      lot.Counts.QuantityPieces,
		ReceivingConversion: lot.ReceivingConversion,
		Version:             lot.Version,
		UpdatedAt:           lot.UpdatedAt,
	}
}

// LedgerEventResponse represents an activity log row
type LedgerEventResponse struct {
	ID            uuid.UUID `json:"id"`
	ProcessedAt   time.Time `json:"processed_at"`
	EmployeeID    string    `json:"employee_id"`
	Module        string    `json:"module"`
	StockType     string    `json:"type"`
	ItemName      string    `json:"item_name"`
	SupplierName  string    `json:"supplier_name,omitempty"`
	Movement      string    `json:"movement"`
	Quantity      int64     `json:"quantity"`
	BalanceAfter  int64     `json:"balance_after"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
}

// ToLedgerEventResponse converts a domain ledger event
func ToLedgerEventResponse(e *inventory.LedgerEvent) LedgerEventResponse {
	return LedgerEventResponse{
		ID:            e.ID,
		ProcessedAt:   e.ProcessedAt,
		EmployeeID:    e.EmployeeID,
		Module:        string(e.Module),
		StockType:     string(e.StockType),
		ItemName:      e.ItemName,
		SupplierName:  e.SupplierName,
		Movement:      string(e.Movement),
		Quantity:      e.Quantity,
		BalanceAfter:  e.BalanceAfter,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
	}
}

// LedgerEventQuery filters the activity log
type LedgerEventQuery struct {
	Module     string     `form:"module"`
	StockType  string     `form:"type" binding:"omitempty,oneof='Finished Goods' 'Raw Materials'"`
	EmployeeID string     `form:"employee_id"`
	Reference  string     `form:"reference"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=1000"`
}

// ToFilter converts the query to a domain filter.
// A date-only To bound covers the whole day.
func (q LedgerEventQuery) ToFilter() inventory.LedgerEventFilter {
	f := inventory.LedgerEventFilter{
		Module:      inventory.Module(q.Module),
		StockType:   inventory.StockType(q.StockType),
		EmployeeID:  q.EmployeeID,
		ReferenceID: q.Reference,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}
	f.Range.From = q.From
	if q.To != nil {
		end := q.To.Add(24*time.Hour - time.Nanosecond)
		f.Range.To = &end
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 50
	}
	return f
}

// StockListQuery filters the finished-goods list
type StockListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// LotListQuery filters the raw material lot list
type LotListQuery struct {
	Material string `form:"material"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// DeductRequest is a manual stock deduction
type DeductRequest struct {
	StockType    string `json:"type" binding:"required,oneof='Finished Goods' 'Raw Materials'"`
	ItemName     string `json:"item_name" binding:"required"`
	SupplierName string `json:"supplier_name"`
	Pieces       int64  `json:"pieces" binding:"required,gt=0"`
	EmployeeID   string `json:"employee_id"`
	RequestKey   string `json:"-"`
}

// ReceiveStockRequest adds finished goods by name
type ReceiveStockRequest struct {
	ItemName   string `json:"item" binding:"required"`
	Cases      int64  `json:"quantity" binding:"min=0"`
	Pieces     int64  `json:"quantity_pcs" binding:"min=0"`
	EmployeeID string `json:"employee_id"`
	RequestKey string `json:"-"`
}

// AddQuantityRequest adds finished goods to an existing row
type AddQuantityRequest struct {
	Cases      int64  `json:"quantity" binding:"min=0"`
	Pieces     int64  `json:"quantity_pcs" binding:"min=0"`
	EmployeeID string `json:"employee_id"`
	RequestKey string `json:"-"`
}

// AdjustStockRequest overwrites a finished-goods count
type AdjustStockRequest struct {
	Pieces     int64  `json:"pieces" binding:"min=0"`
	EmployeeID string `json:"employee_id"`
}

// UpdateThresholdRequest sets or clears the low stock alert level
type UpdateThresholdRequest struct {
	Threshold *int64 `json:"low_stock_threshold" binding:"omitempty,min=0"`
}

// UpdateUnitCostRequest sets the unit cost of one grouped unit
type UpdateUnitCostRequest struct {
	UnitCost decimal.Decimal `json:"unit_cost" binding:"required"`
}

// SupplierResponse represents a supplier
type SupplierResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// OfferResponse represents a supplier offer
type OfferResponse struct {
	ID            uuid.UUID       `json:"id"`
	Material      string          `json:"material"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	Price         decimal.Decimal `json:"price"`
	PricePerPiece decimal.Decimal `json:"price_per_piece"`
}

// ToOfferResponse converts a domain offer
func ToOfferResponse(o inventory.SupplierOffer, units *inventory.UnitConversionTable) OfferResponse {
	return OfferResponse{
		ID:            o.ID,
		Material:      o.Material,
		SupplierID:    o.SupplierID,
		SupplierName:  o.SupplierName,
		Price:         o.Price,
		PricePerPiece: o.PricePerPiece(units.PiecesPerUnit(o.Material)),
	}
}

// CreateSupplierRequest creates a supplier
type CreateSupplierRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// SaveOfferRequest creates or replaces an offer
type SaveOfferRequest struct {
	Material     string          `json:"material" binding:"required"`
	SupplierName string          `json:"supplier_name" binding:"required"`
	Price        decimal.Decimal `json:"price"`
	// ReceivingConversion optionally sets pieces per received unit on the lot
	ReceivingConversion int `json:"receiving_conversion" binding:"omitempty,min=1"`
}
