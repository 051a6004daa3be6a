package inventory

import (
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Module names the business event that caused a stock mutation
type Module string

const (
	ModuleProductionOutput    Module = "Production Output"
	ModulePurchaseOrder       Module = "Purchase Order"
	ModuleSalesOrder          Module = "Sales Order"
	ModuleReturnToVendor      Module = "Return To Vendor"
	ModuleInventoryAdjustment Module = "Inventory Adjustment"
)

// StockType distinguishes the two stock pools
type StockType string

const (
	StockTypeFinishedGoods StockType = "Finished Goods"
	StockTypeRawMaterials  StockType = "Raw Materials"
)

// IsValid checks if the stock type is known
func (t StockType) IsValid() bool {
	return t == StockTypeFinishedGoods || t == StockTypeRawMaterials
}

// Movement is the direction of a mutation
type Movement string

const (
	MovementIncrease Movement = "increase"
	MovementDecrease Movement = "decrease"
)

// Reference types linking a ledger event to its source document
const (
	ReferenceProductionBatch = "production_batch"
	ReferencePurchaseOrder   = "purchase_order"
	ReferenceSalesOrder      = "sales_order"
	ReferenceReturnToVendor  = "return_to_vendor"
	ReferenceAdjustment      = "adjustment"
)

// NewAdjustmentReference builds an ADJ-YYYYmmddHHMMSS-xxxx reference for manual adjustments
func NewAdjustmentReference(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return "ADJ-" + at.Format("20060102150405") + "-" + suffix
}

// UnknownEmployee is recorded when no actor identity was supplied
const UnknownEmployee = "UNKNOWN"

// LedgerEvent is one append-only transaction log row.
// Quantity is always unsigned pieces; Movement carries the sign.
type LedgerEvent struct {
	ID            uuid.UUID
	ProcessedAt   time.Time
	EmployeeID    string
	Module        Module
	StockType     StockType
	ItemName      string
	SupplierName  string
	Movement      Movement
	Quantity      int64
	BalanceAfter  int64
	ReferenceType string
	ReferenceID   string
}

// LedgerEventParams carries what a ledger mutation knows about itself
type LedgerEventParams struct {
	EmployeeID    string
	Module        Module
	StockType     StockType
	ItemName      string
	SupplierName  string
	Movement      Movement
	Quantity      int64
	BalanceAfter  int64
	ReferenceType string
	ReferenceID   string
	ProcessedAt   time.Time
}

// NewLedgerEvent validates params and builds an event
func NewLedgerEvent(p LedgerEventParams) (*LedgerEvent, error) {
	if strings.TrimSpace(p.ItemName) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Ledger event item cannot be empty")
	}
	if !p.StockType.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Unknown stock type %q", p.StockType)
	}
	if p.Movement != MovementIncrease && p.Movement != MovementDecrease {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Unknown movement %q", p.Movement)
	}
	if p.Quantity < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Ledger event quantity cannot be negative")
	}
	employee := strings.TrimSpace(p.EmployeeID)
	if employee == "" {
		employee = UnknownEmployee
	}
	processedAt := p.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}
	supplier := ""
	if p.StockType == StockTypeRawMaterials {
		supplier = p.SupplierName
	}
	return &LedgerEvent{
		ID:            uuid.New(),
		ProcessedAt:   processedAt,
		EmployeeID:    employee,
		Module:        p.Module,
		StockType:     p.StockType,
		ItemName:      p.ItemName,
		SupplierName:  supplier,
		Movement:      p.Movement,
		Quantity:      p.Quantity,
		BalanceAfter:  p.BalanceAfter,
		ReferenceType: p.ReferenceType,
		ReferenceID:   p.ReferenceID,
	}, nil
}

// SignedQuantity returns the quantity with the movement's sign
func (e LedgerEvent) SignedQuantity() int64 {
	if e.Movement == MovementDecrease {
		return -e.Quantity
	}
	return e.Quantity
}

// LedgerEventFilter selects activity log rows. Zero values match everything.
type LedgerEventFilter struct {
	Module        Module
	StockType     StockType
	EmployeeID    string
	ReferenceType string
	ReferenceID   string
	Range         shared.TimeRange
	Page          int
	PageSize      int
}
