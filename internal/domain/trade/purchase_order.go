package trade

import (
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the receiving progress of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending           PurchaseOrderStatus = "Pending"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "Partially Received"
	PurchaseOrderStatusCompleted         PurchaseOrderStatus = "Completed"
)

// IsValid checks if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// AllPurchaseOrderStatuses lists statuses in lifecycle order
func AllPurchaseOrderStatuses() []PurchaseOrderStatus {
	return []PurchaseOrderStatus{
		PurchaseOrderStatusPending,
		PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusCompleted,
	}
}

// DeriveStatus computes order status from line totals alone.
// Nothing received is Pending, every line fully received is Completed,
// anything in between is Partially Received.
func DeriveStatus(lines []PurchaseOrderLine) PurchaseOrderStatus {
	if len(lines) == 0 {
		return PurchaseOrderStatusPending
	}
	anyReceived := false
	allReceived := true
	for _, l := range lines {
		if l.ReceivedQuantity > 0 {
			anyReceived = true
		}
		if !l.IsFullyReceived() {
			allReceived = false
		}
	}
	switch {
	case allReceived:
		return PurchaseOrderStatusCompleted
	case anyReceived:
		return PurchaseOrderStatusPartiallyReceived
	default:
		return PurchaseOrderStatusPending
	}
}

// PurchaseOrderLine is one ordered item
type PurchaseOrderLine struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	ItemName         string
	OrderedQuantity  int64
	ReceivedQuantity int64
	UnitPrice        decimal.Decimal
}

// Outstanding returns the quantity still to be received
func (l PurchaseOrderLine) Outstanding() int64 {
	if r := l.OrderedQuantity - l.ReceivedQuantity; r > 0 {
		return r
	}
	return 0
}

// IsFullyReceived returns true once received reaches ordered
func (l PurchaseOrderLine) IsFullyReceived() bool {
	return l.ReceivedQuantity >= l.OrderedQuantity
}

// Amount returns ordered quantity times unit price
func (l PurchaseOrderLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.OrderedQuantity))
}

// PurchaseOrder is the aggregate root for purchasing and receiving
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber     string
	SupplierName string
	OrderDate    time.Time
	ExpectedDate *time.Time
	Amount       decimal.Decimal
	Status       PurchaseOrderStatus
	EmployeeID   string
	Lines        []PurchaseOrderLine
}

// NewPurchaseOrder creates a pending purchase order without lines
func NewPurchaseOrder(poNumber, supplierName, employeeID string, orderDate time.Time) (*PurchaseOrder, error) {
	poNumber = strings.TrimSpace(poNumber)
	supplierName = strings.TrimSpace(supplierName)
	if poNumber == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "PO number cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier name cannot be empty")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}
	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		SupplierName:      supplierName,
		OrderDate:         orderDate,
		Amount:            decimal.Zero,
		Status:            PurchaseOrderStatusPending,
		EmployeeID:        employeeID,
		Lines:             make([]PurchaseOrderLine, 0),
	}, nil
}

// AddLine appends an ordered item and recalculates the amount
func (o *PurchaseOrder) AddLine(itemName string, quantity int64, unitPrice decimal.Decimal) (*PurchaseOrderLine, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Item name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Ordered quantity for %s must be positive", itemName)
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Unit price for %s cannot be negative", itemName)
	}
	o.Lines = append(o.Lines, PurchaseOrderLine{
		ID:              uuid.New(),
		OrderID:         o.ID,
		ItemName:        itemName,
		OrderedQuantity: quantity,
		UnitPrice:       unitPrice,
	})
	o.recalculateAmount()
	o.Status = DeriveStatus(o.Lines)
	return &o.Lines[len(o.Lines)-1], nil
}

// Receive records quantity against a line and recomputes the status.
// It fails with OVER_RECEIPT when quantity exceeds the outstanding amount,
// leaving the line unchanged.
func (o *PurchaseOrder) Receive(lineID uuid.UUID, quantity int64) (*PurchaseOrderLine, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Received quantity must be positive")
	}
	line := o.GetLine(lineID)
	if line == nil {
		return nil, shared.NewDomainErrorf(shared.CodeNotFound, "Line %s not found in order %s", lineID, o.PONumber)
	}
	if quantity > line.Outstanding() {
		return nil, shared.NewDomainErrorf(shared.CodeOverReceipt,
			"Cannot receive %d of %s: only %d outstanding", quantity, line.ItemName, line.Outstanding())
	}
	line.ReceivedQuantity += quantity
	o.Status = DeriveStatus(o.Lines)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return line, nil
}

// GetLine returns the line with id, or nil
func (o *PurchaseOrder) GetLine(id uuid.UUID) *PurchaseOrderLine {
	for i := range o.Lines {
		if o.Lines[i].ID == id {
			return &o.Lines[i]
		}
	}
	return nil
}

// TotalOrderedQuantity sums ordered quantities
func (o *PurchaseOrder) TotalOrderedQuantity() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.OrderedQuantity
	}
	return total
}

// TotalReceivedQuantity sums received quantities
func (o *PurchaseOrder) TotalReceivedQuantity() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.ReceivedQuantity
	}
	return total
}

// IsEditable reports whether nothing has been received yet.
// Only such orders may be revised or deleted.
func (o *PurchaseOrder) IsEditable() bool {
	return o.TotalReceivedQuantity() == 0
}

// Revise replaces the header and lines of an order that has received nothing.
// Lines are rebuilt, so their IDs change.
func (o *PurchaseOrder) Revise(supplierName string, orderDate time.Time, expected *time.Time, lines []PurchaseOrderLine) error {
	if !o.IsEditable() {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"Purchase order %s has received items and can no longer be changed", o.PONumber)
	}
	supplierName = strings.TrimSpace(supplierName)
	if supplierName == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier name cannot be empty")
	}
	if len(lines) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "At least one item is required")
	}

	revised := *o
	revised.Lines = make([]PurchaseOrderLine, 0, len(lines))
	for _, l := range lines {
		if _, err := revised.AddLine(l.ItemName, l.OrderedQuantity, l.UnitPrice); err != nil {
			return err
		}
	}
	revised.SupplierName = supplierName
	if !orderDate.IsZero() {
		revised.OrderDate = orderDate
	}
	revised.ExpectedDate = expected
	revised.UpdatedAt = time.Now()
	revised.IncrementVersion()
	*o = revised
	return nil
}

// CheckDeletable fails with INVALID_STATE once anything has been received
func (o *PurchaseOrder) CheckDeletable() error {
	if !o.IsEditable() {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"Purchase order %s has received items and cannot be deleted", o.PONumber)
	}
	return nil
}

// SetExpectedDate sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDate(d *time.Time) {
	o.ExpectedDate = d
}

func (o *PurchaseOrder) recalculateAmount() {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Amount())
	}
	o.Amount = total
}
