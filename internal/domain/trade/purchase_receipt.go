package trade

import (
	"time"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// PurchaseReceipt is an immutable record of one receiving event against one line
type PurchaseReceipt struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	LineID           uuid.UUID
	PONumber         string
	SupplierName     string
	ItemName         string
	QuantityReceived int64
	PiecesReceived   int64
	StockType        inventory.StockType
	ReceivedAt       time.Time
	EmployeeID       string
}

// NewPurchaseReceipt records quantity received for line
func NewPurchaseReceipt(order *PurchaseOrder, line *PurchaseOrderLine, quantity, pieces int64, stockType inventory.StockType, employeeID string, receivedAt time.Time) *PurchaseReceipt {
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	return &PurchaseReceipt{
		ID:               uuid.New(),
		OrderID:          order.ID,
		LineID:           line.ID,
		PONumber:         order.PONumber,
		SupplierName:     order.SupplierName,
		ItemName:         line.ItemName,
		QuantityReceived: quantity,
		PiecesReceived:   pieces,
		StockType:        stockType,
		ReceivedAt:       receivedAt,
		EmployeeID:       employeeID,
	}
}
