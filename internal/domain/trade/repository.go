package trade

import (
	"context"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderFilter selects purchase orders
type PurchaseOrderFilter struct {
	shared.Filter
	Status       PurchaseOrderStatus
	SupplierName string
}

// PurchaseOrderRepository defines persistence for purchase orders
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate finds and row-locks a purchase order with its lines
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindAll lists purchase orders with their lines
	FindAll(ctx context.Context, filter PurchaseOrderFilter) ([]PurchaseOrder, int64, error)

	// ExistsByPONumber checks PO number uniqueness
	ExistsByPONumber(ctx context.Context, poNumber string) (bool, error)

	// Create inserts an order and its lines
	Create(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock updates header and lines if the stored version is order.Version-1
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Replace rewrites the header and swaps every line, under the same version check
	Replace(ctx context.Context, order *PurchaseOrder) error

	// Delete removes an order and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus counts orders per status
	CountByStatus(ctx context.Context) (map[PurchaseOrderStatus]int64, error)
}

// PurchaseReceiptRepository is the append-only receipts history
type PurchaseReceiptRepository interface {
	Append(ctx context.Context, receipt *PurchaseReceipt) error

	// FindAll lists receipts newest first, optionally for one order
	FindAll(ctx context.Context, orderID *uuid.UUID, filter shared.Filter) ([]PurchaseReceipt, int64, error)
}

// SalesOrderRepository defines persistence for sales orders
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, int64, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	Create(ctx context.Context, order *SalesOrder) error

	// SaveWithLock updates status and delivery date if the stored version is order.Version-1
	SaveWithLock(ctx context.Context, order *SalesOrder) error

	// DeleteByIDs removes orders and their lines. Every ID must exist.
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// ReturnToVendorRepository defines persistence for returns
type ReturnToVendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnToVendor, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ReturnToVendor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ReturnToVendor, int64, error)
	ExistsByRTVNumber(ctx context.Context, rtvNumber string) (bool, error)
	Create(ctx context.Context, rtv *ReturnToVendor) error
	SaveWithLock(ctx context.Context, rtv *ReturnToVendor) error
}
