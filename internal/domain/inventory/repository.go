package inventory

import (
	"context"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockItemRepository defines persistence for finished-goods stock
type StockItemRepository interface {
	// FindByID finds a stock item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByName finds a stock item by product name
	FindByName(ctx context.Context, name string) (*StockItem, error)

	// FindByNameForUpdate finds and row-locks a stock item for the current transaction
	FindByNameForUpdate(ctx context.Context, name string) (*StockItem, error)

	// FindByIDForUpdate finds and row-locks a stock item by ID
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindAll lists stock items
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, int64, error)

	// FindBelowThreshold lists items whose grouped stock is at or under their threshold
	FindBelowThreshold(ctx context.Context) ([]StockItem, error)

	// GetOrCreate returns the locked row for name, creating it at zero when missing
	GetOrCreate(ctx context.Context, name, unit string) (*StockItem, error)

	// SaveWithLock updates a stock item if the stored version is item.Version-1
	SaveWithLock(ctx context.Context, item *StockItem) error
}

// RawMaterialLotRepository defines persistence for raw material lots
type RawMaterialLotRepository interface {
	// FindByID finds a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterialLot, error)

	// FindByIDForUpdate finds and row-locks a lot by ID
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*RawMaterialLot, error)

	// FindForUpdate finds and row-locks the lot of material held from supplierName
	FindForUpdate(ctx context.Context, material, supplierName string) (*RawMaterialLot, error)

	// FindAll lists lots, optionally for one material
	FindAll(ctx context.Context, material string, filter shared.Filter) ([]RawMaterialLot, int64, error)

	// GetOrCreate returns the locked lot for (material, supplier), creating it at zero when missing
	GetOrCreate(ctx context.Context, material string, supplier *Supplier) (*RawMaterialLot, error)

	// SaveWithLock updates a lot if the stored version is lot.Version-1
	SaveWithLock(ctx context.Context, lot *RawMaterialLot) error
}

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByName(ctx context.Context, name string) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, int64, error)
	Create(ctx context.Context, supplier *Supplier) error
}

// SupplierOfferRepository defines persistence for supplier offers
type SupplierOfferRepository interface {
	// FindByMaterial lists every offer for one material
	FindByMaterial(ctx context.Context, material string) ([]SupplierOffer, error)

	// FindByMaterials lists offers for several materials at once
	FindByMaterials(ctx context.Context, materials []string) ([]SupplierOffer, error)

	// FindAll lists every offer
	FindAll(ctx context.Context) ([]SupplierOffer, error)

	// Save creates or replaces the offer for (material, supplier)
	Save(ctx context.Context, offer *SupplierOffer) error
}

// LedgerEventRepository is the append-only transaction log
type LedgerEventRepository interface {
	// Append stores a new event
	Append(ctx context.Context, event *LedgerEvent) error

	// Find lists events newest first
	Find(ctx context.Context, filter LedgerEventFilter) ([]LedgerEvent, int64, error)

	// Count counts events matching filter
	Count(ctx context.Context, filter LedgerEventFilter) (int64, error)
}
