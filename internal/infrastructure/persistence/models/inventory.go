package models

import (
	"time"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItemModel is the persistence model for the finished-goods StockItem aggregate.
type StockItemModel struct {
	AggregateModel
	Name              string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	Unit              string           `gorm:"type:varchar(20);not null;default:'pcs'"`
	QuantityGrouped   int64            `gorm:"not null;default:0"`
	QuantityPieces    int64            `gorm:"not null;default:0"`
	LowStockThreshold *int64           `gorm:"column:low_stock_threshold"`
	UnitCost          *decimal.Decimal `gorm:"type:decimal(12,4)"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem.
func (m *StockItemModel) ToDomain() *inventory.StockItem {
	return &inventory.StockItem{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Unit:              m.Unit,
		Counts: inventory.StockCounts{
			QuantityGrouped: m.QuantityGrouped,
			QuantityPieces:  m.QuantityPieces,
		},
		LowStockThreshold: m.LowStockThreshold,
		UnitCost:          m.UnitCost,
	}
}

// FromDomain populates the persistence model from a domain StockItem.
func (m *StockItemModel) FromDomain(i *inventory.StockItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Name = i.Name
	m.Unit = i.Unit
	m.QuantityGrouped = i.Counts.QuantityGrouped
	m.QuantityPieces = i.Counts.QuantityPieces
	m.LowStockThreshold = i.LowStockThreshold
	m.UnitCost = i.UnitCost
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem.
func StockItemModelFromDomain(i *inventory.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(i)
	return m
}

// RawMaterialLotModel is the persistence model for a raw material held from one supplier.
type RawMaterialLotModel struct {
	AggregateModel
	Material            string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_lot_material_supplier,priority:1"`
	SupplierID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lot_material_supplier,priority:2"`
	SupplierName        string    `gorm:"type:varchar(100);not null;index"`
	QuantityGrouped     int64     `gorm:"not null;default:0"`
	QuantityPieces      int64     `gorm:"not null;default:0"`
	ReceivingConversion int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (RawMaterialLotModel) TableName() string {
	return "raw_material_lots"
}

// ToDomain converts the persistence model to a domain RawMaterialLot.
func (m *RawMaterialLotModel) ToDomain() *inventory.RawMaterialLot {
	return &inventory.RawMaterialLot{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Material:          m.Material,
		SupplierID:        m.SupplierID,
		SupplierName:      m.SupplierName,
		Counts: inventory.StockCounts{
			QuantityGrouped: m.QuantityGrouped,
			QuantityPieces:  m.QuantityPieces,
		},
		ReceivingConversion: m.ReceivingConversion,
	}
}

// FromDomain populates the persistence model from a domain RawMaterialLot.
func (m *RawMaterialLotModel) FromDomain(l *inventory.RawMaterialLot) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.Material = l.Material
	m.SupplierID = l.SupplierID
	m.SupplierName = l.SupplierName
	m.QuantityGrouped = l.Counts.QuantityGrouped
	m.QuantityPieces = l.Counts.QuantityPieces
	m.ReceivingConversion = l.ReceivingConversion
}

// RawMaterialLotModelFromDomain creates a new persistence model from a domain RawMaterialLot.
func RawMaterialLotModelFromDomain(l *inventory.RawMaterialLot) *RawMaterialLotModel {
	m := &RawMaterialLotModel{}
	m.FromDomain(l)
	return m
}

// SupplierModel is the persistence model for a supplier.
type SupplierModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier.
func (m *SupplierModel) ToDomain() *inventory.Supplier {
	return &inventory.Supplier{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier.
func SupplierModelFromDomain(s *inventory.Supplier) *SupplierModel {
	m := &SupplierModel{Name: s.Name}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// SupplierOfferModel is the persistence model for a supplier's price on a material.
type SupplierOfferModel struct {
	BaseModel
	Material     string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_offer_material_supplier,priority:1"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_offer_material_supplier,priority:2"`
	SupplierName string          `gorm:"type:varchar(100);not null"`
	Price        decimal.Decimal `gorm:"type:decimal(12,4);not null"`
}

// TableName returns the table name for GORM
func (SupplierOfferModel) TableName() string {
	return "supplier_offers"
}

// ToDomain converts the persistence model to a domain SupplierOffer.
func (m *SupplierOfferModel) ToDomain() inventory.SupplierOffer {
	return inventory.SupplierOffer{
		BaseEntity:   m.BaseModel.ToDomain(),
		Material:     m.Material,
		SupplierID:   m.SupplierID,
		SupplierName: m.SupplierName,
		Price:        m.Price,
	}
}

// SupplierOfferModelFromDomain creates a new persistence model from a domain SupplierOffer.
func SupplierOfferModelFromDomain(o *inventory.SupplierOffer) *SupplierOfferModel {
	m := &SupplierOfferModel{
		Material:     o.Material,
		SupplierID:   o.SupplierID,
		SupplierName: o.SupplierName,
		Price:        o.Price,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}

// LedgerEventModel is one append-only row of the stock ledger.
type LedgerEventModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	ProcessedAt   time.Time `gorm:"not null;index"`
	EmployeeID    string    `gorm:"type:varchar(64);not null;index"`
	Module        string    `gorm:"type:varchar(50);not null;index"`
	StockType     string    `gorm:"type:varchar(30);not null;index"`
	ItemName      string    `gorm:"type:varchar(100);not null"`
	SupplierName  string    `gorm:"type:varchar(100)"`
	Movement      string    `gorm:"type:varchar(10);not null"`
	Quantity      int64     `gorm:"not null"`
	BalanceAfter  int64     `gorm:"not null"`
	ReferenceType string    `gorm:"type:varchar(30);index:idx_ledger_reference,priority:1"`
	ReferenceID   string    `gorm:"type:varchar(64);index:idx_ledger_reference,priority:2"`
}

// TableName returns the table name for GORM
func (LedgerEventModel) TableName() string {
	return "ledger_events"
}

// ToDomain converts the persistence model to a domain LedgerEvent.
func (m *LedgerEventModel) ToDomain() inventory.LedgerEvent {
	return inventory.LedgerEvent{
		ID:            m.ID,
		ProcessedAt:   m.ProcessedAt,
		EmployeeID:    m.EmployeeID,
		Module:        inventory.Module(m.Module),
		StockType:     inventory.StockType(m.StockType),
		ItemName:      m.ItemName,
		SupplierName:  m.SupplierName,
		Movement:      inventory.Movement(m.Movement),
		Quantity:      m.Quantity,
		BalanceAfter:  m.BalanceAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
	}
}

// LedgerEventModelFromDomain creates a new persistence model from a domain LedgerEvent.
func LedgerEventModelFromDomain(e *inventory.LedgerEvent) *LedgerEventModel {
	return &LedgerEventModel{
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
