package models

import (
	"time"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	AggregateModel
	PONumber     string                   `gorm:"column:po_number;type:varchar(50);not null;uniqueIndex"`
	SupplierName string                   `gorm:"type:varchar(100);not null;index"`
	OrderDate    time.Time                `gorm:"not null"`
	ExpectedDate *time.Time               `gorm:"type:date"`
	Amount       decimal.Decimal          `gorm:"type:decimal(14,2);not null;default:0"`
	Status       string                   `gorm:"type:varchar(30);not null;default:'Pending';index"`
	EmployeeID   string                   `gorm:"type:varchar(64)"`
	Items        []PurchaseOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	order := &trade.PurchaseOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PONumber:          m.PONumber,
		SupplierName:      m.SupplierName,
		OrderDate:         m.OrderDate,
		ExpectedDate:      m.ExpectedDate,
		Amount:            m.Amount,
		Status:            trade.PurchaseOrderStatus(m.Status),
		EmployeeID:        m.EmployeeID,
		Lines:             make([]trade.PurchaseOrderLine, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Lines[i] = item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder.
func (m *PurchaseOrderModel) FromDomain(o *trade.PurchaseOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.PONumber = o.PONumber
	m.SupplierName = o.SupplierName
	m.OrderDate = o.OrderDate
	m.ExpectedDate = o.ExpectedDate
	m.Amount = o.Amount
	m.Status = string(o.Status)
	m.EmployeeID = o.EmployeeID
	m.Items = make([]PurchaseOrderItemModel, len(o.Lines))
	for i := range o.Lines {
		m.Items[i] = PurchaseOrderItemModelFromDomain(&o.Lines[i])
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderItemModel is one ordered line of a purchase order.
type PurchaseOrderItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemName         string          `gorm:"type:varchar(100);not null"`
	Quantity         int64           `gorm:"not null"`
	ReceivedQuantity int64           `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderLine.
func (m *PurchaseOrderItemModel) ToDomain() trade.PurchaseOrderLine {
	return trade.PurchaseOrderLine{
		ID:               m.ID,
		OrderID:          m.OrderID,
		ItemName:         m.ItemName,
		OrderedQuantity:  m.Quantity,
		ReceivedQuantity: m.ReceivedQuantity,
		UnitPrice:        m.UnitPrice,
	}
}

// PurchaseOrderItemModelFromDomain creates a persistence model from a domain PurchaseOrderLine.
func PurchaseOrderItemModelFromDomain(l *trade.PurchaseOrderLine) PurchaseOrderItemModel {
	return PurchaseOrderItemModel{
		ID:               l.ID,
		OrderID:          l.OrderID,
		ItemName:         l.ItemName,
		Quantity:         l.OrderedQuantity,
		ReceivedQuantity: l.ReceivedQuantity,
		UnitPrice:        l.UnitPrice,
	}
}

// PurchaseReceiptModel is one append-only receiving record.
type PurchaseReceiptModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key"`
	PurchaseOrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PurchaseOrderItemID uuid.UUID `gorm:"type:uuid;not null"`
	PONumber            string    `gorm:"column:po_number;type:varchar(50);not null"`
	SupplierName        string    `gorm:"type:varchar(100);not null"`
	ItemName            string    `gorm:"type:varchar(100);not null"`
	QuantityReceived    int64     `gorm:"not null"`
	PiecesReceived      int64     `gorm:"not null"`
	StockType           string    `gorm:"type:varchar(30);not null"`
	ReceivedDate        time.Time `gorm:"not null;index"`
	EmployeeID          string    `gorm:"type:varchar(64);not null"`
}

// TableName returns the table name for GORM
func (PurchaseReceiptModel) TableName() string {
	return "purchase_receipts"
}

// ToDomain converts the persistence model to a domain PurchaseReceipt.
func (m *PurchaseReceiptModel) ToDomain() trade.PurchaseReceipt {
	return trade.PurchaseReceipt{
		ID:               m.ID,
		OrderID:          m.PurchaseOrderID,
		LineID:           m.PurchaseOrderItemID,
		PONumber:         m.PONumber,
		SupplierName:     m.SupplierName,
		ItemName:         m.ItemName,
		QuantityReceived: m.QuantityReceived,
		PiecesReceived:   m.PiecesReceived,
		StockType:        inventory.StockType(m.StockType),
		ReceivedAt:       m.ReceivedDate,
		EmployeeID:       m.EmployeeID,
	}
}

// PurchaseReceiptModelFromDomain creates a persistence model from a domain PurchaseReceipt.
func PurchaseReceiptModelFromDomain(r *trade.PurchaseReceipt) *PurchaseReceiptModel {
	return &PurchaseReceiptModel{
		ID:                  r.ID,
		PurchaseOrderID:     r.OrderID,
		PurchaseOrderItemID: r.LineID,
		PONumber:            r.PONumber,
		SupplierName:        r.SupplierName,
		ItemName:            r.ItemName,
		QuantityReceived:    r.QuantityReceived,
		PiecesReceived:      r.PiecesReceived,
		StockType:           string(r.StockType),
		ReceivedDate:        r.ReceivedAt,
		EmployeeID:          r.EmployeeID,
	}
}

// OrderLineModel holds the columns shared by sales order and return lines.
type OrderLineModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	DocumentID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Product         string    `gorm:"type:varchar(100);not null"`
	QuantityGrouped int64     `gorm:"column:quantity;not null"`
	QuantityPieces  int64     `gorm:"column:quantity_pcs;not null"`
}

// ToDomain converts the persistence model to a domain OrderLine.
func (m *OrderLineModel) ToDomain() trade.OrderLine {
	return trade.OrderLine{
		ID:              m.ID,
		DocumentID:      m.DocumentID,
		Product:         m.Product,
		QuantityGrouped: m.QuantityGrouped,
		QuantityPieces:  m.QuantityPieces,
	}
}

func orderLineModelFromDomain(l *trade.OrderLine) OrderLineModel {
	return OrderLineModel{
		ID:              l.ID,
		DocumentID:      l.DocumentID,
		Product:         l.Product,
		QuantityGrouped: l.QuantityGrouped,
		QuantityPieces:  l.QuantityPieces,
	}
}

// SalesOrderItemModel is one line of a sales order.
type SalesOrderItemModel struct {
	OrderLineModel
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// SalesOrderModel is the persistence model for the SalesOrder aggregate root.
type SalesOrderModel struct {
	AggregateModel
	OrderNumber  string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerName string                `gorm:"type:varchar(200)"`
	Location     string                `gorm:"type:varchar(200)"`
	OrderDate    time.Time             `gorm:"not null;index"`
	DeliveryDate *time.Time            `gorm:"type:date"`
	Amount       decimal.Decimal       `gorm:"type:decimal(14,2);not null;default:0"`
	Status       string                `gorm:"type:varchar(20);not null;default:'Pending'"`
	EmployeeID   string                `gorm:"type:varchar(64)"`
	Items        []SalesOrderItemModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	order := &trade.SalesOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CustomerRef:       m.CustomerName,
		Location:          m.Location,
		OrderDate:         m.OrderDate,
		DeliveryDate:      m.DeliveryDate,
		Amount:            m.Amount,
		Status:            trade.SalesOrderStatus(m.Status),
		EmployeeID:        m.EmployeeID,
		Lines:             make([]trade.OrderLine, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Lines[i] = item.ToDomain()
	}
	return order
}

// SalesOrderModelFromDomain creates a new persistence model from a domain SalesOrder.
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerRef,
		Location:     o.Location,
		OrderDate:    o.OrderDate,
		DeliveryDate: o.DeliveryDate,
		Amount:       o.Amount,
		Status:       string(o.Status),
		EmployeeID:   o.EmployeeID,
		Items:        make([]SalesOrderItemModel, len(o.Lines)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i := range o.Lines {
		m.Items[i] = SalesOrderItemModel{OrderLineModel: orderLineModelFromDomain(&o.Lines[i])}
	}
	return m
}

// ReturnItemModel is one line of a return to vendor.
type ReturnItemModel struct {
	OrderLineModel
}

// TableName returns the table name for GORM
func (ReturnItemModel) TableName() string {
	return "return_to_vendor_items"
}

// ReturnToVendorModel is the persistence model for the ReturnToVendor aggregate root.
type ReturnToVendorModel struct {
	AggregateModel
	RTVNumber    string            `gorm:"column:rtv_number;type:varchar(50);not null;uniqueIndex"`
	CustomerName string            `gorm:"type:varchar(200)"`
	Location     string            `gorm:"type:varchar(200)"`
	DateOrdered  time.Time         `gorm:"not null;index"`
	DateReturned *time.Time        `gorm:"type:date"`
	Status       string            `gorm:"type:varchar(20);not null;default:'Pending'"`
	EmployeeID   string            `gorm:"type:varchar(64)"`
	Items        []ReturnItemModel `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (ReturnToVendorModel) TableName() string {
	return "return_to_vendors"
}

// ToDomain converts the persistence model to a domain ReturnToVendor.
func (m *ReturnToVendorModel) ToDomain() *trade.ReturnToVendor {
	rtv := &trade.ReturnToVendor{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		RTVNumber:         m.RTVNumber,
		CustomerRef:       m.CustomerName,
		Location:          m.Location,
		DateOrdered:       m.DateOrdered,
		DateReturned:      m.DateReturned,
		Status:            trade.ReturnStatus(m.Status),
		EmployeeID:        m.EmployeeID,
		Lines:             make([]trade.OrderLine, len(m.Items)),
	}
	for i, item := range m.Items {
		rtv.Lines[i] = item.ToDomain()
	}
	return rtv
}

// ReturnToVendorModelFromDomain creates a new persistence model from a domain ReturnToVendor.
func ReturnToVendorModelFromDomain(r *trade.ReturnToVendor) *ReturnToVendorModel {
	m := &ReturnToVendorModel{
		RTVNumber:    r.RTVNumber,
		CustomerName: r.CustomerRef,
		Location:     r.Location,
		DateOrdered:  r.DateOrdered,
		DateReturned: r.DateReturned,
		Status:       string(r.Status),
		EmployeeID:   r.EmployeeID,
		Items:        make([]ReturnItemModel, len(r.Lines)),
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	for i := range r.Lines {
		m.Items[i] = ReturnItemModel{OrderLineModel: orderLineModelFromDomain(&r.Lines[i])}
	}
	return m
}
