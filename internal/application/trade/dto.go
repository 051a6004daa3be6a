package trade

import (
	"time"

	"github.com/bottling/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderLineInput is one ordered item
type CreatePurchaseOrderLineInput struct {
	ItemName  string          `json:"item_name" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest creates a purchase order
type CreatePurchaseOrderRequest struct {
	PONumber     string                         `json:"po_number" binding:"required,max=50"`
	SupplierName string                         `json:"supplier_name" binding:"required"`
	OrderDate    *time.Time                     `json:"order_date"`
	ExpectedDate *time.Time                     `json:"expected_date"`
	EmployeeID   string                         `json:"employee_id"`
	Lines        []CreatePurchaseOrderLineInput `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest replaces the editable parts of an unreceived order
type UpdatePurchaseOrderRequest struct {
	SupplierName string                         `json:"supplier_name" binding:"required"`
	OrderDate    *time.Time                     `json:"order_date"`
	ExpectedDate *time.Time                     `json:"expected_date"`
	Lines        []CreatePurchaseOrderLineInput `json:"items" binding:"required,min=1,dive"`
}

// ReceiveRequest receives quantity against one purchase order line
type ReceiveRequest struct {
	LineID     uuid.UUID `json:"item_id" binding:"required"`
	Quantity   int64     `json:"quantity" binding:"required,gt=0"`
	EmployeeID string    `json:"employee_id"`
	RequestKey string    `json:"-"`
}

// PurchaseOrderLineResponse represents a purchase order line
type PurchaseOrderLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemName         string          `json:"item_name"`
	OrderedQuantity  int64           `json:"quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	Outstanding      int64           `json:"outstanding_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Amount           decimal.Decimal `json:"amount"`
}

// PurchaseOrderResponse represents a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	PONumber     string                      `json:"po_number"`
	SupplierName string                      `json:"supplier_name"`
	OrderDate    time.Time                   `json:"order_date"`
	ExpectedDate *time.Time                  `json:"expected_date,omitempty"`
	Amount       decimal.Decimal             `json:"amount"`
	Status       string                      `json:"status"`
	EmployeeID   string                      `json:"employee_id"`
	Lines        []PurchaseOrderLineResponse `json:"items"`
	Version      int                         `json:"version"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// ReceiveResponse describes a receiving event
type ReceiveResponse struct {
	Order   PurchaseOrderResponse `json:"order"`
	Receipt ReceiptResponse       `json:"receipt"`
}

// ReceiptResponse represents a purchase receipt
type ReceiptResponse struct {
	ID               uuid.UUID `json:"id"`
	OrderID          uuid.UUID `json:"purchase_order_id"`
	LineID           uuid.UUID `json:"purchase_order_item_id"`
	PONumber         string    `json:"po_number"`
	SupplierName     string    `json:"supplier_name"`
	ItemName         string    `json:"item_name"`
	QuantityReceived int64     `json:"quantity_received"`
	PiecesReceived   int64     `json:"pieces_received"`
	StockType        string    `json:"type"`
	ReceivedAt       time.Time `json:"received_date"`
	EmployeeID       string    `json:"employee_id"`
}

// PurchaseOrderListQuery filters the purchase order list
type PurchaseOrderListQuery struct {
	Status       string `form:"status" binding:"omitempty,oneof=Pending 'Partially Received' Completed"`
	SupplierName string `form:"supplier_name"`
	Search       string `form:"search"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReceiptListQuery filters the receipts history
type ReceiptListQuery struct {
	OrderID  *uuid.UUID
	Page     int
	PageSize int
}

// StatusCountsResponse counts purchase orders per status
type StatusCountsResponse struct {
	Pending           int64 `json:"pending"`
	PartiallyReceived int64 `json:"partially_received"`
	Completed         int64 `json:"completed"`
	Total             int64 `json:"total"`
}

// OrderLineInput is a finished-goods quantity in cases
type OrderLineInput struct {
	Product string `json:"product" binding:"required"`
	Cases   int64  `json:"quantity" binding:"min=0"`
}

// CreateSalesOrderRequest creates a sales order and deducts its stock
type CreateSalesOrderRequest struct {
	OrderNumber  string           `json:"order_number" binding:"omitempty,max=50"`
	CustomerRef  string           `json:"customer_name"`
	Location     string           `json:"location"`
	OrderDate    *time.Time       `json:"date"`
	DeliveryDate *time.Time       `json:"delivery_date"`
	Amount       decimal.Decimal  `json:"amount"`
	EmployeeID   string           `json:"employee_id"`
	Lines        []OrderLineInput `json:"products" binding:"required,min=1,dive"`
	RequestKey   string           `json:"-"`
}

// CreateReturnRequest creates a return to vendor and deducts its stock
type CreateReturnRequest struct {
	RTVNumber    string           `json:"rtv_number" binding:"omitempty,max=50"`
	CustomerRef  string           `json:"customer_name"`
	Location     string           `json:"location"`
	DateOrdered  *time.Time       `json:"date_ordered"`
	DateReturned *time.Time       `json:"date_returned"`
	EmployeeID   string           `json:"employee_id"`
	Lines        []OrderLineInput `json:"products" binding:"required,min=1,dive"`
	RequestKey   string           `json:"-"`
}

// OrderLineResponse represents a sales or return line
type OrderLineResponse struct {
	ID              uuid.UUID `json:"id"`
	Product         string    `json:"product"`
	QuantityGrouped int64     `json:"quantity"`
	QuantityPieces  int64     `json:"quantity_pcs"`
}

// UpdateSalesOrderStatusRequest moves a sales order forward
type UpdateSalesOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// MarkDeliveredRequest records the delivery date of a sales order
type MarkDeliveredRequest struct {
	DeliveryDate *time.Time `json:"date_delivered" binding:"required"`
}

// DeleteSalesOrdersRequest removes several sales orders at once
type DeleteSalesOrdersRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// DeleteResponse reports how many rows were removed
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// SalesOrderResponse represents a sales order
type SalesOrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerRef  string              `json:"customer_name"`
	Location     string              `json:"location"`
	OrderDate    time.Time           `json:"date"`
	DeliveryDate *time.Time          `json:"delivery_date,omitempty"`
	Amount       decimal.Decimal     `json:"amount"`
	Status       string              `json:"status"`
	EmployeeID   string              `json:"employee_id"`
	Lines        []OrderLineResponse `json:"products"`
	Version      int                 `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ReturnResponse represents a return to vendor
type ReturnResponse struct {
	ID              uuid.UUID           `json:"id"`
	RTVNumber       string              `json:"rtv_number"`
	CustomerRef     string              `json:"customer_name"`
	Location        string              `json:"location"`
	DateOrdered     time.Time           `json:"date_ordered"`
	DateReturned    *time.Time          `json:"date_returned,omitempty"`
	Status          string              `json:"status"`
	EmployeeID      string              `json:"employee_id"`
	Lines           []OrderLineResponse `json:"products"`
	SkippedProducts []string            `json:"skipped_products,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ToPurchaseOrderResponse converts a domain purchase order
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, PurchaseOrderLineResponse{
			ID:               l.ID,
			ItemName:         l.ItemName,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			Outstanding:      l.Outstanding(),
			UnitPrice:        l.UnitPrice,
			Amount:           l.Amount(),
		})
	}
	return PurchaseOrderResponse{
		ID:           o.ID,
		PONumber:     o.PONumber,
		SupplierName: o.SupplierName,
		OrderDate:    o.OrderDate,
		ExpectedDate: o.ExpectedDate,
		Amount:       o.Amount,
		Status:       o.Status.String(),
		EmployeeID:   o.EmployeeID,
		Lines:        lines,
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToReceiptResponse converts a domain receipt
func ToReceiptResponse(r *trade.PurchaseReceipt) ReceiptResponse {
	return ReceiptResponse{
		ID:               r.ID,
		OrderID:          r.OrderID,
		LineID:           r.LineID,
		PONumber:         r.PONumber,
		SupplierName:     r.SupplierName,
		ItemName:         r.ItemName,
		QuantityReceived: r.QuantityReceived,
		PiecesReceived:   r.PiecesReceived,
		StockType:        string(r.StockType),
		ReceivedAt:       r.ReceivedAt,
		EmployeeID:       r.EmployeeID,
	}
}

func toOrderLineResponses(lines []trade.OrderLine) []OrderLineResponse {
	out := make([]OrderLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLineResponse{
			ID:              l.ID,
			Product:         l.Product,
			QuantityGrouped: l.QuantityGrouped,
			QuantityPieces:  l.QuantityPieces,
		})
	}
	return out
}

// ToSalesOrderResponse converts a domain sales order
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerRef:  o.CustomerRef,
		Location:     o.Location,
		OrderDate:    o.OrderDate,
		DeliveryDate: o.DeliveryDate,
		Amount:       o.Amount,
		Status:       string(o.Status),
		EmployeeID:   o.EmployeeID,
		Lines:        toOrderLineResponses(o.Lines),
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
	}
}

// ToReturnResponse converts a domain return
func ToReturnResponse(r *trade.ReturnToVendor) ReturnResponse {
	return ReturnResponse{
		ID:           r.ID,
		RTVNumber:    r.RTVNumber,
		CustomerRef:  r.CustomerRef,
		Location:     r.Location,
		DateOrdered:  r.DateOrdered,
		DateReturned: r.DateReturned,
		Status:       string(r.Status),
		EmployeeID:   r.EmployeeID,
		Lines:        toOrderLineResponses(r.Lines),
		CreatedAt:    r.CreatedAt,
	}
}
