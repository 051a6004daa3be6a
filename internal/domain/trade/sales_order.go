package trade

import (
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusPending    SalesOrderStatus = "Pending"
	SalesOrderStatusProcessing SalesOrderStatus = "Processing"
	SalesOrderStatusDelivered  SalesOrderStatus = "Delivered"
	SalesOrderStatusCompleted  SalesOrderStatus = "Completed"
)

var salesOrderStatusRank = map[SalesOrderStatus]int{
	SalesOrderStatusPending:    0,
	SalesOrderStatusProcessing: 1,
	SalesOrderStatusDelivered:  2,
	SalesOrderStatusCompleted:  3,
}

// IsValid checks if the status is valid
func (s SalesOrderStatus) IsValid() bool {
	_, ok := salesOrderStatusRank[s]
	return ok
}

// ParseSalesOrderStatus matches a status name ignoring case
func ParseSalesOrderStatus(s string) (SalesOrderStatus, error) {
	s = strings.TrimSpace(s)
	for st := range salesOrderStatusRank {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", shared.NewDomainErrorf(shared.CodeInvalidInput, "Unknown sales order status %q", s)
}

// OrderLine is a finished-goods quantity on a sales order or return.
// QuantityGrouped is in cases; QuantityPieces is cases times pieces per unit.
type OrderLine struct {
	ID              uuid.UUID
	DocumentID      uuid.UUID
	Product         string
	QuantityGrouped int64
	QuantityPieces  int64
}

func newOrderLine(documentID uuid.UUID, product string, cases int64, piecesPerUnit int) (OrderLine, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return OrderLine{}, shared.NewDomainError(shared.CodeInvalidInput, "Product cannot be empty")
	}
	if cases <= 0 {
		return OrderLine{}, shared.NewDomainErrorf(shared.CodeInvalidInput, "Quantity for %s must be positive", product)
	}
	if piecesPerUnit < 1 {
		piecesPerUnit = 1
	}
	return OrderLine{
		ID:              uuid.New(),
		DocumentID:      documentID,
		Product:         product,
		QuantityGrouped: cases,
		QuantityPieces:  cases * int64(piecesPerUnit),
	}, nil
}

// SalesOrder is a shipment of finished goods to a customer
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string
	CustomerRef  string
	Location     string
	OrderDate    time.Time
	DeliveryDate *time.Time
	Amount       decimal.Decimal
	Status       SalesOrderStatus
	EmployeeID   string
	Lines        []OrderLine
}

// NewSalesOrder creates a pending sales order. An empty number is generated.
func NewSalesOrder(orderNumber, customerRef, location, employeeID string, orderDate time.Time) (*SalesOrder, error) {
	if orderDate.IsZero() {
		orderDate = time.Now()
	}
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		orderNumber = GenerateSalesOrderNumber(orderDate)
	}
	return &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerRef:       strings.TrimSpace(customerRef),
		Location:          strings.TrimSpace(location),
		OrderDate:         orderDate,
		Amount:            decimal.Zero,
		Status:            SalesOrderStatusPending,
		EmployeeID:        employeeID,
		Lines:             make([]OrderLine, 0),
	}, nil
}

// AddLine appends cases of product
func (o *SalesOrder) AddLine(product string, cases int64, piecesPerUnit int) (*OrderLine, error) {
	line, err := newOrderLine(o.ID, product, cases, piecesPerUnit)
	if err != nil {
		return nil, err
	}
	o.Lines = append(o.Lines, line)
	return &o.Lines[len(o.Lines)-1], nil
}

// TransitionTo moves the order forward through
// Pending, Processing, Delivered and Completed. Steps may be skipped;
// going back or staying put fails with INVALID_STATE.
func (o *SalesOrder) TransitionTo(status SalesOrderStatus) error {
	next, ok := salesOrderStatusRank[status]
	if !ok {
		return shared.NewDomainErrorf(shared.CodeInvalidInput, "Unknown sales order status %q", status)
	}
	if next <= salesOrderStatusRank[o.Status] {
		return shared.NewDomainErrorf(shared.CodeInvalidState,
			"Cannot move sales order %s from %s to %s", o.OrderNumber, o.Status, status)
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// MarkDelivered moves the order to Delivered on the given day
func (o *SalesOrder) MarkDelivered(at time.Time) error {
	if at.IsZero() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Delivery date is required")
	}
	if err := o.TransitionTo(SalesOrderStatusDelivered); err != nil {
		return err
	}
	o.DeliveryDate = &at
	return nil
}

// TotalPieces sums pieces across lines
func (o *SalesOrder) TotalPieces() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.QuantityPieces
	}
	return total
}
