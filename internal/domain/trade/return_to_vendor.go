package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
)

// ReturnStatus represents the status of a return to vendor
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "Pending"
	ReturnStatusApproved ReturnStatus = "Approved"
)

// ReturnToVendor pulls finished goods back out of stock
type ReturnToVendor struct {
	shared.BaseAggregateRoot
	RTVNumber    string
	CustomerRef  string
	Location     string
	DateOrdered  time.Time
	DateReturned *time.Time
	Status       ReturnStatus
	EmployeeID   string
	Lines        []OrderLine
}

// NewReturnToVendor creates a pending return. An empty number is generated.
func NewReturnToVendor(rtvNumber, customerRef, location, employeeID string, dateOrdered time.Time) (*ReturnToVendor, error) {
	if dateOrdered.IsZero() {
		dateOrdered = time.Now()
	}
	rtvNumber = strings.TrimSpace(rtvNumber)
	if rtvNumber == "" {
		rtvNumber = GenerateReturnNumber(dateOrdered)
	}
	return &ReturnToVendor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RTVNumber:         rtvNumber,
		CustomerRef:       strings.TrimSpace(customerRef),
		Location:          strings.TrimSpace(location),
		DateOrdered:       dateOrdered,
		Status:            ReturnStatusPending,
		EmployeeID:        employeeID,
		Lines:             make([]OrderLine, 0),
	}, nil
}

// AddLine appends cases of product
func (r *ReturnToVendor) AddLine(product string, cases int64, piecesPerUnit int) (*OrderLine, error) {
	line, err := newOrderLine(r.ID, product, cases, piecesPerUnit)
	if err != nil {
		return nil, err
	}
	r.Lines = append(r.Lines, line)
	return &r.Lines[len(r.Lines)-1], nil
}

// Approve moves a pending return to approved
func (r *ReturnToVendor) Approve() error {
	if r.Status != ReturnStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot approve return in %s status", r.Status))
	}
	r.Status = ReturnStatusApproved
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
