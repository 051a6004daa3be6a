package inventory

import (
	"strings"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a raw-material vendor
type Supplier struct {
	shared.BaseEntity
	Name string
}

// NewSupplier creates a supplier
func NewSupplier(name string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier name cannot be empty")
	}
	return &Supplier{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// SupplierOffer is a configured price for a material from a supplier.
// Price is per grouped unit of the material (one roll of labels, one bottle).
type SupplierOffer struct {
	shared.BaseEntity
	Material     string
	SupplierID   uuid.UUID
	SupplierName string
	Price        decimal.Decimal
}

// NewSupplierOffer creates an offer
func NewSupplierOffer(material string, supplier *Supplier, price decimal.Decimal) (*SupplierOffer, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Material name cannot be empty")
	}
	if supplier == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Offer requires a supplier")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Offer price cannot be negative")
	}
	return &SupplierOffer{
		BaseEntity:   shared.NewBaseEntity(),
		Material:     material,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Price:        price,
	}, nil
}

// PricePerPiece divides the grouped price by pieces per unit, rounded to 6 places
func (o SupplierOffer) PricePerPiece(piecesPerUnit int) decimal.Decimal {
	return o.Price.Div(decimal.NewFromInt(normalizePPU(piecesPerUnit))).Round(6)
}
