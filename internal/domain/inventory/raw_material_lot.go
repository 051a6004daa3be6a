package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RawMaterialLot is the stock of one raw material held from one supplier.
// Lots of the same material under different suppliers never share stock.
type RawMaterialLot struct {
	shared.BaseAggregateRoot
	Material     string
	SupplierID   uuid.UUID
	SupplierName string
	Counts       StockCounts
	// ReceivingConversion is the number of pieces one received unit adds
	ReceivingConversion int
}

// NewRawMaterialLot creates an empty lot for material from supplier
func NewRawMaterialLot(material string, supplier *Supplier) (*RawMaterialLot, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Material name cannot be empty")
	}
	if supplier == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Lot requires a supplier")
	}
	return &RawMaterialLot{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Material:            material,
		SupplierID:          supplier.ID,
		SupplierName:        supplier.Name,
		ReceivingConversion: 1,
	}, nil
}

// ReceivedPieces converts a received quantity into pieces
func (l *RawMaterialLot) ReceivedPieces(quantity int64) int64 {
	conv := l.ReceivingConversion
	if conv < 1 {
		conv = 1
	}
	return quantity * int64(conv)
}

// SetReceivingConversion changes pieces per received unit
func (l *RawMaterialLot) SetReceivingConversion(conv int) error {
	if conv < 1 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Receiving conversion must be at least 1")
	}
	l.ReceivingConversion = conv
	l.touch()
	return nil
}

// Increase adds pieces and recomputes the grouped count
func (l *RawMaterialLot) Increase(pieces int64, piecesPerUnit int) error {
	counts, err := l.Counts.Add(pieces, piecesPerUnit)
	if err != nil {
		return err
	}
	l.Counts = counts
	l.touch()
	return nil
}

// Decrease removes pieces. State is unchanged on failure.
func (l *RawMaterialLot) Decrease(pieces int64, piecesPerUnit int) error {
	counts, err := l.Counts.Subtract(pieces, piecesPerUnit)
	if errors.Is(err, shared.ErrInvalidInput) {
		return err
	}
	if err != nil {
		return shared.NewDomainErrorf(shared.CodeInsufficientStock,
			"Insufficient %s from %s: requested %d pieces, available %d",
			l.Material, l.SupplierName, pieces, l.Counts.QuantityPieces)
	}
	l.Counts = counts
	l.touch()
	return nil
}

// DecreaseClamped removes at most the pieces on hand and returns the shortfall
func (l *RawMaterialLot) DecreaseClamped(pieces int64, piecesPerUnit int) int64 {
	counts, shortfall := l.Counts.SubtractClamped(pieces, piecesPerUnit)
	l.Counts = counts
	l.touch()
	return shortfall
}

func (l *RawMaterialLot) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}
