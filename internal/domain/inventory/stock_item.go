package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockItem is the finished-goods stock of one product.
// It is the aggregate root for finished-goods ledger operations and is never hard-deleted.
type StockItem struct {
	shared.BaseAggregateRoot
	Name              string
	Unit              string
	Counts            StockCounts
	LowStockThreshold *int64 // grouped units; nil disables alerts
	UnitCost          *decimal.Decimal
}

// NewStockItem creates an empty stock item
func NewStockItem(name, unit string) (*StockItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Stock item name cannot be empty")
	}
	if unit == "" {
		unit = UnitLabelPcs
	}
	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Unit:              unit,
	}, nil
}

// Increase adds pieces and recomputes the grouped count
func (s *StockItem) Increase(pieces int64, piecesPerUnit int) error {
	counts, err := s.Counts.Add(pieces, piecesPerUnit)
	if err != nil {
		return err
	}
	s.apply(counts)
	return nil
}

// Decrease removes pieces. State is unchanged on failure.
func (s *StockItem) Decrease(pieces int64, piecesPerUnit int) error {
	counts, err := s.Counts.Subtract(pieces, piecesPerUnit)
	if errors.Is(err, shared.ErrInvalidInput) {
		return err
	}
	if err != nil {
		return shared.NewDomainErrorf(shared.CodeInsufficientStock,
			"Insufficient stock for %s: requested %d pieces, available %d", s.Name, pieces, s.Counts.QuantityPieces)
	}
	s.apply(counts)
	s.checkThreshold()
	return nil
}

// DecreaseClamped removes at most the pieces on hand and returns the shortfall
func (s *StockItem) DecreaseClamped(pieces int64, piecesPerUnit int) int64 {
	counts, shortfall := s.Counts.SubtractClamped(pieces, piecesPerUnit)
	s.apply(counts)
	s.checkThreshold()
	return shortfall
}

// ResetTo overwrites the piece count. Only manual adjustment flows use it.
func (s *StockItem) ResetTo(pieces int64, piecesPerUnit int) error {
	if pieces < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Stock cannot be reset to a negative quantity")
	}
	s.apply(NewStockCounts(pieces, piecesPerUnit))
	s.checkThreshold()
	return nil
}

// SetLowStockThreshold sets the alert level in grouped units. nil clears it.
func (s *StockItem) SetLowStockThreshold(threshold *int64) error {
	if threshold != nil && *threshold < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Low stock threshold cannot be negative")
	}
	s.LowStockThreshold = threshold
	s.touch()
	return nil
}

// SetUnitCost sets the unit cost of one grouped unit
func (s *StockItem) SetUnitCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unit cost cannot be negative")
	}
	s.UnitCost = &cost
	s.touch()
	return nil
}

// IsBelowThreshold reports whether grouped stock is at or under the alert level
func (s *StockItem) IsBelowThreshold() bool {
	return s.LowStockThreshold != nil && s.Counts.QuantityGrouped <= *s.LowStockThreshold
}

// RaiseLowStockAlert records a StockBelowThresholdEvent if the item is low
func (s *StockItem) RaiseLowStockAlert() bool {
	if !s.IsBelowThreshold() {
		return false
	}
	s.AddDomainEvent(NewStockBelowThresholdEvent(s))
	return true
}

func (s *StockItem) apply(counts StockCounts) {
	s.Counts = counts
	s.touch()
}

func (s *StockItem) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

func (s *StockItem) checkThreshold() {
	s.RaiseLowStockAlert()
}
