package inventory

import "github.com/bottling/backend/internal/domain/shared"

// StockCounts holds the two representations of a stock quantity.
// Pieces are authoritative; QuantityGrouped is always floor(QuantityPieces / ppu)
// and is never adjusted on its own.
type StockCounts struct {
	QuantityGrouped int64 `json:"quantity_grouped"`
	QuantityPieces  int64 `json:"quantity_pieces"`
}

// NewStockCounts builds counts from a piece total
func NewStockCounts(pieces int64, piecesPerUnit int) StockCounts {
	ppu := normalizePPU(piecesPerUnit)
	return StockCounts{
		QuantityGrouped: pieces / ppu,
		QuantityPieces:  pieces,
	}
}

// Remainder returns the pieces that do not fill a whole grouped unit
func (c StockCounts) Remainder(piecesPerUnit int) int64 {
	return c.QuantityPieces - c.QuantityGrouped*normalizePPU(piecesPerUnit)
}

// Consistent reports whether the grouped count matches the pieces for ppu
func (c StockCounts) Consistent(piecesPerUnit int) bool {
	r := c.Remainder(piecesPerUnit)
	return c.QuantityPieces >= 0 && r >= 0 && r < normalizePPU(piecesPerUnit)
}

// Add returns the counts after adding pieces
func (c StockCounts) Add(pieces int64, piecesPerUnit int) (StockCounts, error) {
	if pieces < 0 {
		return c, shared.NewDomainError(shared.CodeInvalidInput, "Pieces to add cannot be negative")
	}
	return NewStockCounts(c.QuantityPieces+pieces, piecesPerUnit), nil
}

// Subtract returns the counts after removing pieces.
// It fails with INSUFFICIENT_STOCK when pieces exceed what is on hand.
func (c StockCounts) Subtract(pieces int64, piecesPerUnit int) (StockCounts, error) {
	if pieces < 0 {
		return c, shared.NewDomainError(shared.CodeInvalidInput, "Pieces to remove cannot be negative")
	}
	if pieces > c.QuantityPieces {
		return c, shared.NewDomainErrorf(shared.CodeInsufficientStock,
			"Insufficient stock: requested %d pieces, available %d", pieces, c.QuantityPieces)
	}
	return NewStockCounts(c.QuantityPieces-pieces, piecesPerUnit), nil
}

// SubtractClamped removes at most the pieces on hand and returns the shortfall
func (c StockCounts) SubtractClamped(pieces int64, piecesPerUnit int) (StockCounts, int64) {
	if pieces <= 0 {
		return c, 0
	}
	taken := min(pieces, c.QuantityPieces)
	return NewStockCounts(c.QuantityPieces-taken, piecesPerUnit), pieces - taken
}

func normalizePPU(ppu int) int64 {
	if ppu < 1 {
		return 1
	}
	return int64(ppu)
}
