package inventory

import (
	"errors"
	"testing"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockCounts(t *testing.T) {
	tests := []struct {
		name        string
		pieces      int64
		ppu         int
		wantGrouped int64
		wantRem     int64
	}{
		{"exact cases", 120, 24, 5, 0},
		{"with remainder", 130, 24, 5, 10},
		{"less than one case", 23, 24, 0, 23},
		{"labels in rolls", 15000, 20000, 0, 15000},
		{"ppu of one", 7, 1, 7, 0},
		{"invalid ppu treated as one", 7, 0, 7, 0},
		{"zero", 0, 12, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewStockCounts(tt.pieces, tt.ppu)
			assert.Equal(t, tt.pieces, c.QuantityPieces)
			assert.Equal(t, tt.wantGrouped, c.QuantityGrouped)
			assert.Equal(t, tt.wantRem, c.Remainder(tt.ppu))
			assert.True(t, c.Consistent(tt.ppu))
		})
	}
}

func TestStockCounts_IdentityHoldsAcrossMutations(t *testing.T) {
	const ppu = 24
	c := StockCounts{}
	ops := []int64{50, -13, 200, -237, 1, 23, -24, 999}

	for _, op := range ops {
		var err error
		if op >= 0 {
			c, err = c.Add(op, ppu)
		} else {
			c, err = c.Subtract(-op, ppu)
		}
		require.NoError(t, err)

		r := c.Remainder(ppu)
		assert.Equal(t, c.QuantityPieces, c.QuantityGrouped*ppu+r)
		assert.GreaterOrEqual(t, r, int64(0))
		assert.Less(t, r, int64(ppu))
	}
	assert.Equal(t, int64(999), c.QuantityPieces)
	assert.Equal(t, int64(41), c.QuantityGrouped)
}

func TestStockCounts_Subtract(t *testing.T) {
	t.Run("fails when exceeding stock and leaves counts unchanged", func(t *testing.T) {
		c := NewStockCounts(48, 24)
		got, err := c.Subtract(49, 24)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, c, got)
	})

	t.Run("subtracts all stock", func(t *testing.T) {
		got, err := NewStockCounts(48, 24).Subtract(48, 24)
		require.NoError(t, err)
		assert.Equal(t, StockCounts{}, got)
	})

	t.Run("rejects negative pieces", func(t *testing.T) {
		_, err := NewStockCounts(48, 24).Subtract(-1, 24)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestStockCounts_SubtractClamped(t *testing.T) {
	c := NewStockCounts(10, 1)

	got, shortfall := c.SubtractClamped(15, 1)
	assert.Equal(t, int64(0), got.QuantityPieces)
	assert.Equal(t, int64(5), shortfall)

	got, shortfall = c.SubtractClamped(4, 1)
	assert.Equal(t, int64(6), got.QuantityPieces)
	assert.Equal(t, int64(0), shortfall)
}
