package inventory

import (
	"errors"
	"testing"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStockItem(t *testing.T, name string, pieces int64, ppu int) *StockItem {
	t.Helper()
	item, err := NewStockItem(name, UnitLabelCase)
	require.NoError(t, err)
	require.NoError(t, item.Increase(pieces, ppu))
	item.ClearDomainEvents()
	return item
}

func TestNewStockItem(t *testing.T) {
	t.Run("creates empty item", func(t *testing.T) {
		item, err := NewStockItem("500ml", "")
		require.NoError(t, err)
		assert.Equal(t, "500ml", item.Name)
		assert.Equal(t, UnitLabelPcs, item.Unit)
		assert.Equal(t, StockCounts{}, item.Counts)
		assert.Equal(t, 1, item.Version)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		item, err := NewStockItem("  ", UnitLabelCase)
		assert.Nil(t, item)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestStockItem_ProductionScenario(t *testing.T) {
	item, err := NewStockItem("500ml", UnitLabelCase)
	require.NoError(t, err)

	require.NoError(t, item.Increase(120, 24))

	assert.Equal(t, int64(120), item.Counts.QuantityPieces)
	assert.Equal(t, int64(5), item.Counts.QuantityGrouped)
	assert.Equal(t, int64(0), item.Counts.Remainder(24))
	assert.Equal(t, 2, item.Version)
}

func TestStockItem_Decrease(t *testing.T) {
	t.Run("insufficient stock leaves state unchanged", func(t *testing.T) {
		item := createTestStockItem(t, "350ml", 30, 24)
		before := *item

		err := item.Decrease(31, 24)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, before.Counts, item.Counts)
		assert.Equal(t, before.Version, item.Version)
	})

	t.Run("negative pieces are invalid input", func(t *testing.T) {
		item := createTestStockItem(t, "350ml", 30, 24)

		err := item.Decrease(-5, 24)

		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.False(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, int64(30), item.Counts.QuantityPieces)
	})

	t.Run("decrease recomputes grouped", func(t *testing.T) {
		item := createTestStockItem(t, "350ml", 48, 24)
		require.NoError(t, item.Decrease(1, 24))
		assert.Equal(t, StockCounts{QuantityGrouped: 1, QuantityPieces: 47}, item.Counts)
	})

	t.Run("emits low stock event at threshold", func(t *testing.T) {
		item := createTestStockItem(t, "1L", 60, 12)
		threshold := int64(3)
		require.NoError(t, item.SetLowStockThreshold(&threshold))

		require.NoError(t, item.Decrease(12, 12))
		assert.Empty(t, item.GetDomainEvents())

		require.NoError(t, item.Decrease(12, 12))
		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*StockBelowThresholdEvent)
		require.True(t, ok)
		assert.Equal(t, int64(3), evt.QuantityGrouped)
		assert.Equal(t, int64(3), evt.Threshold)
		assert.Equal(t, EventTypeStockBelowThreshold, evt.EventType())
	})

	t.Run("clamped decrease reports shortfall", func(t *testing.T) {
		item := createTestStockItem(t, "6L", 5, 1)
		shortfall := item.DecreaseClamped(8, 1)
		assert.Equal(t, int64(3), shortfall)
		assert.Equal(t, int64(0), item.Counts.QuantityPieces)
	})
}

func TestStockItem_Settings(t *testing.T) {
	item := createTestStockItem(t, "350ml", 0, 24)

	neg := int64(-1)
	assert.True(t, errors.Is(item.SetLowStockThreshold(&neg), shared.ErrInvalidInput))
	require.NoError(t, item.SetLowStockThreshold(nil))
	assert.False(t, item.IsBelowThreshold())

	assert.True(t, errors.Is(item.SetUnitCost(decimal.NewFromInt(-2)), shared.ErrInvalidInput))
	require.NoError(t, item.SetUnitCost(decimal.RequireFromString("12.50")))
	assert.True(t, item.UnitCost.Equal(decimal.RequireFromString("12.5")))

	assert.True(t, errors.Is(item.ResetTo(-5, 24), shared.ErrInvalidInput))
	require.NoError(t, item.ResetTo(50, 24))
	assert.Equal(t, int64(2), item.Counts.QuantityGrouped)
}
