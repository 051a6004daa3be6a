package inventory

import (
	"errors"
	"testing"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitConversionTable_Defaults(t *testing.T) {
	table := DefaultUnitConversionTable()

	tests := []struct {
		item  string
		ppu   int
		label string
	}{
		{"350ml", 24, UnitLabelCase},
		{"500ml", 24, UnitLabelCase},
		{"1L", 12, UnitLabelCase},
		{"6L", 1, UnitLabelPieces},
		{"Label", 20000, UnitLabelRoll},
		{"Blue Plastic Cap", 1, UnitLabelPcs},
		{"anything else", 1, UnitLabelPcs},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.ppu, table.PiecesPerUnit(tt.item))
			assert.Equal(t, tt.label, table.UnitLabel(tt.item))
		})
	}
}

func TestUnitConversionTable_Validation(t *testing.T) {
	_, err := NewUnitConversionTable([]UnitEntry{{Item: "Box", PiecesPerUnit: 0}})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewUnitConversionTable([]UnitEntry{{Item: " ", PiecesPerUnit: 2}})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	table, err := NewUnitConversionTable([]UnitEntry{{Item: "Box", PiecesPerUnit: 10}})
	require.NoError(t, err)
	assert.Equal(t, UnitLabelPcs, table.UnitLabel("Box"))
	assert.Equal(t, 10, table.PiecesPerUnit("Box"))
}

func TestUnitConversionTable_LookupFold(t *testing.T) {
	table := DefaultUnitConversionTable()

	_, ok := table.Lookup("label")
	assert.False(t, ok)

	e, ok := table.LookupFold("  LABEL ")
	require.True(t, ok)
	assert.Equal(t, "Label", e.Item)
}

func TestUnitConversionTable_CaseVariants(t *testing.T) {
	table := DefaultUnitConversionTable()

	tests := []struct {
		item      string
		ppu       int
		label     string
		canonical string
		known     bool
	}{
		{"500ML", 24, UnitLabelCase, "500ml", true},
		{"1l", 12, UnitLabelCase, "1L", true},
		{" label ", 20000, UnitLabelRoll, "Label", true},
		{"Gadget", 1, UnitLabelPcs, "Gadget", false},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.ppu, table.PiecesPerUnit(tt.item))
			assert.Equal(t, tt.label, table.UnitLabel(tt.item))
			got, ok := table.Canonical(tt.item)
			assert.Equal(t, tt.canonical, got)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestBillOfMaterials(t *testing.T) {
	bom := DefaultBillOfMaterials()

	t.Run("materials are ordered container, cap, label", func(t *testing.T) {
		mats, ok := bom.MaterialsFor("6L")
		require.True(t, ok)
		assert.Equal(t, []string{"Plastic Gallon (6L)", "Blue Plastic Cap (6L)", "Label"}, mats)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		mats, _ := bom.MaterialsFor("350ml")
		mats[0] = "changed"
		again, _ := bom.MaterialsFor("350ml")
		assert.Equal(t, "Plastic Bottle (350ml)", again[0])
	})

	t.Run("unknown product", func(t *testing.T) {
		_, ok := bom.MaterialsFor("2L")
		assert.False(t, ok)
		assert.False(t, bom.IsProduct("2L"))
	})

	t.Run("products keep configured order", func(t *testing.T) {
		assert.Equal(t, []string{"350ml", "500ml", "1L", "6L"}, bom.Products())
	})

	t.Run("raw materials are deduplicated", func(t *testing.T) {
		raw := bom.RawMaterials()
		assert.Len(t, raw, 7)
		assert.Contains(t, raw, "Label")
		assert.Contains(t, raw, "Blue Plastic Cap")
	})

	t.Run("canonical spelling of products and materials", func(t *testing.T) {
		for in, want := range map[string]string{
			"6l":                     "6L",
			"BLUE PLASTIC CAP (6L)":  "Blue Plastic Cap (6L)",
			"plastic bottle (350ML)": "Plastic Bottle (350ml)",
		} {
			got, ok := bom.Canonical(in)
			assert.True(t, ok, in)
			assert.Equal(t, want, got)
		}
		got, ok := bom.Canonical(" Widget ")
		assert.False(t, ok)
		assert.Equal(t, "Widget", got)
	})

	t.Run("duplicate product rejected", func(t *testing.T) {
		_, err := NewBillOfMaterials([]BOMEntry{
			{Product: "A", Materials: []string{"x"}},
			{Product: "A", Materials: []string{"y"}},
		})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, FoldName("Blue Plastic Cap"), FoldName(" blue PLASTIC cap"))
	assert.NotEqual(t, FoldName("Label"), FoldName("Labels"))
}
