package inventory

import (
	"errors"
	"testing"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offer(t *testing.T, material, supplier, price string) SupplierOffer {
	t.Helper()
	s, err := NewSupplier(supplier)
	require.NoError(t, err)
	o, err := NewSupplierOffer(material, s, decimal.RequireFromString(price))
	require.NoError(t, err)
	return *o
}

func TestSupplierResolver_Resolve(t *testing.T) {
	r := NewSupplierResolver()

	tests := []struct {
		name     string
		override string
		offers   []SupplierOffer
		want     string
		wantErr  error
	}{
		{
			name:     "override used verbatim",
			override: "Anyone Co",
			offers:   nil,
			want:     "Anyone Co",
		},
		{
			name: "lowest price wins",
			offers: []SupplierOffer{
				offer(t, "Label", "Zeta", "500"),
				offer(t, "Label", "Alpha", "650"),
			},
			want: "Zeta",
		},
		{
			name: "name breaks price ties ignoring case",
			offers: []SupplierOffer{
				offer(t, "Label", "beta", "500"),
				offer(t, "Label", "Alpha", "500"),
			},
			want: "Alpha",
		},
		{
			name: "offers for other materials ignored",
			offers: []SupplierOffer{
				offer(t, "Blue Plastic Cap", "Cheap", "1"),
				offer(t, "Label", "Only", "900"),
			},
			want: "Only",
		},
		{
			name:    "no offers",
			offers:  []SupplierOffer{offer(t, "Blue Plastic Cap", "Cheap", "1")},
			wantErr: shared.ErrNoSupplierAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve("Label", tt.override, tt.offers)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSupplierResolver_RankIgnoresMaterialCase(t *testing.T) {
	r := NewSupplierResolver()
	offers := []SupplierOffer{
		offer(t, "label", "LabelCo", "2000"),
		offer(t, "LABEL", "Pricier", "2500"),
		offer(t, "Blue Plastic Cap", "Caps", "1"),
	}

	ranked := r.Rank("Label", offers)
	require.Len(t, ranked, 2)
	assert.Equal(t, "LabelCo", ranked[0].SupplierName)
	assert.Equal(t, "Pricier", ranked[1].SupplierName)

	got, err := r.Resolve(" label ", "", offers)
	require.NoError(t, err)
	assert.Equal(t, "LabelCo", got)
}

func TestCompareOffers_IDBreaksFullTie(t *testing.T) {
	a := offer(t, "Label", "Same", "1")
	b := offer(t, "Label", "Same", "1")
	a.SupplierID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b.SupplierID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	ranked := NewSupplierResolver().Rank("Label", []SupplierOffer{b, a})
	require.Len(t, ranked, 2)
	assert.Equal(t, a.SupplierID, ranked[0].SupplierID)
}

func TestSupplierOffer_PricePerPiece(t *testing.T) {
	o := offer(t, "Label", "Printer", "1000")
	assert.Equal(t, "0.05", o.PricePerPiece(20000).String())
	assert.Equal(t, "1000", o.PricePerPiece(1).String())
}

func TestRawMaterialLot(t *testing.T) {
	supplier, err := NewSupplier("SupplierX")
	require.NoError(t, err)
	lot, err := NewRawMaterialLot("Label", supplier)
	require.NoError(t, err)

	require.NoError(t, lot.Increase(60000, 20000))
	assert.Equal(t, int64(3), lot.Counts.QuantityGrouped)

	require.NoError(t, lot.Decrease(45000, 20000))
	assert.Equal(t, int64(15000), lot.Counts.QuantityPieces)
	assert.Equal(t, int64(0), lot.Counts.QuantityGrouped)
	assert.Equal(t, int64(15000), lot.Counts.Remainder(20000))

	err = lot.Decrease(15001, 20000)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	assert.Equal(t, int64(15000), lot.Counts.QuantityPieces)

	err = lot.Decrease(-1, 20000)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	assert.False(t, errors.Is(err, shared.ErrInsufficientStock))
	assert.Equal(t, int64(15000), lot.Counts.QuantityPieces)

	assert.Equal(t, int64(7), lot.ReceivedPieces(7))
	require.NoError(t, lot.SetReceivingConversion(20000))
	assert.Equal(t, int64(40000), lot.ReceivedPieces(2))
	assert.Error(t, lot.SetReceivingConversion(0))
}

func TestNewLedgerEvent(t *testing.T) {
	evt, err := NewLedgerEvent(LedgerEventParams{
		Module:       ModuleSalesOrder,
		StockType:    StockTypeFinishedGoods,
		ItemName:     "350ml",
		SupplierName: "ignored for finished goods",
		Movement:     MovementDecrease,
		Quantity:     48,
	})
	require.NoError(t, err)
	assert.Equal(t, UnknownEmployee, evt.EmployeeID)
	assert.Empty(t, evt.SupplierName)
	assert.Equal(t, int64(-48), evt.SignedQuantity())
	assert.False(t, evt.ProcessedAt.IsZero())

	_, err = NewLedgerEvent(LedgerEventParams{StockType: "Other", ItemName: "x", Movement: MovementIncrease})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewLedgerEvent(LedgerEventParams{StockType: StockTypeRawMaterials, ItemName: "x", Movement: MovementIncrease, Quantity: -1})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestParsePolicies(t *testing.T) {
	p, err := ParseMissingMaterialPolicy("FAIL")
	require.NoError(t, err)
	assert.Equal(t, MissingMaterialFail, p)

	p, err = ParseMissingMaterialPolicy("")
	require.NoError(t, err)
	assert.Equal(t, MissingMaterialSkip, p)

	_, err = ParseMissingMaterialPolicy("ignore")
	assert.Error(t, err)

	s, err := ParseShortfallPolicy("", ShortfallReject)
	require.NoError(t, err)
	assert.Equal(t, ShortfallReject, s)

	s, err = ParseShortfallPolicy("clamp", ShortfallReject)
	require.NoError(t, err)
	assert.Equal(t, ShortfallClamp, s)
}
