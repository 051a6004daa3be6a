package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteLedgerEvents(t *testing.T) {
	at := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	events := []inventory.LedgerEvent{
		{
			ID: uuid.New(), ProcessedAt: at, EmployeeID: "E3",
			Module: inventory.ModuleSalesOrder, StockType: inventory.StockTypeFinishedGoods,
			ItemName: "350ml", Movement: inventory.MovementDecrease, Quantity: 48, BalanceAfter: 52,
			ReferenceType: inventory.ReferenceSalesOrder, ReferenceID: "SO-1",
		},
		{
			ID: uuid.New(), ProcessedAt: at, EmployeeID: "E1",
			Module: inventory.ModulePurchaseOrder, StockType: inventory.StockTypeRawMaterials,
			ItemName: "Blue Plastic Cap", SupplierName: "CapCo", Movement: inventory.MovementIncrease,
			Quantity: 400, BalanceAfter: 400, ReferenceType: inventory.ReferencePurchaseOrder, ReferenceID: "PO-7",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLedgerEvents(&buf, events))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ledgerHeadings, rows[0])
	assert.Equal(t, []string{"2025-06-02 09:30:00", "E3", "Sales Order", "Finished Goods", "350ml", "", "decrease", "-48", "52", "sales_order", "SO-1"}, rows[1])
	assert.Equal(t, "CapCo", rows[2][5])
	assert.Equal(t, "400", rows[2][7])
}

func TestWriteLedgerEvents_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLedgerEvents(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "activity-log-20250602.xlsx", LedgerFilename("20250602"))
}
