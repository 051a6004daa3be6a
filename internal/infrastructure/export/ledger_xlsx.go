// Package export renders ledger data as spreadsheet downloads.
package export

import (
	"fmt"
	"io"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of an Office Open XML workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const ledgerSheet = "Activity Log"

var ledgerHeadings = []string{
	"Processed At", "Employee", "Module", "Type", "Item", "Supplier",
	"Movement", "Quantity (pcs)", "Balance After (pcs)", "Reference Type", "Reference",
}

// WriteLedgerEvents writes events as a single-sheet workbook to w.
// Decreases are written as negative quantities.
func WriteLedgerEvents(w io.Writer, events []inventory.LedgerEvent) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(ledgerHeadings))
	for i, h := range ledgerHeadings {
		header[i] = h
	}
	if err := f.SetSheetRow(ledgerSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(ledgerHeadings), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ledgerSheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.ProcessedAt.UTC().Format("2006-01-02 15:04:05"),
			e.EmployeeID,
			string(e.Module),
			string(e.StockType),
			e.ItemName,
			e.SupplierName,
			string(e.Movement),
			e.SignedQuantity(),
			e.BalanceAfter,
			e.ReferenceType,
			e.ReferenceID,
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ledgerSheet, "A", "K", 18); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// LedgerFilename names an export file by its generation time
func LedgerFilename(stamp string) string {
	return "activity-log-" + stamp + ".xlsx"
}
