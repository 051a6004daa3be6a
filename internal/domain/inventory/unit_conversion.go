package inventory

import (
	"strings"

	"github.com/bottling/backend/internal/domain/shared"
	"golang.org/x/text/cases"
)

// Default unit labels
const (
	UnitLabelCase   = "case"
	UnitLabelPieces = "pieces"
	UnitLabelRoll   = "roll"
	UnitLabelPcs    = "pcs"
)

// UnitEntry configures how one item is grouped
type UnitEntry struct {
	Item          string
	PiecesPerUnit int
	Label         string
}

// UnitConversionTable maps item names to pieces per grouped unit.
// It is immutable after construction.
type UnitConversionTable struct {
	entries map[string]UnitEntry
	folded  map[string]UnitEntry
}

// NewUnitConversionTable builds a table from entries
func NewUnitConversionTable(entries []UnitEntry) (*UnitConversionTable, error) {
	t := &UnitConversionTable{
		entries: make(map[string]UnitEntry, len(entries)),
		folded:  make(map[string]UnitEntry, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Item)
		if name == "" {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit entry item cannot be empty")
		}
		if e.PiecesPerUnit < 1 {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput,
				"Pieces per unit for %q must be at least 1", name)
		}
		if e.Label == "" {
			e.Label = UnitLabelPcs
		}
		e.Item = name
		t.entries[name] = e
		t.folded[FoldName(name)] = e
	}
	return t, nil
}

// DefaultUnitConversionTable returns the bottling plant catalogue
func DefaultUnitConversionTable() *UnitConversionTable {
	t, _ := NewUnitConversionTable(DefaultUnitEntries())
	return t
}

// DefaultUnitEntries lists the built-in unit conversions
func DefaultUnitEntries() []UnitEntry {
	return []UnitEntry{
		{Item: "350ml", PiecesPerUnit: 24, Label: UnitLabelCase},
		{Item: "500ml", PiecesPerUnit: 24, Label: UnitLabelCase},
		{Item: "1L", PiecesPerUnit: 12, Label: UnitLabelCase},
		{Item: "6L", PiecesPerUnit: 1, Label: UnitLabelPieces},
		{Item: "Label", PiecesPerUnit: 20000, Label: UnitLabelRoll},
	}
}

// PiecesPerUnit returns the grouping factor for item, 1 when unknown.
// Names match ignoring case, like the stock repositories do.
func (t *UnitConversionTable) PiecesPerUnit(item string) int {
	if e, ok := t.find(item); ok {
		return e.PiecesPerUnit
	}
	return 1
}

// UnitLabel returns the grouped unit label for item, "pcs" when unknown
func (t *UnitConversionTable) UnitLabel(item string) string {
	if e, ok := t.find(item); ok {
		return e.Label
	}
	return UnitLabelPcs
}

// Canonical returns the configured spelling of item, or item trimmed when unknown
func (t *UnitConversionTable) Canonical(item string) (string, bool) {
	if e, ok := t.find(item); ok {
		return e.Item, true
	}
	return strings.TrimSpace(item), false
}

func (t *UnitConversionTable) find(item string) (UnitEntry, bool) {
	if e, ok := t.Lookup(item); ok {
		return e, true
	}
	return t.LookupFold(item)
}

// Lookup finds an entry by exact name
func (t *UnitConversionTable) Lookup(item string) (UnitEntry, bool) {
	if t == nil {
		return UnitEntry{}, false
	}
	e, ok := t.entries[strings.TrimSpace(item)]
	return e, ok
}

// LookupFold finds an entry ignoring case
func (t *UnitConversionTable) LookupFold(item string) (UnitEntry, bool) {
	if t == nil {
		return UnitEntry{}, false
	}
	e, ok := t.folded[FoldName(item)]
	return e, ok
}

// Entries returns a copy of the configured entries
func (t *UnitConversionTable) Entries() []UnitEntry {
	out := make([]UnitEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}

// FoldName normalizes a name for case-insensitive comparison.
// A Caser is stateful, so one is created per call.
func FoldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
