package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerMetrics records ledger activity
type LedgerMetrics interface {
	// RecordMovement counts pieces moved by a committed event
	RecordMovement(ctx context.Context, module inventory.Module, stockType inventory.StockType, movement inventory.Movement, pieces int64)
	// RecordRejected counts a business event that failed with code
	RecordRejected(ctx context.Context, module inventory.Module, code string)
	// RecordLowStock counts a low stock alert for item
	RecordLowStock(ctx context.Context, item string)
}

type noopLedgerMetrics struct{}

func (noopLedgerMetrics) RecordMovement(context.Context, inventory.Module, inventory.StockType, inventory.Movement, int64) {
}
func (noopLedgerMetrics) RecordRejected(context.Context, inventory.Module, string) {}
func (noopLedgerMetrics) RecordLowStock(context.Context, string)                   {}

// Mutation collects what one business event did to the ledger.
// A fresh Mutation is created inside every TransactionScope.Execute call.
type Mutation struct {
	EmployeeID    string
	Module        inventory.Module
	ReferenceType string
	ReferenceID   string
	At            time.Time

	entries []*inventory.LedgerEvent
	events  []shared.DomainEvent
}

// NewMutation starts a mutation for one business event
func NewMutation(module inventory.Module, referenceType, referenceID, employeeID string, at time.Time) *Mutation {
	if at.IsZero() {
		at = time.Now()
	}
	return &Mutation{
		EmployeeID:    employeeID,
		Module:        module,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		At:            at,
	}
}

// Entries returns the ledger events appended so far
func (m *Mutation) Entries() []*inventory.LedgerEvent {
	return m.entries
}

// DomainEvents returns domain events raised by touched stock rows
func (m *Mutation) DomainEvents() []shared.DomainEvent {
	return m.events
}

// StockLedger is the only writer of stock rows.
// Every method runs on the repositories of the caller's transaction scope,
// pairs each mutation with a LedgerEvent, and recomputes grouped counts from pieces.
type StockLedger struct {
	units     *inventory.UnitConversionTable
	bom       *inventory.BillOfMaterials
	publisher shared.EventPublisher
	metrics   LedgerMetrics
	logger    *zap.Logger
}

// NewStockLedger creates a ledger over a unit conversion table
func NewStockLedger(units *inventory.UnitConversionTable, logger *zap.Logger) *StockLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedger{
		units:   units,
		metrics: noopLedgerMetrics{},
		logger:  logger,
	}
}

// WithEventPublisher sets where committed domain events go
func (l *StockLedger) WithEventPublisher(publisher shared.EventPublisher) *StockLedger {
	l.publisher = publisher
	return l
}

// WithBillOfMaterials lets CanonicalName resolve BOM products and materials
// that have no unit entry
func (l *StockLedger) WithBillOfMaterials(bom *inventory.BillOfMaterials) *StockLedger {
	l.bom = bom
	return l
}

// WithMetrics sets the metrics recorder
func (l *StockLedger) WithMetrics(metrics LedgerMetrics) *StockLedger {
	if metrics != nil {
		l.metrics = metrics
	}
	return l
}

// Units returns the unit conversion table
func (l *StockLedger) Units() *inventory.UnitConversionTable {
	return l.units
}

// Metrics returns the metrics recorder
func (l *StockLedger) Metrics() LedgerMetrics {
	return l.metrics
}

// CanonicalName returns the catalogue spelling of an item or material name.
// Names outside the catalogue are only trimmed.
func (l *StockLedger) CanonicalName(name string) string {
	if c, ok := l.units.Canonical(name); ok {
		return c
	}
	c, _ := l.bom.Canonical(name)
	return c
}

// GetOrCreateItem returns the locked finished-goods row for name, creating it at zero.
// New rows take the catalogue spelling of name.
func (l *StockLedger) GetOrCreateItem(ctx context.Context, repos TransactionalRepositories, name, unit string) (*inventory.StockItem, error) {
	return repos.StockItemRepo().GetOrCreate(ctx, l.CanonicalName(name), unit)
}

// LockItem returns the locked finished-goods row for name or ITEM_NOT_FOUND
func (l *StockLedger) LockItem(ctx context.Context, repos TransactionalRepositories, name string) (*inventory.StockItem, error) {
	return repos.StockItemRepo().FindByNameForUpdate(ctx, name)
}

// IncreaseItem adds pieces to a locked finished-goods row
func (l *StockLedger) IncreaseItem(ctx context.Context, repos TransactionalRepositories, item *inventory.StockItem, pieces int64, m *Mutation) error {
	if err := item.Increase(pieces, l.units.PiecesPerUnit(item.Name)); err != nil {
		return err
	}
	if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
		return err
	}
	return l.append(ctx, repos, m, inventory.LedgerEventParams{
		StockType:    inventory.StockTypeFinishedGoods,
		ItemName:     item.Name,
		Movement:     inventory.MovementIncrease,
		Quantity:     pieces,
		BalanceAfter: item.Counts.QuantityPieces,
	})
}

// DecreaseItem removes pieces from a locked finished-goods row.
// Under ShortfallReject it fails with INSUFFICIENT_STOCK and leaves the row untouched;
// under ShortfallClamp it removes what exists and returns the shortfall.
func (l *StockLedger) DecreaseItem(ctx context.Context, repos TransactionalRepositories, item *inventory.StockItem, pieces int64, policy inventory.ShortfallPolicy, m *Mutation) (int64, error) {
	ppu := l.units.PiecesPerUnit(item.Name)
	var shortfall int64
	if policy == inventory.ShortfallClamp {
		shortfall = item.DecreaseClamped(pieces, ppu)
	} else if err := item.Decrease(pieces, ppu); err != nil {
		return 0, err
	}
	if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
		return 0, err
	}
	m.events = append(m.events, item.GetDomainEvents()...)
	item.ClearDomainEvents()

	if shortfall > 0 {
		l.logger.Warn("Finished goods shortfall clamped",
			zap.String("item", item.Name),
			zap.Int64("requested_pieces", pieces),
			zap.Int64("shortfall_pieces", shortfall),
			zap.String("reference", m.ReferenceID))
	}
	deducted := pieces - shortfall
	if deducted == 0 {
		return shortfall, nil
	}
	return shortfall, l.append(ctx, repos, m, inventory.LedgerEventParams{
		StockType:    inventory.StockTypeFinishedGoods,
		ItemName:     item.Name,
		Movement:     inventory.MovementDecrease,
		Quantity:     deducted,
		BalanceAfter: item.Counts.QuantityPieces,
	})
}

// ResetItem overwrites the piece count of a locked finished-goods row.
// The ledger event records the difference.
func (l *StockLedger) ResetItem(ctx context.Context, repos TransactionalRepositories, item *inventory.StockItem, pieces int64, m *Mutation) error {
	before := item.Counts.QuantityPieces
	if err := item.ResetTo(pieces, l.units.PiecesPerUnit(item.Name)); err != nil {
		return err
	}
	if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
		return err
	}
	m.events = append(m.events, item.GetDomainEvents()...)
	item.ClearDomainEvents()

	diff := pieces - before
	if diff == 0 {
		return nil
	}
	movement := inventory.MovementIncrease
	if diff < 0 {
		movement = inventory.MovementDecrease
		diff = -diff
	}
	return l.append(ctx, repos, m, inventory.LedgerEventParams{
		StockType:    inventory.StockTypeFinishedGoods,
		ItemName:     item.Name,
		Movement:     movement,
		Quantity:     diff,
		BalanceAfter: item.Counts.QuantityPieces,
	})
}

// GetOrCreateLot returns the locked lot of material from supplier, creating it at zero
func (l *StockLedger) GetOrCreateLot(ctx context.Context, repos TransactionalRepositories, material string, supplier *inventory.Supplier) (*inventory.RawMaterialLot, error) {
	return repos.LotRepo().GetOrCreate(ctx, l.CanonicalName(material), supplier)
}

// LockLot returns the locked lot of material held from supplierName or ITEM_NOT_FOUND
func (l *StockLedger) LockLot(ctx context.Context, repos TransactionalRepositories, material, supplierName string) (*inventory.RawMaterialLot, error) {
	return repos.LotRepo().FindForUpdate(ctx, material, supplierName)
}

// IncreaseLot adds pieces to a locked lot
func (l *StockLedger) IncreaseLot(ctx context.Context, repos TransactionalRepositories, lot *inventory.RawMaterialLot, pieces int64, m *Mutation) error {
	if err := lot.Increase(pieces, l.units.PiecesPerUnit(lot.Material)); err != nil {
		return err
	}
	if err := repos.LotRepo().SaveWithLock(ctx, lot); err != nil {
		return err
	}
	return l.append(ctx, repos, m, inventory.LedgerEventParams{
		StockType:    inventory.StockTypeRawMaterials,
		ItemName:     lot.Material,
		SupplierName: lot.SupplierName,
		Movement:     inventory.MovementIncrease,
		Quantity:     pieces,
		BalanceAfter: lot.Counts.QuantityPieces,
	})
}

// DecreaseLot removes pieces from a locked lot, following policy on shortfall
func (l *StockLedger) DecreaseLot(ctx context.Context, repos TransactionalRepositories, lot *inventory.RawMaterialLot, pieces int64, policy inventory.ShortfallPolicy, m *Mutation) (int64, error) {
	ppu := l.units.PiecesPerUnit(lot.Material)
	var shortfall int64
	if policy == inventory.ShortfallClamp {
		shortfall = lot.DecreaseClamped(pieces, ppu)
	} else if err := lot.Decrease(pieces, ppu); err != nil {
		return 0, err
	}
	if err := repos.LotRepo().SaveWithLock(ctx, lot); err != nil {
		return 0, err
	}

	if shortfall > 0 {
		l.logger.Warn("Raw material shortfall clamped",
			zap.String("material", lot.Material),
			zap.String("supplier", lot.SupplierName),
			zap.Int64("requested_pieces", pieces),
			zap.Int64("shortfall_pieces", shortfall),
			zap.String("reference", m.ReferenceID))
	}
	deducted := pieces - shortfall
	if deducted == 0 {
		return shortfall, nil
	}
	return shortfall, l.append(ctx, repos, m, inventory.LedgerEventParams{
		StockType:    inventory.StockTypeRawMaterials,
		ItemName:     lot.Material,
		SupplierName: lot.SupplierName,
		Movement:     inventory.MovementDecrease,
		Quantity:     deducted,
		BalanceAfter: lot.Counts.QuantityPieces,
	})
}

// Committed reports a committed mutation: movement metrics and domain events.
// Call it only after TransactionScope.Execute returned nil.
func (l *StockLedger) Committed(ctx context.Context, m *Mutation) {
	for _, e := range m.entries {
		l.metrics.RecordMovement(ctx, e.Module, e.StockType, e.Movement, e.Quantity)
	}
	if l.publisher == nil || len(m.events) == 0 {
		return
	}
	if err := l.publisher.Publish(ctx, m.events...); err != nil {
		l.logger.Error("Failed to publish ledger events",
			zap.String("reference", m.ReferenceID),
			zap.Error(err))
	}
}

// Rejected records a failed business event
func (l *StockLedger) Rejected(ctx context.Context, module inventory.Module, err error) {
	code := "INTERNAL"
	var de *shared.DomainError
	if errors.As(err, &de) {
		code = de.Code
	}
	l.metrics.RecordRejected(ctx, module, code)
}

func (l *StockLedger) append(ctx context.Context, repos TransactionalRepositories, m *Mutation, p inventory.LedgerEventParams) error {
	p.EmployeeID = m.EmployeeID
	p.Module = m.Module
	p.ReferenceType = m.ReferenceType
	p.ReferenceID = m.ReferenceID
	p.ProcessedAt = m.At
	evt, err := inventory.NewLedgerEvent(p)
	if err != nil {
		return err
	}
	if err := repos.LedgerEventRepo().Append(ctx, evt); err != nil {
		return err
	}
	m.entries = append(m.entries, evt)
	return nil
}

// ConfigureLot sets pieces per received unit on the lot of material from supplier,
// creating the lot at zero when missing. Stock counts are not touched.
func (l *StockLedger) ConfigureLot(ctx context.Context, repos TransactionalRepositories, material string, supplier *inventory.Supplier, conversion int) (*inventory.RawMaterialLot, error) {
	lot, err := l.GetOrCreateLot(ctx, repos, material, supplier)
	if err != nil {
		return nil, err
	}
	if lot.ReceivingConversion == conversion {
		return lot, nil
	}
	if err := lot.SetReceivingConversion(conversion); err != nil {
		return nil, err
	}
	if err := repos.LotRepo().SaveWithLock(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}
