package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	appinv "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/cache"
	"github.com/bottling/backend/internal/infrastructure/config"
	"github.com/bottling/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	scope     *persistence.GormTransactionScope
	ledger    *appinv.StockLedger
	guard     *appinv.RequestGuard
	store     *cache.InMemoryIdempotencyStore
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db.DB))
	t.Cleanup(func() { _ = db.Close() })

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		scope:     persistence.NewGormTransactionScope(db.DB),
		store:     store,
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
	}
	f.ledger = appinv.NewStockLedger(inventory.DefaultUnitConversionTable(), zap.NewNop()).
		WithEventPublisher(f.publisher).
		WithMetrics(f.metrics)
	f.guard = appinv.NewRequestGuard(store, shared.DefaultIdempotencyConfig(), zap.NewNop())
	return f
}

func (f *fixture) seedItem(t *testing.T, name string, pieces int64) {
	t.Helper()
	ctx := context.Background()
	mut := appinv.NewMutation(inventory.ModuleInventoryAdjustment, inventory.ReferenceAdjustment, "seed", "tester", time.Time{})
	require.NoError(t, f.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		item, err := f.ledger.GetOrCreateItem(ctx, repos, name, inventory.UnitLabelCase)
		if err != nil {
			return err
		}
		return f.ledger.IncreaseItem(ctx, repos, item, pieces, mut)
	}))
}

func (f *fixture) seedLot(t *testing.T, material, supplierName string, pieces int64) {
	t.Helper()
	ctx := context.Background()
	mut := appinv.NewMutation(inventory.ModulePurchaseOrder, inventory.ReferencePurchaseOrder, "seed", "tester", time.Time{})
	require.NoError(t, f.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		supplier, err := inventory.NewSupplier(supplierName)
		if err != nil {
			return err
		}
		if err := repos.SupplierRepo().Create(ctx, supplier); err != nil {
			return err
		}
		lot, err := f.ledger.GetOrCreateLot(ctx, repos, material, supplier)
		if err != nil {
			return err
		}
		return f.ledger.IncreaseLot(ctx, repos, lot, pieces, mut)
	}))
}

func (f *fixture) item(t *testing.T, name string) *inventory.StockItem {
	t.Helper()
	var item *inventory.StockItem
	require.NoError(t, f.scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		var err error
		item, err = repos.StockItemRepo().FindByName(context.Background(), name)
		return err
	}))
	return item
}

func (f *fixture) ledgerCount(t *testing.T, filter inventory.LedgerEventFilter) int64 {
	t.Helper()
	var total int64
	require.NoError(t, f.scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		var err error
		total, err = repos.LedgerEventRepo().Count(context.Background(), filter)
		return err
	}))
	return total
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) published() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

type recordingMetrics struct {
	mu        sync.Mutex
	movements map[inventory.Movement]int64
	rejected  []string
	lowStock  []string
}

func (m *recordingMetrics) RecordMovement(_ context.Context, _ inventory.Module, _ inventory.StockType, movement inventory.Movement, pieces int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.movements == nil {
		m.movements = make(map[inventory.Movement]int64)
	}
	m.movements[movement] += pieces
}

func (m *recordingMetrics) RecordRejected(_ context.Context, _ inventory.Module, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, code)
}

func (m *recordingMetrics) RecordLowStock(_ context.Context, item string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lowStock = append(m.lowStock, item)
}
