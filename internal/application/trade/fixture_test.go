package trade_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appinv "github.com/bottling/backend/internal/application/inventory"
	apptrade "github.com/bottling/backend/internal/application/trade"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/cache"
	"github.com/bottling/backend/internal/infrastructure/config"
	"github.com/bottling/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	scope  *persistence.GormTransactionScope
	ledger *appinv.StockLedger
	guard  *appinv.RequestGuard
	bom    *inventory.BillOfMaterials
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db.DB))
	t.Cleanup(func() { _ = db.Close() })

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	bom := inventory.DefaultBillOfMaterials()
	return &fixture{
		scope:  persistence.NewGormTransactionScope(db.DB),
		ledger: appinv.NewStockLedger(inventory.DefaultUnitConversionTable(), zap.NewNop()).WithBillOfMaterials(bom),
		guard:  appinv.NewRequestGuard(store, shared.DefaultIdempotencyConfig(), zap.NewNop()),
		bom:    bom,
	}
}

func (f *fixture) purchaseOrders() *apptrade.PurchaseOrderService {
	return apptrade.NewPurchaseOrderService(f.scope, f.ledger, f.guard, f.bom, nil)
}

func (f *fixture) salesOrders(policies inventory.LedgerPolicies) *apptrade.SalesOrderService {
	return apptrade.NewSalesOrderService(f.scope, f.ledger, f.guard, f.bom, policies, nil)
}

func (f *fixture) returns() *apptrade.ReturnService {
	return apptrade.NewReturnService(f.scope, f.ledger, f.guard, f.bom, nil)
}

func (f *fixture) seedItem(t *testing.T, name string, pieces int64) {
	t.Helper()
	ctx := context.Background()
	mut := appinv.NewMutation(inventory.ModuleProductionOutput, inventory.ReferenceProductionBatch, "seed", "tester", time.Time{})
	require.NoError(t, f.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		item, err := f.ledger.GetOrCreateItem(ctx, repos, name, inventory.UnitLabelCase)
		if err != nil {
			return err
		}
		return f.ledger.IncreaseItem(ctx, repos, item, pieces, mut)
	}))
}

func (f *fixture) item(t *testing.T, name string) *inventory.StockItem {
	t.Helper()
	var item *inventory.StockItem
	err := f.scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		var err error
		item, err = repos.StockItemRepo().FindByName(context.Background(), name)
		return err
	})
	if errors.Is(err, shared.ErrItemNotFound) {
		return nil
	}
	require.NoError(t, err)
	return item
}

func (f *fixture) pieces(t *testing.T, name string) int64 {
	t.Helper()
	if item := f.item(t, name); item != nil {
		return item.Counts.QuantityPieces
	}
	return 0
}

func (f *fixture) lot(t *testing.T, material, supplier string) *inventory.RawMaterialLot {
	t.Helper()
	var lot *inventory.RawMaterialLot
	require.NoError(t, f.scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		var err error
		lot, err = repos.LotRepo().FindForUpdate(context.Background(), material, supplier)
		return err
	}))
	return lot
}

func (f *fixture) ledgerEvents(t *testing.T, filter inventory.LedgerEventFilter) []inventory.LedgerEvent {
	t.Helper()
	filter.Page, filter.PageSize = 1, 100
	var events []inventory.LedgerEvent
	require.NoError(t, f.scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		var err error
		events, _, err = repos.LedgerEventRepo().Find(context.Background(), filter)
		return err
	}))
	return events
}
