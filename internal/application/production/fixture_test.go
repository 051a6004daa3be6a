package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appinv "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/cache"
	"github.com/bottling/backend/internal/infrastructure/config"
	"github.com/bottling/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var batchDay = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	scope     *persistence.GormTransactionScope
	ledger    *appinv.StockLedger
	guard     *appinv.RequestGuard
	suppliers *appinv.SupplierService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db.DB))
	t.Cleanup(func() { _ = db.Close() })

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	scope := persistence.NewGormTransactionScope(db.DB)
	ledger := appinv.NewStockLedger(inventory.DefaultUnitConversionTable(), zap.NewNop()).
		WithBillOfMaterials(inventory.DefaultBillOfMaterials())
	return &fixture{
		scope:     scope,
		ledger:    ledger,
		guard:     appinv.NewRequestGuard(store, shared.DefaultIdempotencyConfig(), zap.NewNop()),
		suppliers: appinv.NewSupplierService(scope, ledger, zap.NewNop()),
	}
}

func (f *fixture) offer(t *testing.T, material, supplier, price string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.suppliers.CreateSupplier(ctx, appinv.CreateSupplierRequest{Name: supplier})
	if err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
		require.NoError(t, err)
	}
	_, err = f.suppliers.SaveOffer(ctx, appinv.SaveOfferRequest{
		Material: material, SupplierName: supplier, Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
}

func (f *fixture) stockLot(t *testing.T, material, supplierName string, pieces int64) {
	t.Helper()
	ctx := context.Background()
	mut := appinv.NewMutation(inventory.ModulePurchaseOrder, inventory.ReferencePurchaseOrder, "seed", "tester", time.Time{})
	require.NoError(t, f.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		supplier, err := repos.SupplierRepo().FindByName(ctx, supplierName)
		if err != nil {
			return err
		}
		lot, err := f.ledger.GetOrCreateLot(ctx, repos, material, supplier)
		if err != nil {
			return err
		}
		return f.ledger.IncreaseLot(ctx, repos, lot, pieces, mut)
	}))
}

// stock350 offers and stocks every 350ml material from one supplier
func (f *fixture) stock350(t *testing.T, supplier string, pieces int64) {
	t.Helper()
	f.offer(t, "Plastic Bottle (350ml)", supplier, "2")
	f.offer(t, "Blue Plastic Cap", supplier, "1")
	f.offer(t, "Label", supplier, "2000")
	f.stockLot(t, "Plastic Bottle (350ml)", supplier, pieces)
	f.stockLot(t, "Blue Plastic Cap", supplier, pieces)
	f.stockLot(t, "Label", supplier, pieces)
}

func (f *fixture) itemPieces(t *testing.T, name string) int64 {
	t.Helper()
	var pieces int64
	err := f.scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		item, err := repos.StockItemRepo().FindByName(context.Background(), name)
		if err != nil {
			return err
		}
		pieces = item.Counts.QuantityPieces
		return nil
	})
	if errors.Is(err, shared.ErrItemNotFound) {
		return 0
	}
	require.NoError(t, err)
	return pieces
}

func (f *fixture) lotPieces(t *testing.T, material, supplier string) int64 {
	t.Helper()
	var pieces int64
	require.NoError(t, f.scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		lot, err := repos.LotRepo().FindForUpdate(context.Background(), material, supplier)
		if err != nil {
			return err
		}
		pieces = lot.Counts.QuantityPieces
		return nil
	}))
	return pieces
}

func (f *fixture) ledgerEvents(t *testing.T, reference string) []inventory.LedgerEvent {
	t.Helper()
	var events []inventory.LedgerEvent
	require.NoError(t, f.scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		var err error
		events, _, err = repos.LedgerEventRepo().Find(context.Background(), inventory.LedgerEventFilter{
			ReferenceID: reference, Page: 1, PageSize: 100,
		})
		return err
	}))
	return events
}
