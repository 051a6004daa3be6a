package persistence

import (
	"context"
	"errors"
	"testing"

	appinv "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits stock and ledger together", func(t *testing.T) {
		db := newTestDB(t)
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			item, err := repos.StockItemRepo().GetOrCreate(ctx, "2L", "")
			if err != nil {
				return err
			}
			if err := item.Increase(6, 6); err != nil {
				return err
			}
			if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
			ev, err := inventory.NewLedgerEvent(inventory.LedgerEventParams{
				Module: inventory.ModuleProductionOutput, StockType: inventory.StockTypeFinishedGoods,
				ItemName: "2L", Movement: inventory.MovementIncrease, Quantity: 6, BalanceAfter: 6,
			})
			if err != nil {
				return err
			}
			return repos.LedgerEventRepo().Append(ctx, ev)
		})
		require.NoError(t, err)

		item, err := NewGormStockItemRepository(db).FindByName(ctx, "2L")
		require.NoError(t, err)
		assert.Equal(t, int64(6), item.Counts.QuantityPieces)
		n, err := NewGormLedgerEventRepository(db).Count(ctx, inventory.LedgerEventFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("rolls back every write on error", func(t *testing.T) {
		db := newTestDB(t)
		scope := NewGormTransactionScope(db)
		boom := errors.New("boom")

		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			item, err := repos.StockItemRepo().GetOrCreate(ctx, "1L", "")
			if err != nil {
				return err
			}
			if err := item.Increase(10, 1); err != nil {
				return err
			}
			if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = NewGormStockItemRepository(db).FindByName(ctx, "1L")
		assert.ErrorIs(t, err, shared.ErrItemNotFound)
	})

	t.Run("hands out every repository", func(t *testing.T) {
		scope := NewGormTransactionScope(newTestDB(t))
		err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
			assert.NotNil(t, repos.LotRepo())
			assert.NotNil(t, repos.SupplierRepo())
			assert.NotNil(t, repos.OfferRepo())
			assert.NotNil(t, repos.ProductionRepo())
			assert.NotNil(t, repos.PurchaseOrderRepo())
			assert.NotNil(t, repos.ReceiptRepo())
			assert.NotNil(t, repos.SalesOrderRepo())
			assert.NotNil(t, repos.ReturnRepo())
			return nil
		})
		require.NoError(t, err)
	})
}
