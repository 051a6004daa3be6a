package inventory

import (
	"context"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/production"
	"github.com/bottling/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the ledger repositories.
// All repository operations inside Execute share one database transaction and
// are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to every repository a business event touches.
//
// Only StockLedger writes through StockItemRepo and LotRepo. LedgerEventRepo is append-only.
type TransactionalRepositories interface {
	StockItemRepo() inventory.StockItemRepository
	LotRepo() inventory.RawMaterialLotRepository
	SupplierRepo() inventory.SupplierRepository
	OfferRepo() inventory.SupplierOfferRepository
	LedgerEventRepo() inventory.LedgerEventRepository
	ProductionRepo() production.ProductionRepository
	PurchaseOrderRepo() trade.PurchaseOrderRepository
	ReceiptRepo() trade.PurchaseReceiptRepository
	SalesOrderRepo() trade.SalesOrderRepository
	ReturnRepo() trade.ReturnToVendorRepository
}

// Repositories is a plain set of repositories
type Repositories struct {
	StockItems     inventory.StockItemRepository
	Lots           inventory.RawMaterialLotRepository
	Suppliers      inventory.SupplierRepository
	Offers         inventory.SupplierOfferRepository
	LedgerEvents   inventory.LedgerEventRepository
	Production     production.ProductionRepository
	PurchaseOrders trade.PurchaseOrderRepository
	Receipts       trade.PurchaseReceiptRepository
	SalesOrders    trade.SalesOrderRepository
	Returns        trade.ReturnToVendorRepository
}

// NoOpTransactionScope runs fn against fixed repositories without a transaction.
// Useful for unit tests with mock repositories.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) StockItemRepo() inventory.StockItemRepository   { return s.repos.StockItems }
func (s *NoOpTransactionScope) LotRepo() inventory.RawMaterialLotRepository     { return s.repos.Lots }
func (s *NoOpTransactionScope) SupplierRepo() inventory.SupplierRepository      { return s.repos.Suppliers }
func (s *NoOpTransactionScope) OfferRepo() inventory.SupplierOfferRepository    { return s.repos.Offers }
func (s *NoOpTransactionScope) LedgerEventRepo() inventory.LedgerEventRepository { return s.repos.LedgerEvents }
func (s *NoOpTransactionScope) ProductionRepo() production.ProductionRepository  { return s.repos.Production }
func (s *NoOpTransactionScope) PurchaseOrderRepo() trade.PurchaseOrderRepository { return s.repos.PurchaseOrders }
func (s *NoOpTransactionScope) ReceiptRepo() trade.PurchaseReceiptRepository     { return s.repos.Receipts }
func (s *NoOpTransactionScope) SalesOrderRepo() trade.SalesOrderRepository       { return s.repos.SalesOrders }
func (s *NoOpTransactionScope) ReturnRepo() trade.ReturnToVendorRepository       { return s.repos.Returns }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
