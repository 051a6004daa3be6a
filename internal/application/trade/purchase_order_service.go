package trade

import (
	"context"
	"errors"
	"strings"
	"time"

	appinventory "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/domain/trade"
	"github.com/bottling/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase orders and their receiving
type PurchaseOrderService struct {
	scope  appinventory.TransactionScope
	ledger *appinventory.StockLedger
	guard  *appinventory.RequestGuard
	bom    *inventory.BillOfMaterials
	clock  func() time.Time
	logger *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	scope appinventory.TransactionScope,
	ledger *appinventory.StockLedger,
	guard *appinventory.RequestGuard,
	bom *inventory.BillOfMaterials,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		scope:  scope,
		ledger: ledger,
		guard:  guard,
		bom:    bom,
		clock:  time.Now,
		logger: logger,
	}
}

// Create creates a purchase order with its lines
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	order, err := trade.NewPurchaseOrder(req.PONumber, req.SupplierName, req.EmployeeID, orderDate)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "At least one item is required")
	}
	for _, l := range req.Lines {
		if _, err := order.AddLine(l.ItemName, l.Quantity, l.UnitPrice); err != nil {
			return nil, err
		}
	}
	order.SetExpectedDate(req.ExpectedDate)

	err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		exists, err := repos.PurchaseOrderRepo().ExistsByPONumber(ctx, order.PONumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainErrorf(shared.CodeAlreadyExists, "Purchase order %s already exists", order.PONumber)
		}
		return repos.PurchaseOrderRepo().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Purchase order created",
		zap.String("po_number", order.PONumber),
		zap.String("supplier", order.SupplierName),
		zap.Int("lines", len(order.Lines)))
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Get returns a purchase order by ID
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// List lists purchase orders newest first
func (s *PurchaseOrderService) List(ctx context.Context, q PurchaseOrderListQuery) ([]PurchaseOrderResponse, int64, error) {
	filter := trade.PurchaseOrderFilter{
		Filter:       pageFilter(q.Page, q.PageSize),
		Status:       trade.PurchaseOrderStatus(q.Status),
		SupplierName: strings.TrimSpace(q.SupplierName),
	}
	filter.Search = strings.TrimSpace(q.Search)

	var orders []trade.PurchaseOrder
	var total int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		orders, total, err = repos.PurchaseOrderRepo().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToPurchaseOrderResponse(&orders[i]))
	}
	return out, total, nil
}

// Update rewrites the supplier, dates and lines of an order nothing has been received against
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	lines := make([]trade.PurchaseOrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, trade.PurchaseOrderLine{ItemName: l.ItemName, OrderedQuantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Revise(req.SupplierName, orderDate, req.ExpectedDate, lines); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Replace(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Purchase order updated",
		zap.String("po_number", order.PONumber),
		zap.Int("lines", len(order.Lines)))
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Delete removes an order nothing has been received against
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	var poNumber string
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.CheckDeletable(); err != nil {
			return err
		}
		poNumber = order.PONumber
		return repos.PurchaseOrderRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Purchase order deleted", zap.String("po_number", poNumber))
	return nil
}

// CountByStatus summarises purchase orders per status
func (s *PurchaseOrderService) CountByStatus(ctx context.Context) (*StatusCountsResponse, error) {
	var counts map[trade.PurchaseOrderStatus]int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		counts, err = repos.PurchaseOrderRepo().CountByStatus(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := &StatusCountsResponse{
		Pending:           counts[trade.PurchaseOrderStatusPending],
		PartiallyReceived: counts[trade.PurchaseOrderStatusPartiallyReceived],
		Completed:         counts[trade.PurchaseOrderStatusCompleted],
	}
	resp.Total = resp.Pending + resp.PartiallyReceived + resp.Completed
	return resp, nil
}

// Receive records quantity against one line of an order in one transaction:
// the line update, the stock increase, its ledger event and the receipt row.
// Raw materials land in the lot held from the order's supplier, everything
// else is counted as finished goods in pieces.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, req ReceiveRequest) (*ReceiveResponse, error) {
	return appinventory.Traced(ctx, inventory.ModulePurchaseOrder, "purchase_order", "receive", func(ctx context.Context) (*ReceiveResponse, error) {
		return s.receive(ctx, orderID, req)
	}, telemetry.SpanAttrPieces, req.Quantity)
}

func (s *PurchaseOrderService) receive(ctx context.Context, orderID uuid.UUID, req ReceiveRequest) (*ReceiveResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Received quantity must be positive")
	}

	var order *trade.PurchaseOrder
	var receipt *trade.PurchaseReceipt
	var mut *appinventory.Mutation
	now := s.clock()

	err := s.guard.Run(ctx, "receive", req.RequestKey, func() error {
		return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			order, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			line, err := order.Receive(req.LineID, req.Quantity)
			if err != nil {
				return err
			}

			employee := firstNonEmpty(req.EmployeeID, order.EmployeeID, inventory.UnknownEmployee)
			mut = appinventory.NewMutation(inventory.ModulePurchaseOrder, inventory.ReferencePurchaseOrder, order.PONumber, employee, now)

			material, isRaw, err := s.rawMaterialName(ctx, repos, line.ItemName)
			if err != nil {
				return err
			}

			var pieces int64
			stockType := inventory.StockTypeFinishedGoods
			if isRaw {
				stockType = inventory.StockTypeRawMaterials
				pieces, err = s.receiveRaw(ctx, repos, order.SupplierName, material, req.Quantity, mut)
			} else {
				pieces = req.Quantity
				err = s.receiveFinished(ctx, repos, line.ItemName, req.Quantity, mut)
			}
			if err != nil {
				return err
			}

			receipt = trade.NewPurchaseReceipt(order, line, req.Quantity, pieces, stockType, employee, now)
			if err := repos.ReceiptRepo().Append(ctx, receipt); err != nil {
				return err
			}
			return repos.PurchaseOrderRepo().SaveWithLock(ctx, order)
		})
	})
	if err != nil {
		s.ledger.Rejected(ctx, inventory.ModulePurchaseOrder, err)
		s.logger.Warn("Purchase receipt rejected",
			zap.String("order_id", orderID.String()),
			zap.String("line_id", req.LineID.String()),
			zap.Int64("quantity", req.Quantity),
			zap.Error(err))
		return nil, err
	}
	s.ledger.Committed(ctx, mut)

	s.logger.Info("Purchase order items received",
		zap.String("po_number", order.PONumber),
		zap.String("item", receipt.ItemName),
		zap.Int64("quantity", receipt.QuantityReceived),
		zap.Int64("pieces", receipt.PiecesReceived),
		zap.String("status", order.Status.String()))

	return &ReceiveResponse{
		Order:   ToPurchaseOrderResponse(order),
		Receipt: ToReceiptResponse(receipt),
	}, nil
}

func (s *PurchaseOrderService) receiveRaw(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	supplierName, material string,
	quantity int64,
	mut *appinventory.Mutation,
) (int64, error) {
	supplier, err := repos.SupplierRepo().FindByName(ctx, supplierName)
	if errors.Is(err, shared.ErrNotFound) {
		supplier, err = inventory.NewSupplier(supplierName)
		if err == nil {
			err = repos.SupplierRepo().Create(ctx, supplier)
		}
	}
	if err != nil {
		return 0, err
	}
	lot, err := s.ledger.GetOrCreateLot(ctx, repos, material, supplier)
	if err != nil {
		return 0, err
	}
	pieces := lot.ReceivedPieces(quantity)
	if err := s.ledger.IncreaseLot(ctx, repos, lot, pieces, mut); err != nil {
		return 0, err
	}
	return pieces, nil
}

func (s *PurchaseOrderService) receiveFinished(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	itemName string,
	quantity int64,
	mut *appinventory.Mutation,
) error {
	item, err := s.ledger.GetOrCreateItem(ctx, repos, itemName, inventory.UnitLabelPcs)
	if err != nil {
		return err
	}
	return s.ledger.IncreaseItem(ctx, repos, item, quantity, mut)
}

// rawMaterialName matches itemName case-insensitively against the BOM materials
// and every material a supplier offers, returning the catalogue spelling.
func (s *PurchaseOrderService) rawMaterialName(ctx context.Context, repos appinventory.TransactionalRepositories, itemName string) (string, bool, error) {
	want := inventory.FoldName(itemName)
	for _, m := range s.bom.RawMaterials() {
		if inventory.FoldName(m) == want {
			return m, true, nil
		}
	}
	offers, err := repos.OfferRepo().FindAll(ctx)
	if err != nil {
		return "", false, err
	}
	for _, o := range offers {
		if inventory.FoldName(o.Material) == want {
			return o.Material, true, nil
		}
	}
	return "", false, nil
}

// ListReceipts lists the receiving history newest first
func (s *PurchaseOrderService) ListReceipts(ctx context.Context, q ReceiptListQuery) ([]ReceiptResponse, int64, error) {
	var receipts []trade.PurchaseReceipt
	var total int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		receipts, total, err = repos.ReceiptRepo().FindAll(ctx, q.OrderID, pageFilter(q.Page, q.PageSize))
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, ToReceiptResponse(&receipts[i]))
	}
	return out, total, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func pageFilter(page, pageSize int) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return f
}
