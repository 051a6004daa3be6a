package trade

import (
	"context"
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

// SalesOrderService records sales orders and ships their finished goods
type SalesOrderService struct {
	scope    appinventory.TransactionScope
	ledger   *appinventory.StockLedger
	guard    *appinventory.RequestGuard
	bom      *inventory.BillOfMaterials
	policies inventory.LedgerPolicies
	clock    func() time.Time
	logger   *zap.Logger
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	scope appinventory.TransactionScope,
	ledger *appinventory.StockLedger,
	guard *appinventory.RequestGuard,
	bom *inventory.BillOfMaterials,
	policies inventory.LedgerPolicies,
	logger *zap.Logger,
) *SalesOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesOrderService{
		scope:    scope,
		ledger:   ledger,
		guard:    guard,
		bom:      bom,
		policies: policies,
		clock:    time.Now,
		logger:   logger,
	}
}

// WithClock replaces the clock used for generated order numbers and dates
func (s *SalesOrderService) WithClock(clock func() time.Time) *SalesOrderService {
	s.clock = clock
	return s
}

// Create records a sales order and deducts cases × pieces per unit of every line.
// Lines with zero cases are dropped. Any line without stock fails the whole order.
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	return appinventory.Traced(ctx, inventory.ModuleSalesOrder, "sales_order", "create", func(ctx context.Context) (*SalesOrderResponse, error) {
		return s.create(ctx, req)
	}, telemetry.SpanAttrOrderNumber, req.OrderNumber)
}

func (s *SalesOrderService) create(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	lines := positiveLines(req.Lines)
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "At least one product quantity must be positive")
	}
	if req.Amount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Amount cannot be negative")
	}

	orderDate := s.clock()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	order, err := trade.NewSalesOrder(req.OrderNumber, req.CustomerRef, req.Location, req.EmployeeID, orderDate)
	if err != nil {
		return nil, err
	}
	order.DeliveryDate = req.DeliveryDate
	order.Amount = req.Amount
	units := s.ledger.Units()
	for _, l := range lines {
		product := s.canonicalProduct(l.Product)
		if _, err := order.AddLine(product, l.Cases, units.PiecesPerUnit(product)); err != nil {
			return nil, err
		}
	}

	var mut *appinventory.Mutation
	err = s.guard.Run(ctx, "sales", req.RequestKey, func() error {
		return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			mut = appinventory.NewMutation(inventory.ModuleSalesOrder, inventory.ReferenceSalesOrder, order.OrderNumber, order.EmployeeID, s.clock())

			exists, err := repos.SalesOrderRepo().ExistsByOrderNumber(ctx, order.OrderNumber)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainErrorf(shared.CodeAlreadyExists, "Sales order %s already exists", order.OrderNumber)
			}

			for _, line := range order.Lines {
				item, err := s.ledger.LockItem(ctx, repos, line.Product)
				if err != nil {
					return err
				}
				if _, err := s.ledger.DecreaseItem(ctx, repos, item, line.QuantityPieces, s.policies.SalesShortfall, mut); err != nil {
					return err
				}
			}
			return repos.SalesOrderRepo().Create(ctx, order)
		})
	})
	if err != nil {
		s.ledger.Rejected(ctx, inventory.ModuleSalesOrder, err)
		s.logger.Warn("Sales order rejected",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, err
	}
	s.ledger.Committed(ctx, mut)

	s.logger.Info("Sales order recorded",
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(order.Lines)),
		zap.Int64("pieces", order.TotalPieces()))
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// Get returns a sales order by ID
func (s *SalesOrderService) Get(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrderRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// List lists sales orders newest first
func (s *SalesOrderService) List(ctx context.Context, search string, page, pageSize int) ([]SalesOrderResponse, int64, error) {
	filter := pageFilter(page, pageSize)
	filter.Search = strings.TrimSpace(search)

	var orders []trade.SalesOrder
	var total int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		orders, total, err = repos.SalesOrderRepo().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]SalesOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToSalesOrderResponse(&orders[i]))
	}
	return out, total, nil
}

// UpdateStatus moves an order forward. Stock is not touched.
func (s *SalesOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateSalesOrderStatusRequest) (*SalesOrderResponse, error) {
	status, err := trade.ParseSalesOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.change(ctx, id, "Sales order status changed", func(o *trade.SalesOrder) error {
		return o.TransitionTo(status)
	})
}

// MarkDelivered records the delivery date and moves the order to Delivered
func (s *SalesOrderService) MarkDelivered(ctx context.Context, id uuid.UUID, req MarkDeliveredRequest) (*SalesOrderResponse, error) {
	if req.DeliveryDate == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Delivery date is required")
	}
	return s.change(ctx, id, "Sales order delivered", func(o *trade.SalesOrder) error {
		return o.MarkDelivered(*req.DeliveryDate)
	})
}

func (s *SalesOrderService) change(ctx context.Context, id uuid.UUID, msg string, apply func(*trade.SalesOrder) error) (*SalesOrderResponse, error) {
	var order *trade.SalesOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.SalesOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(order); err != nil {
			return err
		}
		return repos.SalesOrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(msg,
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)))
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// Delete removes sales orders. Shipped stock stays deducted and the
// ledger events remain as the record of the shipment.
func (s *SalesOrderService) Delete(ctx context.Context, req DeleteSalesOrdersRequest) (*DeleteResponse, error) {
	if len(req.IDs) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "At least one id is required")
	}
	var n int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		n, err = repos.SalesOrderRepo().DeleteByIDs(ctx, req.IDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Sales orders deleted", zap.Int64("count", n))
	return &DeleteResponse{Deleted: n}, nil
}

// canonicalProduct returns the BOM spelling of product when it matches case-insensitively
func (s *SalesOrderService) canonicalProduct(product string) string {
	return canonicalProduct(s.bom, product)
}

func canonicalProduct(bom *inventory.BillOfMaterials, product string) string {
	product = strings.TrimSpace(product)
	want := inventory.FoldName(product)
	for _, p := range bom.Products() {
		if inventory.FoldName(p) == want {
			return p
		}
	}
	return product
}

func positiveLines(lines []OrderLineInput) []OrderLineInput {
	out := make([]OrderLineInput, 0, len(lines))
	for _, l := range lines {
		if l.Cases > 0 {
			out = append(out, l)
		}
	}
	return out
}
