package inventory

import (
	"context"
	"time"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService handles stock queries, manual adjustments and the activity log
type InventoryService struct {
	scope  TransactionScope
	ledger *StockLedger
	guard  *RequestGuard
	logger *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(scope TransactionScope, ledger *StockLedger, guard *RequestGuard, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{scope: scope, ledger: ledger, guard: guard, logger: logger}
}

// ListStock lists finished-goods stock
func (s *InventoryService) ListStock(ctx context.Context, q StockListQuery) ([]StockItemResponse, int64, error) {
	filter := pageFilter(q.Page, q.PageSize)
	filter.Search = q.Search
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	var out []StockItemResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		items, n, err := repos.StockItemRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total = n
		out = make([]StockItemResponse, 0, len(items))
		for i := range items {
			out = append(out, ToStockItemResponse(&items[i], s.ledger.Units()))
		}
		return nil
	})
	return out, total, err
}

// GetStock returns one finished-goods row
func (s *InventoryService) GetStock(ctx context.Context, id uuid.UUID) (*StockItemResponse, error) {
	var out StockItemResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.StockItemRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		out = ToStockItemResponse(item, s.ledger.Units())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLots lists raw material lots
func (s *InventoryService) ListLots(ctx context.Context, q LotListQuery) ([]LotResponse, int64, error) {
	filter := pageFilter(q.Page, q.PageSize)
	filter.OrderBy = "material"
	filter.OrderDir = "asc"

	var out []LotResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, n, err := repos.LotRepo().FindAll(ctx, q.Material, filter)
		if err != nil {
			return err
		}
		total = n
		out = make([]LotResponse, 0, len(lots))
		for i := range lots {
			out = append(out, ToLotResponse(&lots[i], s.ledger.Units()))
		}
		return nil
	})
	return out, total, err
}

// LowStock lists finished goods at or under their threshold
func (s *InventoryService) LowStock(ctx context.Context) ([]StockItemResponse, error) {
	var out []StockItemResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		items, err := repos.StockItemRepo().FindBelowThreshold(ctx)
		if err != nil {
			return err
		}
		out = make([]StockItemResponse, 0, len(items))
		for i := range items {
			out = append(out, ToStockItemResponse(&items[i], s.ledger.Units()))
		}
		return nil
	})
	return out, err
}

// Deduct manually removes pieces from finished goods or a raw material lot.
// It never clamps: a deduction above stock fails with INSUFFICIENT_STOCK.
func (s *InventoryService) Deduct(ctx context.Context, req DeductRequest) (any, error) {
	return Traced(ctx, inventory.ModuleInventoryAdjustment, "inventory", "deduct", func(ctx context.Context) (any, error) {
		return s.deduct(ctx, req)
	}, telemetry.SpanAttrItem, req.ItemName)
}

func (s *InventoryService) deduct(ctx context.Context, req DeductRequest) (any, error) {
	stockType := inventory.StockType(req.StockType)
	if !stockType.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Unknown stock type %q", req.StockType)
	}
	if req.Pieces <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Pieces to deduct must be positive")
	}
	if stockType == inventory.StockTypeRawMaterials && req.SupplierName == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier is required for raw material deductions")
	}

	var result any
	var mut *Mutation
	err := s.guard.Run(ctx, "deduct", req.RequestKey, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			now := time.Now()
			mut = NewMutation(inventory.ModuleInventoryAdjustment, inventory.ReferenceAdjustment,
				inventory.NewAdjustmentReference(now), req.EmployeeID, now)

			if stockType == inventory.StockTypeFinishedGoods {
				item, err := s.ledger.LockItem(ctx, repos, req.ItemName)
				if err != nil {
					return err
				}
				if _, err := s.ledger.DecreaseItem(ctx, repos, item, req.Pieces, inventory.ShortfallReject, mut); err != nil {
					return err
				}
				result = ToStockItemResponse(item, s.ledger.Units())
				return nil
			}

			lot, err := s.ledger.LockLot(ctx, repos, req.ItemName, req.SupplierName)
			if err != nil {
				return err
			}
			if _, err := s.ledger.DecreaseLot(ctx, repos, lot, req.Pieces, inventory.ShortfallReject, mut); err != nil {
				return err
			}
			result = ToLotResponse(lot, s.ledger.Units())
			return nil
		})
	})
	if err != nil {
		s.ledger.Rejected(ctx, inventory.ModuleInventoryAdjustment, err)
		return nil, err
	}
	s.ledger.Committed(ctx, mut)

	s.logger.Info("Manual stock deduction",
		zap.String("type", req.StockType),
		zap.String("item", req.ItemName),
		zap.Int64("pieces", req.Pieces),
		zap.String("reference", mut.ReferenceID),
		zap.String("employee_id", req.EmployeeID))
	return result, nil
}

// ReceiveStock adds finished goods by name, creating the row at zero when it is new.
// Cases are converted with the item's pieces per unit and added to loose pieces.
func (s *InventoryService) ReceiveStock(ctx context.Context, req ReceiveStockRequest) (*StockItemResponse, error) {
	return Traced(ctx, inventory.ModuleInventoryAdjustment, "inventory", "receive", func(ctx context.Context) (*StockItemResponse, error) {
		return s.addStock(ctx, req.RequestKey, req.EmployeeID, req.Cases, req.Pieces, func(repos TransactionalRepositories) (*inventory.StockItem, error) {
			if req.ItemName == "" {
				return nil, shared.NewDomainError(shared.CodeInvalidInput, "Item name is required")
			}
			return s.ledger.GetOrCreateItem(ctx, repos, req.ItemName, s.ledger.Units().UnitLabel(req.ItemName))
		})
	}, telemetry.SpanAttrItem, req.ItemName)
}

// AddQuantity adds finished goods to an existing row
func (s *InventoryService) AddQuantity(ctx context.Context, id uuid.UUID, req AddQuantityRequest) (*StockItemResponse, error) {
	return s.addStock(ctx, req.RequestKey, req.EmployeeID, req.Cases, req.Pieces, func(repos TransactionalRepositories) (*inventory.StockItem, error) {
		return repos.StockItemRepo().FindByIDForUpdate(ctx, id)
	})
}

func (s *InventoryService) addStock(
	ctx context.Context,
	requestKey, employeeID string,
	cases, pieces int64,
	lock func(TransactionalRepositories) (*inventory.StockItem, error),
) (*StockItemResponse, error) {
	if cases < 0 || pieces < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quantities cannot be negative")
	}
	if cases == 0 && pieces == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quantity to add must be positive")
	}

	var out StockItemResponse
	var mut *Mutation
	var added int64
	err := s.guard.Run(ctx, "add-stock", requestKey, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			item, err := lock(repos)
			if err != nil {
				return err
			}
			added = cases*int64(s.ledger.Units().PiecesPerUnit(item.Name)) + pieces
			now := time.Now()
			mut = NewMutation(inventory.ModuleInventoryAdjustment, inventory.ReferenceAdjustment,
				inventory.NewAdjustmentReference(now), employeeID, now)
			if err := s.ledger.IncreaseItem(ctx, repos, item, added, mut); err != nil {
				return err
			}
			out = ToStockItemResponse(item, s.ledger.Units())
			return nil
		})
	})
	if err != nil {
		s.ledger.Rejected(ctx, inventory.ModuleInventoryAdjustment, err)
		return nil, err
	}
	s.ledger.Committed(ctx, mut)

	s.logger.Info("Manual stock addition",
		zap.String("item", out.Name),
		zap.Int64("pieces", added),
		zap.String("reference", mut.ReferenceID),
		zap.String("employee_id", employeeID))
	return &out, nil
}

// AdjustStock overwrites the piece count of a finished good
func (s *InventoryService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*StockItemResponse, error) {
	var out StockItemResponse
	var mut *Mutation
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.StockItemRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		mut = NewMutation(inventory.ModuleInventoryAdjustment, inventory.ReferenceAdjustment, item.ID.String(), req.EmployeeID, time.Now())
		if err := s.ledger.ResetItem(ctx, repos, item, req.Pieces, mut); err != nil {
			return err
		}
		out = ToStockItemResponse(item, s.ledger.Units())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Committed(ctx, mut)
	return &out, nil
}

// UpdateThreshold sets or clears the low stock alert level
func (s *InventoryService) UpdateThreshold(ctx context.Context, id uuid.UUID, req UpdateThresholdRequest) (*StockItemResponse, error) {
	return s.updateItem(ctx, id, func(item *inventory.StockItem) error {
		return item.SetLowStockThreshold(req.Threshold)
	})
}

// UpdateUnitCost sets the unit cost of a finished good
func (s *InventoryService) UpdateUnitCost(ctx context.Context, id uuid.UUID, req UpdateUnitCostRequest) (*StockItemResponse, error) {
	return s.updateItem(ctx, id, func(item *inventory.StockItem) error {
		return item.SetUnitCost(req.UnitCost.Round(4))
	})
}

func (s *InventoryService) updateItem(ctx context.Context, id uuid.UUID, change func(*inventory.StockItem) error) (*StockItemResponse, error) {
	var out StockItemResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.StockItemRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := change(item); err != nil {
			return err
		}
		if err := repos.StockItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		out = ToStockItemResponse(item, s.ledger.Units())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLedgerEvents queries the activity log, newest first
func (s *InventoryService) ListLedgerEvents(ctx context.Context, q LedgerEventQuery) ([]LedgerEventResponse, int64, error) {
	events, total, err := s.findLedgerEvents(ctx, q.ToFilter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]LedgerEventResponse, 0, len(events))
	for i := range events {
		out = append(out, ToLedgerEventResponse(&events[i]))
	}
	return out, total, nil
}

// ExportLedgerEvents returns every event matching q, newest first, up to limit rows
func (s *InventoryService) ExportLedgerEvents(ctx context.Context, q LedgerEventQuery, limit int) ([]inventory.LedgerEvent, error) {
	filter := q.ToFilter()
	filter.Page = 1
	filter.PageSize = limit
	events, _, err := s.findLedgerEvents(ctx, filter)
	return events, err
}

func (s *InventoryService) findLedgerEvents(ctx context.Context, filter inventory.LedgerEventFilter) ([]inventory.LedgerEvent, int64, error) {
	var events []inventory.LedgerEvent
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		events, total, err = repos.LedgerEventRepo().Find(ctx, filter)
		return err
	})
	return events, total, err
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
