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

// ReturnService records returns to vendor
type ReturnService struct {
	scope  appinventory.TransactionScope
	ledger *appinventory.StockLedger
	guard  *appinventory.RequestGuard
	bom    *inventory.BillOfMaterials
	clock  func() time.Time
	logger *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	scope appinventory.TransactionScope,
	ledger *appinventory.StockLedger,
	guard *appinventory.RequestGuard,
	bom *inventory.BillOfMaterials,
	logger *zap.Logger,
) *ReturnService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReturnService{scope: scope, ledger: ledger, guard: guard, bom: bom, clock: time.Now, logger: logger}
}

// Create records a return and deducts its finished goods. A product with no
// stock row is skipped; a product with too little stock fails the return.
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	return appinventory.Traced(ctx, inventory.ModuleReturnToVendor, "return", "create", func(ctx context.Context) (*ReturnResponse, error) {
		return s.create(ctx, req)
	}, telemetry.SpanAttrOrderNumber, req.RTVNumber)
}

func (s *ReturnService) create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	lines := positiveLines(req.Lines)
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "At least one product quantity must be positive")
	}

	dateOrdered := s.clock()
	if req.DateOrdered != nil {
		dateOrdered = *req.DateOrdered
	}
	rtv, err := trade.NewReturnToVendor(req.RTVNumber, req.CustomerRef, req.Location, req.EmployeeID, dateOrdered)
	if err != nil {
		return nil, err
	}
	rtv.DateReturned = req.DateReturned

	units := s.ledger.Units()
	for _, l := range lines {
		product := canonicalProduct(s.bom, l.Product)
		if !s.bom.IsProduct(product) {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Unknown product %q", strings.TrimSpace(l.Product))
		}
		if _, err := rtv.AddLine(product, l.Cases, units.PiecesPerUnit(product)); err != nil {
			return nil, err
		}
	}

	var mut *appinventory.Mutation
	var skipped []string
	err = s.guard.Run(ctx, "return", req.RequestKey, func() error {
		return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			skipped = nil
			mut = appinventory.NewMutation(inventory.ModuleReturnToVendor, inventory.ReferenceReturnToVendor, rtv.RTVNumber, rtv.EmployeeID, s.clock())

			exists, err := repos.ReturnRepo().ExistsByRTVNumber(ctx, rtv.RTVNumber)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainErrorf(shared.CodeAlreadyExists, "Return %s already exists", rtv.RTVNumber)
			}

			for _, line := range rtv.Lines {
				item, err := s.ledger.LockItem(ctx, repos, line.Product)
				if errors.Is(err, shared.ErrItemNotFound) {
					skipped = append(skipped, line.Product)
					s.logger.Warn("Returned product has no stock row",
						zap.String("rtv_number", rtv.RTVNumber),
						zap.String("product", line.Product))
					continue
				}
				if err != nil {
					return err
				}
				if _, err := s.ledger.DecreaseItem(ctx, repos, item, line.QuantityPieces, inventory.ShortfallReject, mut); err != nil {
					return err
				}
			}
			return repos.ReturnRepo().Create(ctx, rtv)
		})
	})
	if err != nil {
		s.ledger.Rejected(ctx, inventory.ModuleReturnToVendor, err)
		s.logger.Warn("Return to vendor rejected",
			zap.String("rtv_number", rtv.RTVNumber),
			zap.Error(err))
		return nil, err
	}
	s.ledger.Committed(ctx, mut)

	s.logger.Info("Return to vendor recorded",
		zap.String("rtv_number", rtv.RTVNumber),
		zap.Int("lines", len(rtv.Lines)),
		zap.Strings("skipped", skipped))
	resp := ToReturnResponse(rtv)
	resp.SkippedProducts = skipped
	return &resp, nil
}

// Approve approves a pending return
func (s *ReturnService) Approve(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	var rtv *trade.ReturnToVendor
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		rtv, err = repos.ReturnRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := rtv.Approve(); err != nil {
			return err
		}
		return repos.ReturnRepo().SaveWithLock(ctx, rtv)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Return to vendor approved", zap.String("rtv_number", rtv.RTVNumber))
	resp := ToReturnResponse(rtv)
	return &resp, nil
}

// Get returns a return by ID
func (s *ReturnService) Get(ctx context.Context, id uuid.UUID) (*ReturnResponse, error) {
	var rtv *trade.ReturnToVendor
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		rtv, err = repos.ReturnRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToReturnResponse(rtv)
	return &resp, nil
}

// List lists returns newest first
func (s *ReturnService) List(ctx context.Context, search string, page, pageSize int) ([]ReturnResponse, int64, error) {
	filter := pageFilter(page, pageSize)
	filter.Search = strings.TrimSpace(search)

	var returns []trade.ReturnToVendor
	var total int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		returns, total, err = repos.ReturnRepo().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReturnResponse, 0, len(returns))
	for i := range returns {
		out = append(out, ToReturnResponse(&returns[i]))
	}
	return out, total, nil
}
