package production

import (
	"context"
	"errors"
	"strings"
	"time"

	appinventory "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/production"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductionService records production batches and deducts their BOM materials
type ProductionService struct {
	scope    appinventory.TransactionScope
	ledger   *appinventory.StockLedger
	guard    *appinventory.RequestGuard
	bom      *inventory.BillOfMaterials
	resolver inventory.SupplierResolver
	costing  *production.Costing
	policies inventory.LedgerPolicies
	clock    func() time.Time
	logger   *zap.Logger
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	scope appinventory.TransactionScope,
	ledger *appinventory.StockLedger,
	guard *appinventory.RequestGuard,
	bom *inventory.BillOfMaterials,
	policies inventory.LedgerPolicies,
	logger *zap.Logger,
) *ProductionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionService{
		scope:    scope,
		ledger:   ledger,
		guard:    guard,
		bom:      bom,
		resolver: inventory.NewSupplierResolver(),
		costing:  production.NewCosting(bom, ledger.Units()),
		policies: policies,
		clock:    time.Now,
		logger:   logger,
	}
}

// WithClock replaces the clock used for production dates and generated batch numbers
func (s *ProductionService) WithClock(clock func() time.Time) *ProductionService {
	s.clock = clock
	return s
}

// Record records a batch in one transaction: each output row, the finished-goods
// increase and one raw material deduction per BOM material.
func (s *ProductionService) Record(ctx context.Context, req RecordProductionRequest) (*BatchResponse, error) {
	return appinventory.Traced(ctx, inventory.ModuleProductionOutput, "production", "record", func(ctx context.Context) (*BatchResponse, error) {
		return s.record(ctx, req)
	}, telemetry.SpanAttrBatchNumber, req.BatchNumber)
}

func (s *ProductionService) record(ctx context.Context, req RecordProductionRequest) (*BatchResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	now := s.clock()
	batchNumber := strings.TrimSpace(req.BatchNumber)
	if batchNumber == "" {
		batchNumber = production.GenerateBatchNumber(now)
	}

	var batch *production.ProductionBatch
	var shortfalls []ShortfallResponse
	var mut *appinventory.Mutation

	err := s.guard.Run(ctx, "production", req.RequestKey, func() error {
		return s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			batch, err = production.NewProductionBatch(batchNumber, req.EmployeeID, now)
			if err != nil {
				return err
			}
			shortfalls = nil
			mut = appinventory.NewMutation(inventory.ModuleProductionOutput, inventory.ReferenceProductionBatch, batch.BatchNumber, req.EmployeeID, now)

			exists, err := repos.ProductionRepo().ExistsBatch(ctx, batch.BatchNumber)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainErrorf(shared.CodeBatchExists, "Batch %s already exists", batch.BatchNumber)
			}

			offers, err := repos.OfferRepo().FindByMaterials(ctx, s.materialsFor(req.Lines))
			if err != nil {
				return err
			}

			for _, line := range req.Lines {
				sf, err := s.recordLine(ctx, repos, batch, line, offers, mut)
				if err != nil {
					return err
				}
				shortfalls = append(shortfalls, sf...)
			}
			return nil
		})
	})
	if err != nil {
		s.ledger.Rejected(ctx, inventory.ModuleProductionOutput, err)
		s.logger.Warn("Production batch rejected",
			zap.String("batch_number", batchNumber),
			zap.Error(err))
		return nil, err
	}
	s.ledger.Committed(ctx, mut)

	s.logger.Info("Production batch recorded",
		zap.String("batch_number", batch.BatchNumber),
		zap.Int("outputs", len(batch.Outputs)),
		zap.Int("ledger_events", len(mut.Entries())),
		zap.String("employee_id", req.EmployeeID))

	resp := &BatchResponse{
		BatchNumber:    batch.BatchNumber,
		EmployeeID:     batch.EmployeeID,
		ProductionDate: batch.ProductionDate,
		Shortfalls:     shortfalls,
	}
	for i := range batch.Outputs {
		resp.Outputs = append(resp.Outputs, toOutputResponse(&batch.Outputs[i], s.ledger.Units().UnitLabel(batch.Outputs[i].Product)))
	}
	return resp, nil
}

func (s *ProductionService) recordLine(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	batch *production.ProductionBatch,
	line ProductionLineRequest,
	offers []inventory.SupplierOffer,
	mut *appinventory.Mutation,
) ([]ShortfallResponse, error) {
	units := s.ledger.Units()
	product := strings.TrimSpace(line.Product)

	output, err := batch.AddOutput(product, line.QuantityPieces, units.PiecesPerUnit(product))
	if err != nil {
		return nil, err
	}

	item, err := s.ledger.GetOrCreateItem(ctx, repos, product, units.UnitLabel(product))
	if err != nil {
		return nil, err
	}
	if err := s.ledger.IncreaseItem(ctx, repos, item, line.QuantityPieces, mut); err != nil {
		return nil, err
	}

	var shortfalls []ShortfallResponse
	materials, _ := s.bom.MaterialsFor(product)
	for _, material := range materials {
		supplier, err := s.resolver.Resolve(material, overrideFor(line.SupplierOverrides, material), offers)
		if err != nil {
			if skipErr := s.missingMaterial(output, material, "", err); skipErr != nil {
				return nil, skipErr
			}
			continue
		}

		lot, err := s.ledger.LockLot(ctx, repos, material, supplier)
		if err != nil {
			if !errors.Is(err, shared.ErrItemNotFound) {
				return nil, err
			}
			if skipErr := s.missingMaterial(output, material, supplier, err); skipErr != nil {
				return nil, skipErr
			}
			continue
		}

		// one material unit per produced piece; grouped counts follow from pieces
		shortfall, err := s.ledger.DecreaseLot(ctx, repos, lot, line.QuantityPieces, s.policies.RawShortfall, mut)
		if err != nil {
			return nil, err
		}
		output.SelectSupplier(material, lot.SupplierName)
		if shortfall > 0 {
			shortfalls = append(shortfalls, ShortfallResponse{
				Product:  product,
				Material: material,
				Supplier: lot.SupplierName,
				Pieces:   shortfall,
			})
		}
	}

	if err := repos.ProductionRepo().CreateOutput(ctx, output); err != nil {
		return nil, err
	}
	return shortfalls, nil
}

// missingMaterial applies the missing material policy. It returns nil when the material is skipped.
func (s *ProductionService) missingMaterial(output *production.ProductionOutput, material, supplier string, cause error) error {
	if s.policies.MissingMaterial == inventory.MissingMaterialFail {
		return cause
	}
	output.SkipMaterial(material)
	s.logger.Warn("Raw material skipped",
		zap.String("batch_number", output.BatchNumber),
		zap.String("product", output.Product),
		zap.String("material", material),
		zap.String("supplier", supplier),
		zap.Error(cause))
	return nil
}

func (s *ProductionService) validate(req RecordProductionRequest) error {
	if len(req.Lines) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "At least one production line is required")
	}
	for _, line := range req.Lines {
		if !s.bom.IsProduct(line.Product) {
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "Unknown product %q", line.Product)
		}
		if line.QuantityPieces <= 0 {
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "Produced quantity for %s must be positive", line.Product)
		}
	}
	return nil
}

func (s *ProductionService) materialsFor(lines []ProductionLineRequest) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range lines {
		mats, _ := s.bom.MaterialsFor(line.Product)
		for _, m := range mats {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				out = append(out, m)
			}
		}
	}
	return out
}

func overrideFor(overrides map[string]string, material string) string {
	if v, ok := overrides[material]; ok {
		return v
	}
	want := inventory.FoldName(material)
	for k, v := range overrides {
		if inventory.FoldName(k) == want {
			return v
		}
	}
	return ""
}

// ListBatches lists production outputs newest first
func (s *ProductionService) ListBatches(ctx context.Context, q ProductionQuery) ([]OutputResponse, int64, error) {
	filter := production.ProductionFilter{Filter: shared.DefaultFilter(), Product: q.Product}
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	filter.Range.From = q.From
	if q.To != nil {
		end := q.To.Add(24*time.Hour - time.Nanosecond)
		filter.Range.To = &end
	}

	var outputs []production.ProductionOutput
	var total int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		outputs, total, err = repos.ProductionRepo().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]OutputResponse, 0, len(outputs))
	for i := range outputs {
		out = append(out, toOutputResponse(&outputs[i], s.ledger.Units().UnitLabel(outputs[i].Product)))
	}
	return out, total, nil
}

// BatchCosting prices the materials of a recorded batch
func (s *ProductionService) BatchCosting(ctx context.Context, batchNumber string) (*production.BatchCosting, error) {
	var outputs []production.ProductionOutput
	var offers []inventory.SupplierOffer
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		outputs, err = repos.ProductionRepo().FindByBatch(ctx, batchNumber)
		if err != nil {
			return err
		}
		if len(outputs) == 0 {
			return shared.NewDomainErrorf(shared.CodeNotFound, "Batch %s not found", batchNumber)
		}
		offers, err = repos.OfferRepo().FindByMaterials(ctx, s.bom.RawMaterials())
		return err
	})
	if err != nil {
		return nil, err
	}
	costing := s.costing.CostBatch(production.BatchFromOutputs(outputs), offers)
	return &costing, nil
}

// MaterialOptions lists the suppliers each BOM material of product can be drawn from
func (s *ProductionService) MaterialOptions(ctx context.Context, product string) ([]production.MaterialOption, error) {
	materials, ok := s.bom.MaterialsFor(product)
	if !ok {
		return nil, shared.NewDomainErrorf(shared.CodeNotFound, "Product %s has no bill of materials", product)
	}
	var offers []inventory.SupplierOffer
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		offers, err = repos.OfferRepo().FindByMaterials(ctx, materials)
		return err
	})
	if err != nil {
		return nil, err
	}
	options, _ := s.costing.MaterialOptions(product, offers)
	return options, nil
}

// DeleteBatchesBetween removes production records dated within the range.
// Stock and ledger events are left as they are.
func (s *ProductionService) DeleteBatchesBetween(ctx context.Context, req DeleteRangeRequest) (int64, error) {
	to := req.To.Add(24*time.Hour - time.Nanosecond)
	if to.Before(req.From) {
		return 0, shared.NewDomainError(shared.CodeInvalidInput, "Range start must not be after its end")
	}
	var deleted int64
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		deleted, err = repos.ProductionRepo().DeleteBetween(ctx, req.From, to)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("Production records deleted",
		zap.Time("from", req.From),
		zap.Time("to", to),
		zap.Int64("deleted", deleted))
	return deleted, nil
}
