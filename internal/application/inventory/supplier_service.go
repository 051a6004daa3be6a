package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService manages suppliers and their material offers
type SupplierService struct {
	scope    TransactionScope
	ledger   *StockLedger
	resolver inventory.SupplierResolver
	logger   *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(scope TransactionScope, ledger *StockLedger, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{
		scope:    scope,
		ledger:   ledger,
		resolver: inventory.NewSupplierResolver(),
		logger:   logger,
	}
}

// CreateSupplier registers a supplier with a unique name
func (s *SupplierService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := inventory.NewSupplier(req.Name)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.SupplierRepo().FindByName(ctx, supplier.Name)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainErrorf(shared.CodeAlreadyExists, "Supplier %s already exists", supplier.Name)
		}
		return repos.SupplierRepo().Create(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Supplier created", zap.String("supplier", supplier.Name))
	return &SupplierResponse{ID: supplier.ID, Name: supplier.Name, CreatedAt: supplier.CreatedAt}, nil
}

// ListSuppliers lists suppliers by name
func (s *SupplierService) ListSuppliers(ctx context.Context, page, pageSize int) ([]SupplierResponse, int64, error) {
	filter := pageFilter(page, pageSize)
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	var out []SupplierResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		suppliers, n, err := repos.SupplierRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total = n
		out = make([]SupplierResponse, 0, len(suppliers))
		for _, sup := range suppliers {
			out = append(out, SupplierResponse{ID: sup.ID, Name: sup.Name, CreatedAt: sup.CreatedAt})
		}
		return nil
	})
	return out, total, err
}

// SaveOffer creates or replaces the offer of a supplier for a material.
// When a receiving conversion is given, the supplier's lot is configured with it.
func (s *SupplierService) SaveOffer(ctx context.Context, req SaveOfferRequest) (*OfferResponse, error) {
	var out OfferResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, err := repos.SupplierRepo().FindByName(ctx, strings.TrimSpace(req.SupplierName))
		if err != nil {
			return err
		}
		offer, err := inventory.NewSupplierOffer(s.ledger.CanonicalName(req.Material), supplier, req.Price)
		if err != nil {
			return err
		}
		if err := repos.OfferRepo().Save(ctx, offer); err != nil {
			return err
		}
		if req.ReceivingConversion > 0 {
			if _, err := s.ledger.ConfigureLot(ctx, repos, offer.Material, supplier, req.ReceivingConversion); err != nil {
				return err
			}
		}
		out = ToOfferResponse(*offer, s.ledger.Units())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOffers lists offers. For a single material they come back in resolution order.
func (s *SupplierService) ListOffers(ctx context.Context, material string) ([]OfferResponse, error) {
	material = strings.TrimSpace(material)
	var offers []inventory.SupplierOffer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if material == "" {
			offers, err = repos.OfferRepo().FindAll(ctx)
			return err
		}
		offers, err = repos.OfferRepo().FindByMaterial(ctx, material)
		return err
	})
	if err != nil {
		return nil, err
	}
	if material != "" {
		offers = s.resolver.Rank(material, offers)
	}
	out := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, ToOfferResponse(o, s.ledger.Units()))
	}
	return out, nil
}
