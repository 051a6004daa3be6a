package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, shared.ErrNotFound)
	}
	return model.ToDomain(), nil
}

// FindByName finds a supplier by name, ignoring case
func (r *GormSupplierRepository) FindByName(ctx context.Context, name string) (*inventory.Supplier, error) {
	var model models.SupplierModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error; err != nil {
		return nil, notFound(err, shared.NewDomainErrorf(shared.CodeNotFound, "Supplier %s not found", name))
	}
	return model.ToDomain(), nil
}

// FindAll lists suppliers
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Supplier, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SupplierModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.SupplierModel
	if err := applyPage(query, filter, SupplierSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	suppliers := make([]inventory.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, total, nil
}

// Create inserts a supplier
func (r *GormSupplierRepository) Create(ctx context.Context, supplier *inventory.Supplier) error {
	return r.db.WithContext(ctx).Create(models.SupplierModelFromDomain(supplier)).Error
}

// GormSupplierOfferRepository implements SupplierOfferRepository using GORM
type GormSupplierOfferRepository struct {
	db *gorm.DB
}

// NewGormSupplierOfferRepository creates a new GormSupplierOfferRepository
func NewGormSupplierOfferRepository(db *gorm.DB) *GormSupplierOfferRepository {
	return &GormSupplierOfferRepository{db: db}
}

// FindByMaterial lists every offer for one material
func (r *GormSupplierOfferRepository) FindByMaterial(ctx context.Context, material string) ([]inventory.SupplierOffer, error) {
	return r.find(r.db.WithContext(ctx).Where("LOWER(material) = ?", strings.ToLower(strings.TrimSpace(material))))
}

// FindByMaterials lists offers for several materials at once
func (r *GormSupplierOfferRepository) FindByMaterials(ctx context.Context, materials []string) ([]inventory.SupplierOffer, error) {
	if len(materials) == 0 {
		return []inventory.SupplierOffer{}, nil
	}
	lowered := make([]string, len(materials))
	for i, m := range materials {
		lowered[i] = strings.ToLower(strings.TrimSpace(m))
	}
	return r.find(r.db.WithContext(ctx).Where("LOWER(material) IN ?", lowered))
}

// FindAll lists every offer
func (r *GormSupplierOfferRepository) FindAll(ctx context.Context) ([]inventory.SupplierOffer, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *GormSupplierOfferRepository) find(query *gorm.DB) ([]inventory.SupplierOffer, error) {
	var rows []models.SupplierOfferModel
	if err := query.Order("material ASC, price ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	offers := make([]inventory.SupplierOffer, len(rows))
	for i := range rows {
		offers[i] = rows[i].ToDomain()
	}
	return offers, nil
}

// Save creates or replaces the offer for (material, supplier)
func (r *GormSupplierOfferRepository) Save(ctx context.Context, offer *inventory.SupplierOffer) error {
	offer.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "material"}, {Name: "supplier_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"supplier_name", "price", "updated_at"}),
		}).
		Create(models.SupplierOfferModelFromDomain(offer)).Error
}

// Ensure the GORM repositories implement their domain interfaces
var (
	_ inventory.SupplierRepository      = (*GormSupplierRepository)(nil)
	_ inventory.SupplierOfferRepository = (*GormSupplierOfferRepository)(nil)
)
