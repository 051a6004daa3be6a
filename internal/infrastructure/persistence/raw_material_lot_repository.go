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

// GormRawMaterialLotRepository implements RawMaterialLotRepository using GORM
type GormRawMaterialLotRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialLotRepository creates a new GormRawMaterialLotRepository
func NewGormRawMaterialLotRepository(db *gorm.DB) *GormRawMaterialLotRepository {
	return &GormRawMaterialLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormRawMaterialLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.RawMaterialLot, error) {
	var model models.RawMaterialLotModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, shared.ErrItemNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds and row-locks a lot by ID
func (r *GormRawMaterialLotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.RawMaterialLot, error) {
	var model models.RawMaterialLotModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, shared.ErrItemNotFound)
	}
	return model.ToDomain(), nil
}

// FindForUpdate finds and row-locks the lot of material held from supplierName, ignoring case
func (r *GormRawMaterialLotRepository) FindForUpdate(ctx context.Context, material, supplierName string) (*inventory.RawMaterialLot, error) {
	var model models.RawMaterialLotModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("LOWER(material) = ? AND LOWER(supplier_name) = ?",
			strings.ToLower(strings.TrimSpace(material)),
			strings.ToLower(strings.TrimSpace(supplierName))).
		First(&model).Error; err != nil {
		return nil, notFound(err, shared.NewDomainErrorf(shared.CodeItemNotFound,
			"No %s lot held from %s", material, supplierName))
	}
	return model.ToDomain(), nil
}

// FindAll lists lots, optionally for one material
func (r *GormRawMaterialLotRepository) FindAll(ctx context.Context, material string, filter shared.Filter) ([]inventory.RawMaterialLot, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RawMaterialLotModel{})
	if m := strings.TrimSpace(material); m != "" {
		query = query.Where("LOWER(material) = ?", strings.ToLower(m))
	}
	if filter.Search != "" {
		query = query.Where("LOWER(material) LIKE ? OR LOWER(supplier_name) LIKE ?",
			likePattern(filter.Search), likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RawMaterialLotModel
	if err := applyPage(query, filter, LotSortFields, "material").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	lots := make([]inventory.RawMaterialLot, len(rows))
	for i := range rows {
		lots[i] = *rows[i].ToDomain()
	}
	return lots, total, nil
}

// GetOrCreate returns the locked lot for (material, supplier), inserting it at zero when missing
func (r *GormRawMaterialLotRepository) GetOrCreate(ctx context.Context, material string, supplier *inventory.Supplier) (*inventory.RawMaterialLot, error) {
	lot, err := r.lockBySupplier(ctx, material, supplier.ID)
	if err == nil {
		return lot, nil
	}
	if !isCode(err, shared.CodeItemNotFound) {
		return nil, err
	}

	created, err := inventory.NewRawMaterialLot(material, supplier)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models.RawMaterialLotModelFromDomain(created)).Error; err != nil {
		return nil, err
	}
	return r.lockBySupplier(ctx, material, supplier.ID)
}

func (r *GormRawMaterialLotRepository) lockBySupplier(ctx context.Context, material string, supplierID uuid.UUID) (*inventory.RawMaterialLot, error) {
	var model models.RawMaterialLotModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("LOWER(material) = ? AND supplier_id = ?", strings.ToLower(strings.TrimSpace(material)), supplierID).
		First(&model).Error; err != nil {
		return nil, notFound(err, shared.ErrItemNotFound)
	}
	return model.ToDomain(), nil
}

// SaveWithLock updates counts and conversion if the stored version is lot.Version-1
func (r *GormRawMaterialLotRepository) SaveWithLock(ctx context.Context, lot *inventory.RawMaterialLot) error {
	lot.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.RawMaterialLotModel{}).
		Where("id = ? AND version = ?", lot.ID, lot.Version-1).
		Updates(map[string]interface{}{
			"quantity_grouped":     lot.Counts.QuantityGrouped,
			"quantity_pieces":      lot.Counts.QuantityPieces,
			"receiving_conversion": lot.ReceivingConversion,
			"version":              lot.Version,
			"updated_at":           lot.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
			"%s lot from %s was modified by another transaction", lot.Material, lot.SupplierName)
	}
	return nil
}

// Ensure GormRawMaterialLotRepository implements RawMaterialLotRepository
var _ inventory.RawMaterialLotRepository = (*GormRawMaterialLotRepository)(nil)
