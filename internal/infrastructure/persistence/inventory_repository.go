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

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, shared.ErrItemNotFound)
	}
	return model.ToDomain(), nil
}

// FindByName finds a stock item by product name, ignoring case
func (r *GormStockItemRepository) FindByName(ctx context.Context, name string) (*inventory.StockItem, error) {
	return r.findByName(r.db.WithContext(ctx), name)
}

// FindByNameForUpdate finds and row-locks a stock item by product name
func (r *GormStockItemRepository) FindByNameForUpdate(ctx context.Context, name string) (*inventory.StockItem, error) {
	return r.findByName(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), name)
}

func (r *GormStockItemRepository) findByName(query *gorm.DB, name string) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := query.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&model).Error; err != nil {
		return nil, notFound(err, shared.ErrItemNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds and row-locks a stock item by ID
func (r *GormStockItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, shared.ErrItemNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists stock items. filter.Search matches the name.
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockItemModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockItemModel
	if err := applyPage(query, filter, StockItemSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	items := make([]inventory.StockItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// FindBelowThreshold lists items whose grouped stock is at or under their threshold
func (r *GormStockItemRepository) FindBelowThreshold(ctx context.Context) ([]inventory.StockItem, error) {
	var rows []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("low_stock_threshold IS NOT NULL AND quantity_grouped <= low_stock_threshold").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.StockItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// GetOrCreate returns the locked row for name, inserting it at zero when missing.
// Concurrent creators race on the unique name index; the loser reads the winner's row.
func (r *GormStockItemRepository) GetOrCreate(ctx context.Context, name, unit string) (*inventory.StockItem, error) {
	item, err := r.FindByNameForUpdate(ctx, name)
	if err == nil {
		return item, nil
	}
	if !isCode(err, shared.CodeItemNotFound) {
		return nil, err
	}

	created, err := inventory.NewStockItem(name, unit)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models.StockItemModelFromDomain(created)).Error; err != nil {
		return nil, err
	}
	return r.FindByNameForUpdate(ctx, name)
}

// SaveWithLock updates counts and settings if the stored version is item.Version-1
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	item.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.StockItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"unit":                item.Unit,
			"quantity_grouped":    item.Counts.QuantityGrouped,
			"quantity_pieces":     item.Counts.QuantityPieces,
			"low_stock_threshold": item.LowStockThreshold,
			"unit_cost":           item.UnitCost,
			"version":             item.Version,
			"updated_at":          item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf(shared.CodeConcurrencyConflict, "Stock item %s was modified by another transaction", item.Name)
	}
	return nil
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)
