package persistence

import (
	"context"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/domain/trade"
	"github.com/bottling/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order with its lines
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	return r.find(ctx, r.db.WithContext(ctx), id)
}

// FindByIDForUpdate row-locks the order header and loads its lines
func (r *GormSalesOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	return r.find(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormSalesOrderRepository) find(ctx context.Context, query *gorm.DB, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, shared.NewDomainErrorf(shared.CodeNotFound, "Sales order %s not found", id))
	}
	if err := r.db.WithContext(ctx).Where("document_id = ?", model.ID).Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists sales orders with their lines. filter.Search matches number, customer or location.
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SalesOrderModel{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(location) LIKE ?", p, p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.SalesOrderModel
	if err := applyPage(query, filter, SalesOrderSortFields, "created_at").Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]trade.SalesOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// ExistsByOrderNumber checks order number uniqueness
func (r *GormSalesOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	return count > 0, err
}

// Create inserts an order and its lines
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	return r.db.WithContext(ctx).Create(models.SalesOrderModelFromDomain(order)).Error
}

// SaveWithLock updates status and delivery date if the stored version is order.Version-1
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder) error {
	order.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.SalesOrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":        string(order.Status),
			"delivery_date": order.DeliveryDate,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
			"Sales order %s was modified by another transaction", order.OrderNumber)
	}
	return nil
}

// DeleteByIDs removes orders and their lines, failing with NOT_FOUND before
// touching anything when an ID is unknown
func (r *GormSalesOrderRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := r.db.WithContext(ctx)
	var found []uuid.UUID
	if err := db.Model(&models.SalesOrderModel{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return 0, err
	}
	if missing := missingIDs(ids, found); len(missing) > 0 {
		return 0, shared.NewDomainErrorf(shared.CodeNotFound, "Sales order %s not found", missing[0])
	}
	if err := db.Where("document_id IN ?", ids).Delete(&models.SalesOrderItemModel{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("id IN ?", ids).Delete(&models.SalesOrderModel{})
	return result.RowsAffected, result.Error
}

func missingIDs(want, found []uuid.UUID) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Ensure GormSalesOrderRepository implements SalesOrderRepository
var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
