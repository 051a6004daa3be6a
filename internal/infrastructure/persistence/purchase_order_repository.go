package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/domain/trade"
	"github.com/bottling/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its lines
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.find(ctx, r.db.WithContext(ctx), id)
}

// FindByIDForUpdate row-locks the order header and loads its lines
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.find(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPurchaseOrderRepository) find(ctx context.Context, query *gorm.DB, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, shared.NewDomainErrorf(shared.CodeNotFound, "Purchase order %s not found", id))
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", model.ID).
		Order("item_name ASC").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists purchase orders with their lines
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter trade.PurchaseOrderFilter) ([]trade.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if s := strings.TrimSpace(filter.SupplierName); s != "" {
		query = query.Where("LOWER(supplier_name) = ?", strings.ToLower(s))
	}
	if filter.Search != "" {
		query = query.Where("LOWER(po_number) LIKE ? OR LOWER(supplier_name) LIKE ?",
			likePattern(filter.Search), likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PurchaseOrderModel
	if err := applyPage(query, filter.Filter, PurchaseOrderSortFields, "created_at").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("item_name ASC") }).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]trade.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// ExistsByPONumber checks PO number uniqueness
func (r *GormPurchaseOrderRepository) ExistsByPONumber(ctx context.Context, poNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Where("po_number = ?", poNumber).
		Count(&count).Error
	return count > 0, err
}

// Create inserts an order and its lines
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(models.PurchaseOrderModelFromDomain(order)).Error
}

// SaveWithLock updates the header if the stored version is order.Version-1, then the received quantities
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *trade.PurchaseOrder) error {
	order.UpdatedAt = time.Now()
	db := r.db.WithContext(ctx)
	result := db.Model(&models.PurchaseOrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":        string(order.Status),
			"amount":        order.Amount,
			"expected_date": order.ExpectedDate,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
			"Purchase order %s was modified by another transaction", order.PONumber)
	}

	for _, line := range order.Lines {
		if err := db.Model(&models.PurchaseOrderItemModel{}).
			Where("id = ?", line.ID).
			Update("received_quantity", line.ReceivedQuantity).Error; err != nil {
			return err
		}
	}
	return nil
}

// Replace rewrites the header if the stored version is order.Version-1 and swaps the lines
func (r *GormPurchaseOrderRepository) Replace(ctx context.Context, order *trade.PurchaseOrder) error {
	order.UpdatedAt = time.Now()
	db := r.db.WithContext(ctx)
	result := db.Model(&models.PurchaseOrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"supplier_name": order.SupplierName,
			"order_date":    order.OrderDate,
			"expected_date": order.ExpectedDate,
			"status":        string(order.Status),
			"amount":        order.Amount,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
			"Purchase order %s was modified by another transaction", order.PONumber)
	}

	if err := db.Where("order_id = ?", order.ID).Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
		return err
	}
	items := make([]models.PurchaseOrderItemModel, len(order.Lines))
	for i := range order.Lines {
		items[i] = models.PurchaseOrderItemModelFromDomain(&order.Lines[i])
	}
	return db.Create(&items).Error
}

// Delete removes an order and its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&models.PurchaseOrderModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf(shared.CodeNotFound, "Purchase order %s not found", id)
	}
	return nil
}

// CountByStatus counts orders per status
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context) (map[trade.PurchaseOrderStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[trade.PurchaseOrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[trade.PurchaseOrderStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// GormPurchaseReceiptRepository implements PurchaseReceiptRepository using GORM
type GormPurchaseReceiptRepository struct {
	db *gorm.DB
}

// NewGormPurchaseReceiptRepository creates a new GormPurchaseReceiptRepository
func NewGormPurchaseReceiptRepository(db *gorm.DB) *GormPurchaseReceiptRepository {
	return &GormPurchaseReceiptRepository{db: db}
}

// Append stores a receipt
func (r *GormPurchaseReceiptRepository) Append(ctx context.Context, receipt *trade.PurchaseReceipt) error {
	return r.db.WithContext(ctx).Create(models.PurchaseReceiptModelFromDomain(receipt)).Error
}

// FindAll lists receipts newest first, optionally for one order
func (r *GormPurchaseReceiptRepository) FindAll(ctx context.Context, orderID *uuid.UUID, filter shared.Filter) ([]trade.PurchaseReceipt, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseReceiptModel{})
	if orderID != nil {
		query = query.Where("purchase_order_id = ?", *orderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("received_date DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	var rows []models.PurchaseReceiptModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	receipts := make([]trade.PurchaseReceipt, len(rows))
	for i := range rows {
		receipts[i] = rows[i].ToDomain()
	}
	return receipts, total, nil
}

// Ensure the GORM repositories implement their domain interfaces
var (
	_ trade.PurchaseOrderRepository   = (*GormPurchaseOrderRepository)(nil)
	_ trade.PurchaseReceiptRepository = (*GormPurchaseReceiptRepository)(nil)
)
