package persistence

import (
	"context"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerEventRepository implements LedgerEventRepository using GORM.
// Rows are only ever inserted.
type GormLedgerEventRepository struct {
	db *gorm.DB
}

// NewGormLedgerEventRepository creates a new GormLedgerEventRepository
func NewGormLedgerEventRepository(db *gorm.DB) *GormLedgerEventRepository {
	return &GormLedgerEventRepository{db: db}
}

// Append stores a new event
func (r *GormLedgerEventRepository) Append(ctx context.Context, event *inventory.LedgerEvent) error {
	return r.db.WithContext(ctx).Create(models.LedgerEventModelFromDomain(event)).Error
}

// Find lists events newest first
func (r *GormLedgerEventRepository) Find(ctx context.Context, filter inventory.LedgerEventFilter) ([]inventory.LedgerEvent, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LedgerEventModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("processed_at DESC").Order("id DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.LedgerEventModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	events := make([]inventory.LedgerEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, total, nil
}

// Count counts events matching filter
func (r *GormLedgerEventRepository) Count(ctx context.Context, filter inventory.LedgerEventFilter) (int64, error) {
	var total int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.LedgerEventModel{}), filter).Count(&total).Error
	return total, err
}

func (r *GormLedgerEventRepository) applyFilter(query *gorm.DB, filter inventory.LedgerEventFilter) *gorm.DB {
	if filter.Module != "" {
		query = query.Where("module = ?", string(filter.Module))
	}
	if filter.StockType != "" {
		query = query.Where("stock_type = ?", string(filter.StockType))
	}
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.ReferenceType != "" {
		query = query.Where("reference_type = ?", filter.ReferenceType)
	}
	if filter.ReferenceID != "" {
		query = query.Where("reference_id = ?", filter.ReferenceID)
	}
	if filter.Range.From != nil {
		query = query.Where("processed_at >= ?", *filter.Range.From)
	}
	if filter.Range.To != nil {
		query = query.Where("processed_at <= ?", *filter.Range.To)
	}
	return query
}

// Ensure GormLedgerEventRepository implements LedgerEventRepository
var _ inventory.LedgerEventRepository = (*GormLedgerEventRepository)(nil)
