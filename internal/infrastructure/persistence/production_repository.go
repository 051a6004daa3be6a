package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/production"
	"github.com/bottling/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductionRepository implements ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// ExistsBatch checks whether a batch number is already on record
func (r *GormProductionRepository) ExistsBatch(ctx context.Context, batchNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductionOutputModel{}).
		Where("batch_number = ?", batchNumber).
		Count(&count).Error
	return count > 0, err
}

// CreateOutput stores one production output
func (r *GormProductionRepository) CreateOutput(ctx context.Context, output *production.ProductionOutput) error {
	return r.db.WithContext(ctx).Create(models.ProductionOutputModelFromDomain(output)).Error
}

// FindByBatch lists the outputs of one batch in insertion order
func (r *GormProductionRepository) FindByBatch(ctx context.Context, batchNumber string) ([]production.ProductionOutput, error) {
	var rows []models.ProductionOutputModel
	if err := r.db.WithContext(ctx).
		Where("batch_number = ?", batchNumber).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOutputs(rows), nil
}

// FindAll lists outputs newest first
func (r *GormProductionRepository) FindAll(ctx context.Context, filter production.ProductionFilter) ([]production.ProductionOutput, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductionOutputModel{})
	if p := strings.TrimSpace(filter.Product); p != "" {
		query = query.Where("LOWER(product_name) = ?", strings.ToLower(p))
	}
	if filter.Search != "" {
		query = query.Where("LOWER(batch_number) LIKE ?", likePattern(filter.Search))
	}
	if filter.Range.From != nil {
		query = query.Where("production_date >= ?", *filter.Range.From)
	}
	if filter.Range.To != nil {
		query = query.Where("production_date <= ?", *filter.Range.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f := filter.Filter
	if f.OrderBy == "" || f.OrderBy == "created_at" {
		f.OrderBy = "production_date"
	}
	var rows []models.ProductionOutputModel
	if err := applyPage(query, f, ProductionSortFields, "production_date").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toOutputs(rows), total, nil
}

// DeleteBetween removes outputs produced within [from, to]
func (r *GormProductionRepository) DeleteBetween(ctx context.Context, from, to time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("production_date >= ? AND production_date <= ?", from, to).
		Delete(&models.ProductionOutputModel{})
	return result.RowsAffected, result.Error
}

func toOutputs(rows []models.ProductionOutputModel) []production.ProductionOutput {
	out := make([]production.ProductionOutput, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// Ensure GormProductionRepository implements ProductionRepository
var _ production.ProductionRepository = (*GormProductionRepository)(nil)
