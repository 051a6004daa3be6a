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

// GormReturnToVendorRepository implements ReturnToVendorRepository using GORM
type GormReturnToVendorRepository struct {
	db *gorm.DB
}

// NewGormReturnToVendorRepository creates a new GormReturnToVendorRepository
func NewGormReturnToVendorRepository(db *gorm.DB) *GormReturnToVendorRepository {
	return &GormReturnToVendorRepository{db: db}
}

// FindByID finds a return with its lines
func (r *GormReturnToVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ReturnToVendor, error) {
	return r.find(ctx, r.db.WithContext(ctx), id)
}

// FindByIDForUpdate row-locks the return header and loads its lines
func (r *GormReturnToVendorRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.ReturnToVendor, error) {
	return r.find(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormReturnToVendorRepository) find(ctx context.Context, query *gorm.DB, id uuid.UUID) (*trade.ReturnToVendor, error) {
	var model models.ReturnToVendorModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, shared.NewDomainErrorf(shared.CodeNotFound, "Return %s not found", id))
	}
	if err := r.db.WithContext(ctx).Where("document_id = ?", model.ID).Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists returns with their lines
func (r *GormReturnToVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.ReturnToVendor, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReturnToVendorModel{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(rtv_number) LIKE ? OR LOWER(customer_name) LIKE ?", p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.ReturnToVendorModel
	if err := applyPage(query, filter, ReturnSortFields, "created_at").Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	returns := make([]trade.ReturnToVendor, len(rows))
	for i := range rows {
		returns[i] = *rows[i].ToDomain()
	}
	return returns, total, nil
}

// ExistsByRTVNumber checks RTV number uniqueness
func (r *GormReturnToVendorRepository) ExistsByRTVNumber(ctx context.Context, rtvNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReturnToVendorModel{}).
		Where("rtv_number = ?", rtvNumber).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a return and its lines
func (r *GormReturnToVendorRepository) Create(ctx context.Context, rtv *trade.ReturnToVendor) error {
	return r.db.WithContext(ctx).Create(models.ReturnToVendorModelFromDomain(rtv)).Error
}

// SaveWithLock updates status and dates if the stored version is rtv.Version-1
func (r *GormReturnToVendorRepository) SaveWithLock(ctx context.Context, rtv *trade.ReturnToVendor) error {
	rtv.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.ReturnToVendorModel{}).
		Where("id = ? AND version = ?", rtv.ID, rtv.Version-1).
		Updates(map[string]interface{}{
			"status":        string(rtv.Status),
			"date_returned": rtv.DateReturned,
			"version":       rtv.Version,
			"updated_at":    rtv.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
			"Return %s was modified by another transaction", rtv.RTVNumber)
	}
	return nil
}

// Ensure GormReturnToVendorRepository implements ReturnToVendorRepository
var _ trade.ReturnToVendorRepository = (*GormReturnToVendorRepository)(nil)
