package production

import (
	"context"
	"time"
)

// ProductionRepository defines persistence for production outputs
type ProductionRepository interface {
	// ExistsBatch checks whether a batch number is already on record
	ExistsBatch(ctx context.Context, batchNumber string) (bool, error)

	// CreateOutput stores one production output
	CreateOutput(ctx context.Context, output *ProductionOutput) error

	// FindByBatch lists the outputs of one batch
	FindByBatch(ctx context.Context, batchNumber string) ([]ProductionOutput, error)

	// FindAll lists outputs newest first
	FindAll(ctx context.Context, filter ProductionFilter) ([]ProductionOutput, int64, error)

	// DeleteBetween removes outputs produced within [from, to]. Stock is not touched.
	DeleteBetween(ctx context.Context, from, to time.Time) (int64, error)
}
