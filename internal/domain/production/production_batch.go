package production

import (
	"slices"
	"strings"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
)

const batchNumberLayout = "20060102150405"

// GenerateBatchNumber builds BATCH-YYYYmmddHHMMSS from now
func GenerateBatchNumber(now time.Time) string {
	return "BATCH-" + now.Format(batchNumberLayout)
}

// ProductionOutput is the record of one finished good produced in a batch
type ProductionOutput struct {
	shared.BaseEntity
	BatchNumber     string
	Product         string
	QuantityPieces  int64
	QuantityGrouped int64
	// SupplierSelections maps each material to the supplier actually drawn from
	SupplierSelections map[string]string
	SkippedMaterials   []string
	EmployeeID         string
	ProductionDate     time.Time
}

// SelectSupplier records the supplier a material was deducted from
func (o *ProductionOutput) SelectSupplier(material, supplier string) {
	if o.SupplierSelections == nil {
		o.SupplierSelections = make(map[string]string)
	}
	o.SupplierSelections[material] = supplier
}

// SkipMaterial records a material that was not deducted
func (o *ProductionOutput) SkipMaterial(material string) {
	if !slices.Contains(o.SkippedMaterials, material) {
		o.SkippedMaterials = append(o.SkippedMaterials, material)
	}
}

// ProductionBatch groups the outputs of one production run
type ProductionBatch struct {
	BatchNumber    string
	EmployeeID     string
	ProductionDate time.Time
	Outputs        []ProductionOutput
}

// NewProductionBatch creates an empty batch. An empty number is generated from date.
func NewProductionBatch(batchNumber, employeeID string, date time.Time) (*ProductionBatch, error) {
	if date.IsZero() {
		date = time.Now()
	}
	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		batchNumber = GenerateBatchNumber(date)
	}
	if len(batchNumber) > 64 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Batch number is too long")
	}
	return &ProductionBatch{
		BatchNumber:    batchNumber,
		EmployeeID:     employeeID,
		ProductionDate: date,
		Outputs:        make([]ProductionOutput, 0),
	}, nil
}

// AddOutput records pieces of product. Grouped count is floor(pieces / ppu).
func (b *ProductionBatch) AddOutput(product string, pieces int64, piecesPerUnit int) (*ProductionOutput, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product cannot be empty")
	}
	if pieces <= 0 {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Produced quantity for %s must be positive", product)
	}
	if piecesPerUnit < 1 {
		piecesPerUnit = 1
	}
	b.Outputs = append(b.Outputs, ProductionOutput{
		BaseEntity:         shared.NewBaseEntity(),
		BatchNumber:        b.BatchNumber,
		Product:            product,
		QuantityPieces:     pieces,
		QuantityGrouped:    pieces / int64(piecesPerUnit),
		SupplierSelections: make(map[string]string),
		EmployeeID:         b.EmployeeID,
		ProductionDate:     b.ProductionDate,
	})
	return &b.Outputs[len(b.Outputs)-1], nil
}

// BatchFromOutputs regroups stored outputs into a batch
func BatchFromOutputs(outputs []ProductionOutput) *ProductionBatch {
	if len(outputs) == 0 {
		return nil
	}
	first := outputs[0]
	return &ProductionBatch{
		BatchNumber:    first.BatchNumber,
		EmployeeID:     first.EmployeeID,
		ProductionDate: first.ProductionDate,
		Outputs:        outputs,
	}
}

// ProductionFilter selects production outputs
type ProductionFilter struct {
	shared.Filter
	Product string
	Range   shared.TimeRange
}
