package models

import (
	"time"

	"github.com/bottling/backend/internal/domain/production"
)

// ProductionOutputModel is one product line of a production batch.
// Supplier selections and skipped materials are stored as JSON.
type ProductionOutputModel struct {
	BaseModel
	BatchNumber       string            `gorm:"type:varchar(64);not null;index"`
	ProductName       string            `gorm:"type:varchar(100);not null;index"`
	QuantityPcs       int64             `gorm:"not null"`
	QuantityGrouped   int64             `gorm:"not null"`
	SelectedSuppliers map[string]string `gorm:"type:jsonb;serializer:json"`
	SkippedMaterials  []string          `gorm:"type:jsonb;serializer:json"`
	EmployeeID        string            `gorm:"type:varchar(64)"`
	ProductionDate    time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ProductionOutputModel) TableName() string {
	return "production_outputs"
}

// ToDomain converts the persistence model to a domain ProductionOutput.
func (m *ProductionOutputModel) ToDomain() production.ProductionOutput {
	return production.ProductionOutput{
		BaseEntity:         m.BaseModel.ToDomain(),
		BatchNumber:        m.BatchNumber,
		Product:            m.ProductName,
		QuantityPieces:     m.QuantityPcs,
		QuantityGrouped:    m.QuantityGrouped,
		SupplierSelections: m.SelectedSuppliers,
		SkippedMaterials:   m.SkippedMaterials,
		EmployeeID:         m.EmployeeID,
		ProductionDate:     m.ProductionDate,
	}
}

// ProductionOutputModelFromDomain creates a persistence model from a domain ProductionOutput.
func ProductionOutputModelFromDomain(o *production.ProductionOutput) *ProductionOutputModel {
	m := &ProductionOutputModel{
		BatchNumber:       o.BatchNumber,
		ProductName:       o.Product,
		QuantityPcs:       o.QuantityPieces,
		QuantityGrouped:   o.QuantityGrouped,
		SelectedSuppliers: o.SupplierSelections,
		SkippedMaterials:  o.SkippedMaterials,
		EmployeeID:        o.EmployeeID,
		ProductionDate:    o.ProductionDate,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}
