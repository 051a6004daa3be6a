package inventory

import (
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeStockItem      = "StockItem"
	AggregateTypeRawMaterialLot = "RawMaterialLot"
)

// Event type constants
const (
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// StockBelowThresholdEvent is raised when finished-goods stock is at or under its alert level
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	StockItemID     uuid.UUID `json:"stock_item_id"`
	ItemName        string    `json:"item_name"`
	QuantityGrouped int64     `json:"quantity_grouped"`
	QuantityPieces  int64     `json:"quantity_pieces"`
	Threshold       int64     `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a StockBelowThresholdEvent
func NewStockBelowThresholdEvent(item *StockItem) *StockBelowThresholdEvent {
	var threshold int64
	if item.LowStockThreshold != nil {
		threshold = *item.LowStockThreshold
	}
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ItemName:        item.Name,
		QuantityGrouped: item.Counts.QuantityGrouped,
		QuantityPieces:  item.Counts.QuantityPieces,
		Threshold:       threshold,
	}
}

// EventType returns the event type name
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}
