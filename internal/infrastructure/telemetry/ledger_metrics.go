package telemetry

import (
	"context"

	"github.com/bottling/backend/internal/domain/inventory"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMeterName names the meter ledger instruments are registered on
const LedgerMeterName = "bottling/ledger"

// LedgerMetrics records stock ledger activity as OTEL instruments.
// It satisfies the application's LedgerMetrics port.
type LedgerMetrics struct {
	movedPieces *Counter
	eventSize   *Histogram
	rejected    *Counter
	lowStock    *Counter
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	moved, err := NewCounter(meter, "ledger.pieces.moved", "Pieces moved by committed ledger events", "{piece}")
	if err != nil {
		return nil, err
	}
	size, err := NewHistogram(meter, "ledger.event.pieces", "Pieces per ledger event", "{piece}", PieceBuckets...)
	if err != nil {
		return nil, err
	}
	rejected, err := NewCounter(meter, "ledger.events.rejected", "Business events rejected by the ledger", "{event}")
	if err != nil {
		return nil, err
	}
	low, err := NewCounter(meter, "stock.low_stock.alerts", "Low stock alerts raised", "{alert}")
	if err != nil {
		return nil, err
	}
	return &LedgerMetrics{movedPieces: moved, eventSize: size, rejected: rejected, lowStock: low}, nil
}

// RecordMovement counts pieces moved by one ledger event
func (m *LedgerMetrics) RecordMovement(ctx context.Context, module inventory.Module, stockType inventory.StockType, movement inventory.Movement, pieces int64) {
	attrs := []attribute.KeyValue{
		AttrModule.String(string(module)),
		AttrStockType.String(string(stockType)),
		AttrMovement.String(string(movement)),
	}
	m.movedPieces.Add(ctx, pieces, attrs...)
	m.eventSize.Record(ctx, float64(pieces), attrs...)
}

// RecordRejected counts a rejected business event by error code
func (m *LedgerMetrics) RecordRejected(ctx context.Context, module inventory.Module, code string) {
	m.rejected.Inc(ctx, AttrModule.String(string(module)), AttrErrorCode.String(code))
}

// RecordLowStock counts a low stock alert
func (m *LedgerMetrics) RecordLowStock(ctx context.Context, item string) {
	m.lowStock.Inc(ctx, AttrItem.String(item))
}
