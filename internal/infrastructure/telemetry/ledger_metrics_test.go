package telemetry_test

import (
	"context"
	"testing"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestLedgerMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewLedgerMetrics(provider.Meter(telemetry.LedgerMeterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordMovement(ctx, inventory.ModuleProductionOutput, inventory.StockTypeFinishedGoods, inventory.MovementIncrease, 240)
	m.RecordMovement(ctx, inventory.ModuleSalesOrder, inventory.StockTypeFinishedGoods, inventory.MovementDecrease, 48)
	m.RecordRejected(ctx, inventory.ModuleSalesOrder, "INSUFFICIENT_STOCK")
	m.RecordLowStock(ctx, "350ml")
	m.RecordLowStock(ctx, "1l")

	metrics := collect(t, reader)
	assert.Equal(t, int64(288), sumOf(t, metrics["ledger.pieces.moved"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["ledger.events.rejected"]))
	assert.Equal(t, int64(2), sumOf(t, metrics["stock.low_stock.alerts"]))

	hist, ok := metrics["ledger.event.pieces"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)

	moved := metrics["ledger.pieces.moved"].Data.(metricdata.Sum[int64])
	require.Len(t, moved.DataPoints, 2)
	for _, dp := range moved.DataPoints {
		v, ok := dp.Attributes.Value(telemetry.AttrModule)
		require.True(t, ok)
		assert.Contains(t, []string{"Production Output", "Sales Order"}, v.AsString())
	}
}
