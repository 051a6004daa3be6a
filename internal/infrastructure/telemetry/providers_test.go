package telemetry_test

import (
	"context"
	"testing"

	"github.com/bottling/backend/internal/infrastructure/config"
	"github.com/bottling/backend/internal/infrastructure/logger"
	"github.com/bottling/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.TelemetryConfig{Enabled: false, ServiceName: "bottling-backend"}
	log := zap.NewNop()

	tp, err := telemetry.NewTracerProvider(ctx, cfg, log)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	tp.EnableSpanProfiles()
	assert.False(t, tp.SpanProfilesEnabled())
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, cfg, log)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	_, err = telemetry.NewLedgerMetrics(mp.Meter(telemetry.LedgerMeterName))
	assert.NoError(t, err)
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := telemetry.NewLoggerProvider(ctx, cfg, log)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.False(t, lp.Core("svc", zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestNewBridgedLogger(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)

	cfg := logger.DefaultConfig()
	cfg.Level = "warn"
	log, err := telemetry.NewBridgedLogger(cfg, lp, "bottling-backend")
	require.NoError(t, err)
	assert.Nil(t, log.Check(zapcore.InfoLevel, "dropped"))
	assert.NotNil(t, log.Check(zapcore.WarnLevel, "kept"))
}

func TestNewProfiler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		p, err := telemetry.NewProfiler(config.TelemetryConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("enabled without address", func(t *testing.T) {
		_, err := telemetry.NewProfiler(config.TelemetryConfig{ProfilingEnabled: true, ServiceName: "svc"}, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestWithProfilingLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]string
	}{
		{"nil", nil},
		{"http", telemetry.HTTPRequestLabels("/api/v1/sales-orders", "POST")},
		{"ledger", telemetry.LedgerLabels("Sales Order", "deduct")},
		{"only high cardinality", map[string]string{"request_id": "r-1", "batch_number": "B-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			telemetry.WithProfilingLabels(context.Background(), tt.labels, func(ctx context.Context) {
				called = true
				assert.NotNil(t, ctx)
			})
			assert.True(t, called)
		})
	}
}
