package inventory

import (
	"context"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/infrastructure/telemetry"
)

// Traced runs a ledger write inside a "{service}.{method}" span with
// profiling labels for its module. kv adds span attributes.
func Traced[T any](ctx context.Context, module inventory.Module, service, method string, fn func(context.Context) (T, error), kv ...any) (T, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, service, method,
		append([]any{telemetry.SpanAttrModule, string(module)}, kv...)...)
	defer span.End()

	var out T
	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerLabels(string(module), method), func(ctx context.Context) {
		out, err = fn(ctx)
	})
	telemetry.RecordError(span, err)
	return out, err
}
