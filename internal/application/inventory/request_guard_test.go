package inventory_test

import (
	"context"
	"errors"
	"testing"

	appinv "github.com/bottling/backend/internal/application/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestGuard_Run(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	guard := appinv.NewRequestGuard(store, shared.DefaultIdempotencyConfig(), nil)
	ctx := context.Background()

	calls := 0
	ok := func() error { calls++; return nil }
	fail := func() error { calls++; return errors.New("boom") }

	require.Error(t, guard.Run(ctx, "sales", "k", fail))
	require.NoError(t, guard.Run(ctx, "sales", "k", ok), "failed runs release the key")
	assert.True(t, errors.Is(guard.Run(ctx, "sales", "k", ok), shared.ErrDuplicateRequest))
	require.NoError(t, guard.Run(ctx, "production", "k", ok), "keys are scoped")
	require.NoError(t, guard.Run(ctx, "sales", "", ok))
	require.NoError(t, guard.Run(ctx, "sales", "", ok), "empty keys are never checked")
	assert.Equal(t, 5, calls)
}

func TestRequestGuard_Disabled(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	tests := []struct {
		name  string
		guard *appinv.RequestGuard
	}{
		{"nil guard", nil},
		{"nil store", appinv.NewRequestGuard(nil, shared.DefaultIdempotencyConfig(), nil)},
		{"disabled", appinv.NewRequestGuard(store, shared.IdempotencyConfig{Enabled: false}, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			for range 2 {
				require.NoError(t, tt.guard.Run(context.Background(), "s", "k", func() error { calls++; return nil }))
			}
			assert.Equal(t, 2, calls)
		})
	}
}
