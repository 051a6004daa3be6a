package inventory

import (
	"context"

	"github.com/bottling/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RequestGuard rejects resubmission of a business event carrying a known request key.
// A key is claimed before the event runs and released again if it fails,
// so only committed events block a retry.
type RequestGuard struct {
	store  shared.IdempotencyStore
	config shared.IdempotencyConfig
	logger *zap.Logger
}

// NewRequestGuard creates a guard. A nil store disables checking.
func NewRequestGuard(store shared.IdempotencyStore, config shared.IdempotencyConfig, logger *zap.Logger) *RequestGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestGuard{store: store, config: config, logger: logger}
}

// Run executes fn once per scope+key. An empty key always runs fn.
func (g *RequestGuard) Run(ctx context.Context, scope, key string, fn func() error) error {
	if g == nil || g.store == nil || !g.config.Enabled || key == "" {
		return fn()
	}
	fullKey := scope + ":" + key

	claimed, err := g.store.MarkProcessed(ctx, fullKey, g.config.TTL)
	if err != nil {
		return err
	}
	if !claimed {
		g.logger.Info("Duplicate request rejected", zap.String("request_key", fullKey))
		return shared.NewDomainErrorf(shared.CodeDuplicateRequest, "Request %s has already been submitted", key)
	}

	if err := fn(); err != nil {
		if relErr := g.store.Release(context.WithoutCancel(ctx), fullKey); relErr != nil {
			g.logger.Warn("Failed to release request key",
				zap.String("request_key", fullKey),
				zap.Error(relErr))
		}
		return err
	}
	return nil
}
