package cache

import (
	"fmt"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Idempotency backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewIdempotencyStore picks the request key store configured in ledger.idempotency_backend.
// client may be nil unless the redis backend is selected.
func NewIdempotencyStore(cfg config.LedgerConfig, client *redis.Client, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.IdempotencyBackend {
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("idempotency backend %q needs a redis client", BackendRedis)
		}
		logger.Info("Using Redis idempotency store")
		return NewRedisIdempotencyStore(client, ""), nil
	case BackendMemory, "":
		logger.Info("Using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.IdempotencyBackend)
	}
}
