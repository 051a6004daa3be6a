package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys of already submitted business events
type IdempotencyStore interface {
	// MarkProcessed claims a key for ttl.
	// Returns true if the key was newly claimed, false if it was already held.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently held
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a key so a failed request can be resubmitted
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a processed key blocks resubmission. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether keys are checked at all. Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
