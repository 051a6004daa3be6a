package event

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bottling/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// KeyFunc derives the deduplication key of an event
type KeyFunc func(shared.DomainEvent) string

// ByEventID keys on the event identity, so only redeliveries are suppressed
func ByEventID(e shared.DomainEvent) string {
	return "event:" + e.EventID().String()
}

// ByAggregate keys on event type plus aggregate, so repeated alerts for the
// same stock item are suppressed for the whole window
func ByAggregate(e shared.DomainEvent) string {
	return "event:" + e.EventType() + ":" + e.AggregateID().String()
}

// DedupStats is a snapshot of DedupHandler counters
type DedupStats struct {
	Processed  int64 `json:"processed"`
	Suppressed int64 `json:"suppressed"`
	Failed     int64 `json:"failed"`
}

// DedupHandler wraps an EventHandler and lets an event through at most once
// per key and window. Keys live in the shared IdempotencyStore, so with the
// redis backend several server replicas agree on what was already handled.
type DedupHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	window  time.Duration
	key     KeyFunc
	logger  *zap.Logger

	processed  atomic.Int64
	suppressed atomic.Int64
	failed     atomic.Int64
}

// DedupOption configures a DedupHandler
type DedupOption func(*DedupHandler)

// WithKeyFunc overrides the default ByEventID key
func WithKeyFunc(fn KeyFunc) DedupOption {
	return func(h *DedupHandler) { h.key = fn }
}

// WithWindow sets how long a key suppresses repeats
func WithWindow(d time.Duration) DedupOption {
	return func(h *DedupHandler) { h.window = d }
}

// NewDedupHandler wraps handler
func NewDedupHandler(handler shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts ...DedupOption) *DedupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &DedupHandler{
		handler: handler,
		store:   store,
		window:  shared.DefaultIdempotencyConfig().TTL,
		key:     ByEventID,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes delegates to the wrapped handler
func (h *DedupHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle runs the wrapped handler unless the key is already held.
// Store errors fall through to the handler; a missed alert is worse than a repeated one.
func (h *DedupHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := h.key(event)

	fresh, err := h.store.MarkProcessed(ctx, key, h.window)
	switch {
	case err != nil:
		h.logger.Warn("Dedup check failed, handling anyway",
			zap.String("key", key),
			zap.Error(err))
	case !fresh:
		h.suppressed.Add(1)
		h.logger.Debug("Duplicate event suppressed",
			zap.String("key", key),
			zap.String("event_type", event.EventType()))
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		h.failed.Add(1)
		if relErr := h.store.Release(context.WithoutCancel(ctx), key); relErr != nil {
			h.logger.Warn("Failed to release dedup key", zap.String("key", key), zap.Error(relErr))
		}
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns the handler counters
func (h *DedupHandler) Stats() DedupStats {
	return DedupStats{
		Processed:  h.processed.Load(),
		Suppressed: h.suppressed.Load(),
		Failed:     h.failed.Load(),
	}
}

var _ shared.EventHandler = (*DedupHandler)(nil)
