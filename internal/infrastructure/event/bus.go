package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/bottling/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Stats is a snapshot of bus delivery counters
type Stats struct {
	Published int64 `json:"published"`
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
}

// InMemoryEventBus dispatches domain events to subscribed handlers in-process.
// Delivery is synchronous and happens after the producing transaction commits,
// so a failing handler never rolls back stock movements.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool

	published atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   log,
	}
}

// Publish hands every event to its handlers. Handler errors and panics are
// logged and counted; Publish itself only fails on a cancelled context.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	log := logger.Enrich(ctx, b.logger)
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.published.Add(1)

		handlers := b.registry.GetHandlers(event.EventType())
		if len(handlers) == 0 {
			log.Debug("No handlers for event", zap.String("event_type", event.EventType()))
			continue
		}
		for _, handler := range handlers {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.failed.Add(1)
				log.Error("Handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID().String()),
					zap.Error(err),
				)
				continue
			}
			b.delivered.Add(1)
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit types the handler's own EventTypes are used.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus as running
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("Event bus started", zap.Int("handlers", len(b.registry.GetAllHandlers())))
	return nil
}

// Stop marks the bus as stopped and logs the delivery totals
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	s := b.Stats()
	b.logger.Info("Event bus stopped",
		zap.Int64("published", s.Published),
		zap.Int64("delivered", s.Delivered),
		zap.Int64("failed", s.Failed))
	return nil
}

// Running reports whether Start has been called without a matching Stop
func (b *InMemoryEventBus) Running() bool {
	return b.running.Load()
}

// Stats returns the delivery counters
func (b *InMemoryEventBus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Failed:    b.failed.Load(),
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{EventType: event.EventType(), Value: r}
		}
	}()
	return handler.Handle(ctx, event)
}

// PanicError wraps a value recovered from a handler
type PanicError struct {
	EventType string
	Value     any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked on %s: %v", e.EventType, e.Value)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
