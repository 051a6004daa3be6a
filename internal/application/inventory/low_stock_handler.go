package inventory

import (
	"context"
	"fmt"

	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler handles StockBelowThreshold events
type LowStockAlertHandler struct {
	logger  *zap.Logger
	metrics LedgerMetrics
}

// NewLowStockAlertHandler creates a new handler for stock below threshold events
func NewLowStockAlertHandler(logger *zap.Logger, metrics LedgerMetrics) *LowStockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopLedgerMetrics{}
	}
	return &LowStockAlertHandler{logger: logger, metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle logs the alert and counts it
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", event)
	}

	alertType := "low_stock"
	if e.QuantityPieces == 0 {
		alertType = "out_of_stock"
	}
	h.logger.Warn("Stock below threshold",
		zap.String("alert_type", alertType),
		zap.String("item", e.ItemName),
		zap.Int64("quantity_grouped", e.QuantityGrouped),
		zap.Int64("quantity_pieces", e.QuantityPieces),
		zap.Int64("threshold", e.Threshold))
	h.metrics.RecordLowStock(ctx, e.ItemName)
	return nil
}

// LowStockSweeper re-raises alerts for every item still at or under its threshold
type LowStockSweeper struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewLowStockSweeper creates a sweeper
func NewLowStockSweeper(scope TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *LowStockSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockSweeper{scope: scope, publisher: publisher, logger: logger}
}

// Sweep publishes one StockBelowThreshold event per low item and returns how many
func (s *LowStockSweeper) Sweep(ctx context.Context) (int, error) {
	var items []inventory.StockItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		items, err = repos.StockItemRepo().FindBelowThreshold(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("find low stock items: %w", err)
	}

	events := make([]shared.DomainEvent, 0, len(items))
	for i := range items {
		if items[i].RaiseLowStockAlert() {
			events = append(events, items[i].GetDomainEvents()...)
			items[i].ClearDomainEvents()
		}
	}
	if len(events) == 0 {
		return 0, nil
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		return 0, fmt.Errorf("publish low stock events: %w", err)
	}
	s.logger.Info("Low stock sweep completed", zap.Int("items", len(events)))
	return len(events), nil
}
