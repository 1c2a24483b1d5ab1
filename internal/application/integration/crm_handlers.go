package integration

import (
	"context"
	"fmt"

	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderSyncHandler pushes retail orders to the CRM when they settle or
// get refunded. Runs behind the outbox, so a failed sync is retried.
type OrderSyncHandler struct {
	service *CRMSyncService
	logger  *zap.Logger
}

// NewOrderSyncHandler creates a new handler for order lifecycle events
func NewOrderSyncHandler(service *CRMSyncService, logger *zap.Logger) *OrderSyncHandler {
	return &OrderSyncHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderSyncHandler) EventTypes() []string {
	return []string{ecommerce.EventTypeOrderFulfilled, ecommerce.EventTypeOrderRefunded}
}

// Handle processes an order fulfilled or refunded event
func (h *OrderSyncHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ecommerce.OrderFulfilledEvent:
		h.logger.Info("syncing fulfilled order to crm", zap.String("order_id", e.OrderID.String()))
		if err := h.service.SyncContact(ctx, e.PurchaserID); err != nil {
			return err
		}
		return h.service.SyncOrder(ctx, e.OrderID)
	case *ecommerce.OrderRefundedEvent:
		h.logger.Info("syncing refunded order to crm", zap.String("order_id", e.OrderID.String()))
		return h.service.SyncOrder(ctx, e.OrderID)
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

// Ensure OrderSyncHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderSyncHandler)(nil)

// B2BOrderSyncHandler pushes fulfilled bulk orders to the CRM
type B2BOrderSyncHandler struct {
	service *CRMSyncService
	logger  *zap.Logger
}

// NewB2BOrderSyncHandler creates a new handler for bulk order events
func NewB2BOrderSyncHandler(service *CRMSyncService, logger *zap.Logger) *B2BOrderSyncHandler {
	return &B2BOrderSyncHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *B2BOrderSyncHandler) EventTypes() []string {
	return []string{b2b.EventTypeB2BOrderFulfilled}
}

// Handle processes a B2BOrderFulfilledEvent
func (h *B2BOrderSyncHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fulfilled, ok := event.(*b2b.B2BOrderFulfilledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", b2b.EventTypeB2BOrderFulfilled),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			b2b.EventTypeB2BOrderFulfilled, event.EventType())
	}

	h.logger.Info("syncing bulk order to crm", zap.String("order_id", fulfilled.OrderID.String()))
	return h.service.SyncB2BOrder(ctx, fulfilled.OrderID)
}

// Ensure B2BOrderSyncHandler implements shared.EventHandler
var _ shared.EventHandler = (*B2BOrderSyncHandler)(nil)
