package enrollment

import (
	"context"
	"fmt"

	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderFulfilledHandler enrolls the purchaser when an order is paid
type OrderFulfilledHandler struct {
	service *EnrollmentService
	logger  *zap.Logger
}

// NewOrderFulfilledHandler creates a new handler for order fulfilled events
func NewOrderFulfilledHandler(service *EnrollmentService, logger *zap.Logger) *OrderFulfilledHandler {
	return &OrderFulfilledHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderFulfilledHandler) EventTypes() []string {
	return []string{ecommerce.EventTypeOrderFulfilled}
}

// Handle processes an OrderFulfilledEvent
func (h *OrderFulfilledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fulfilled, ok := event.(*ecommerce.OrderFulfilledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", ecommerce.EventTypeOrderFulfilled),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ecommerce.EventTypeOrderFulfilled, event.EventType())
	}

	h.logger.Info("enrolling purchaser for fulfilled order",
		zap.String("order_id", fulfilled.OrderID.String()),
		zap.String("purchaser_id", fulfilled.PurchaserID.String()),
		zap.Int("selected_runs", len(fulfilled.RunIDs)),
	)

	return h.service.FulfillOrderEnrollments(ctx, fulfilled.OrderID, fulfilled.PurchaserID, fulfilled.RunIDs)
}

// Ensure OrderFulfilledHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderFulfilledHandler)(nil)

// OrderRefundedHandler revokes the purchaser's enrollments when an
// order is refunded
type OrderRefundedHandler struct {
	service *EnrollmentService
	logger  *zap.Logger
}

// NewOrderRefundedHandler creates a new handler for order refunded events
func NewOrderRefundedHandler(service *EnrollmentService, logger *zap.Logger) *OrderRefundedHandler {
	return &OrderRefundedHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderRefundedHandler) EventTypes() []string {
	return []string{ecommerce.EventTypeOrderRefunded}
}

// Handle processes an OrderRefundedEvent
func (h *OrderRefundedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	refunded, ok := event.(*ecommerce.OrderRefundedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", ecommerce.EventTypeOrderRefunded),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ecommerce.EventTypeOrderRefunded, event.EventType())
	}

	h.logger.Info("revoking enrollments for refunded order",
		zap.String("order_id", refunded.OrderID.String()),
		zap.String("purchaser_id", refunded.PurchaserID.String()),
	)

	return h.service.RevokeOrderEnrollments(ctx, refunded.OrderID, refunded.PurchaserID)
}

// Ensure OrderRefundedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderRefundedHandler)(nil)
