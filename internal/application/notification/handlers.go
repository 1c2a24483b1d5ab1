package notification

import (
	"context"
	"fmt"

	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/enrollment"
	"github.com/xpro/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderReceiptHandler emails a receipt when a retail order settles.
// Email delivery is best effort: a failed send is logged, never
// retried, so the handler swallows service errors.
type OrderReceiptHandler struct {
	service *NotificationService
	logger  *zap.Logger
}

// NewOrderReceiptHandler creates a new handler for order fulfillment events
func NewOrderReceiptHandler(service *NotificationService, logger *zap.Logger) *OrderReceiptHandler {
	return &OrderReceiptHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderReceiptHandler) EventTypes() []string {
	return []string{ecommerce.EventTypeOrderFulfilled}
}

// Handle processes an order fulfilled event
func (h *OrderReceiptHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fulfilled, ok := event.(*ecommerce.OrderFulfilledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", ecommerce.EventTypeOrderFulfilled),
			zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			ecommerce.EventTypeOrderFulfilled, event.EventType())
	}

	if err := h.service.SendOrderReceipt(ctx, fulfilled.OrderID, fulfilled.PurchaserID); err != nil {
		h.logger.Error("failed to send order receipt",
			zap.String("order_id", fulfilled.OrderID.String()),
			zap.Error(err))
	}
	return nil
}

// Ensure OrderReceiptHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderReceiptHandler)(nil)

// EnrollmentCodesHandler emails the minted coupon codes when a bulk
// order settles.
type EnrollmentCodesHandler struct {
	service *NotificationService
	logger  *zap.Logger
}

// NewEnrollmentCodesHandler creates a new handler for bulk order events
func NewEnrollmentCodesHandler(service *NotificationService, logger *zap.Logger) *EnrollmentCodesHandler {
	return &EnrollmentCodesHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *EnrollmentCodesHandler) EventTypes() []string {
	return []string{b2b.EventTypeB2BOrderFulfilled}
}

// Handle processes a bulk order fulfilled event
func (h *EnrollmentCodesHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fulfilled, ok := event.(*b2b.B2BOrderFulfilledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", b2b.EventTypeB2BOrderFulfilled),
			zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			b2b.EventTypeB2BOrderFulfilled, event.EventType())
	}

	if err := h.service.SendEnrollmentCodes(ctx, fulfilled.OrderID); err != nil {
		h.logger.Error("failed to send enrollment codes",
			zap.String("order_id", fulfilled.OrderID.String()),
			zap.Error(err))
	}
	return nil
}

// Ensure EnrollmentCodesHandler implements shared.EventHandler
var _ shared.EventHandler = (*EnrollmentCodesHandler)(nil)

// EnrollmentFailureHandler alerts support when a paid enrollment could
// not be created in the courseware platform.
type EnrollmentFailureHandler struct {
	service *NotificationService
	logger  *zap.Logger
}

// NewEnrollmentFailureHandler creates a new handler for courseware failures
func NewEnrollmentFailureHandler(service *NotificationService, logger *zap.Logger) *EnrollmentFailureHandler {
	return &EnrollmentFailureHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *EnrollmentFailureHandler) EventTypes() []string {
	return []string{enrollment.EventTypeCoursewareEnrollmentFailed}
}

// Handle processes a courseware enrollment failed event
func (h *EnrollmentFailureHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	failed, ok := event.(*enrollment.CoursewareEnrollmentFailedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", enrollment.EventTypeCoursewareEnrollmentFailed),
			zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			enrollment.EventTypeCoursewareEnrollmentFailed, event.EventType())
	}

	if err := h.service.SendEnrollmentFailure(ctx, failed.UserID, failed.CoursewareID, failed.Reason); err != nil {
		h.logger.Error("failed to send enrollment failure alert",
			zap.String("user_id", failed.UserID.String()),
			zap.Error(err))
	}
	return nil
}

// Ensure EnrollmentFailureHandler implements shared.EventHandler
var _ shared.EventHandler = (*EnrollmentFailureHandler)(nil)
