package ecommerce

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOrder  = "Order"
	AggregateTypeCoupon = "Coupon"
)

// Event type constants
const (
	EventTypeOrderFulfilled = "OrderFulfilled"
	EventTypeOrderFailed    = "OrderFailed"
	EventTypeOrderRefunded  = "OrderRefunded"
)

// OrderFulfilledEvent is published when an order is paid. Enrollment,
// CRM deal sync and the receipt email all react to it. RunIDs captures
// the basket's course run selections at fulfillment time; the basket
// is cleared right after, so consumers cannot read them later.
type OrderFulfilledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	PurchaserID uuid.UUID       `json:"purchaser_id"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	RunIDs      []uuid.UUID     `json:"run_ids,omitempty"`
}

// NewOrderFulfilledEvent creates a new OrderFulfilledEvent
func NewOrderFulfilledEvent(order *Order, runIDs []uuid.UUID) *OrderFulfilledEvent {
	return &OrderFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFulfilled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		PurchaserID:     order.PurchaserID,
		TotalPaid:       order.TotalPaid,
		RunIDs:          runIDs,
	}
}

// OrderFailedEvent is published when a payment is declined or cancelled
type OrderFailedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	PurchaserID uuid.UUID `json:"purchaser_id"`
}

// NewOrderFailedEvent creates a new OrderFailedEvent
func NewOrderFailedEvent(order *Order) *OrderFailedEvent {
	return &OrderFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFailed, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		PurchaserID:     order.PurchaserID,
	}
}

// OrderRefundedEvent is published when a fulfilled order is refunded
type OrderRefundedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	PurchaserID uuid.UUID `json:"purchaser_id"`
}

// NewOrderRefundedEvent creates a new OrderRefundedEvent
func NewOrderRefundedEvent(order *Order) *OrderRefundedEvent {
	return &OrderRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRefunded, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		PurchaserID:     order.PurchaserID,
	}
}
