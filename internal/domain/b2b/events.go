package b2b

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeB2BOrder = "B2BOrder"

// Event type constants
const (
	EventTypeB2BOrderFulfilled = "B2BOrderFulfilled"
)

// B2BOrderFulfilledEvent is published when a bulk order is paid. The
// enrollment-code email and CRM deal sync react to it.
type B2BOrderFulfilledEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	Email      string          `json:"email"`
	NumSeats   int             `json:"num_seats"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewB2BOrderFulfilledEvent creates a new B2BOrderFulfilledEvent
func NewB2BOrderFulfilledEvent(order *B2BOrder) *B2BOrderFulfilledEvent {
	return &B2BOrderFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeB2BOrderFulfilled, AggregateTypeB2BOrder, order.ID),
		OrderID:         order.ID,
		Email:           order.Email,
		NumSeats:        order.NumSeats,
		TotalPrice:      order.TotalPrice,
	}
}
