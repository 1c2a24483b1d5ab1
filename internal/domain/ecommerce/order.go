package ecommerce

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Order represents a retail purchase. Orders are created at checkout
// and transition exactly once out of the created state, driven by the
// payment gateway postback (or immediately for zero-total checkouts).
type Order struct {
	shared.BaseAggregateRoot
	PurchaserID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'created';index"`
	TotalPaid   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Lines       []Line
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in the created state
func NewOrder(purchaserID uuid.UUID) *Order {
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PurchaserID:       purchaserID,
		Status:            OrderStatusCreated,
		TotalPaid:         decimal.Zero,
	}
}

// AddLine appends an order line for a product version
func (o *Order) AddLine(productVersionID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	o.Lines = append(o.Lines, Line{
		BaseEntity:       shared.NewBaseEntity(),
		OrderID:          o.ID,
		ProductVersionID: productVersionID,
		Quantity:         quantity,
	})
	return nil
}

// Fulfill marks the order as paid. Only created orders can be
// fulfilled. runIDs are the purchaser's course run selections, carried
// on the fulfillment event for the enrollment consumer.
func (o *Order) Fulfill(totalPaid decimal.Decimal, runIDs []uuid.UUID) error {
	if o.Status != OrderStatusCreated {
		return shared.NewDomainError("INVALID_ORDER_STATE", "Only created orders can be fulfilled")
	}

	o.Status = OrderStatusFulfilled
	o.TotalPaid = totalPaid
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderFulfilledEvent(o, runIDs))

	return nil
}

// Fail marks the order as failed after a declined or cancelled payment
func (o *Order) Fail() error {
	if o.Status != OrderStatusCreated {
		return shared.NewDomainError("INVALID_ORDER_STATE", "Only created orders can be failed")
	}

	o.Status = OrderStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderFailedEvent(o))

	return nil
}

// Refund marks a fulfilled order as refunded
func (o *Order) Refund() error {
	if o.Status != OrderStatusFulfilled {
		return shared.NewDomainError("INVALID_ORDER_STATE", "Only fulfilled orders can be refunded")
	}

	o.Status = OrderStatusRefunded
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderRefundedEvent(o))

	return nil
}

// IsCreated returns true while the order awaits payment
func (o *Order) IsCreated() bool {
	return o.Status == OrderStatusCreated
}

// IsFulfilled returns true if the order has been paid
func (o *Order) IsFulfilled() bool {
	return o.Status == OrderStatusFulfilled
}

// Line is an order line pointing at the product version the purchase
// was priced against
type Line struct {
	shared.BaseEntity
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductVersionID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity         int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "lines"
}

// Receipt stores the raw payment gateway postback payload. OrderID may
// be nil when the reference number could not be matched to an order.
type Receipt struct {
	shared.BaseEntity
	OrderID *uuid.UUID      `gorm:"type:uuid;index"`
	Data    json.RawMessage `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// NewReceipt creates a receipt from a gateway postback payload
func NewReceipt(orderID *uuid.UUID, data json.RawMessage) *Receipt {
	return &Receipt{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Data:       data,
	}
}
