package b2b

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle state of a bulk order
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// B2BOrder is a bulk purchase of enrollment codes. On fulfillment a
// 100%-off single-use coupon batch of NumSeats codes is created and
// its payment version stored on CouponPaymentVersionID.
type B2BOrder struct {
	shared.BaseAggregateRoot
	Status                 OrderStatus     `gorm:"type:varchar(20);not null;default:'created';index"`
	NumSeats               int             `gorm:"not null"`
	Email                  string          `gorm:"type:varchar(255);not null"`
	ProductVersionID       uuid.UUID       `gorm:"type:uuid;not null"`
	PerItemPrice           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPrice             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UniqueID               uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CouponPaymentVersionID *uuid.UUID      `gorm:"type:uuid"`
	CouponID               *uuid.UUID      `gorm:"type:uuid"`
	DiscountAmount         *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ContractNumber         string           `gorm:"type:varchar(100)"`
	ProgramRunID           *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (B2BOrder) TableName() string {
	return "b2b_orders"
}

// NewB2BOrder creates a new bulk order in the created state
func NewB2BOrder(email string, numSeats int, productVersionID uuid.UUID, perItemPrice decimal.Decimal) (*B2BOrder, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Purchaser email cannot be empty")
	}
	if numSeats < 1 {
		return nil, shared.NewDomainError("INVALID_SEATS", "Number of seats must be at least 1")
	}
	if perItemPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Per-item price cannot be negative")
	}

	return &B2BOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            OrderStatusCreated,
		NumSeats:          numSeats,
		Email:             email,
		ProductVersionID:  productVersionID,
		PerItemPrice:      perItemPrice,
		TotalPrice:        perItemPrice.Mul(decimal.NewFromInt(int64(numSeats))).Round(2),
		UniqueID:          uuid.New(),
	}, nil
}

// ApplyCoupon applies a discount to the order total
func (o *B2BOrder) ApplyCoupon(couponID uuid.UUID, discount decimal.Decimal) error {
	if o.Status != OrderStatusCreated {
		return shared.NewDomainError("INVALID_ORDER_STATE", "Coupons can only be applied to created orders")
	}
	if discount.GreaterThan(o.TotalPrice) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the order total")
	}

	o.CouponID = &couponID
	o.DiscountAmount = &discount
	o.TotalPrice = o.TotalPrice.Sub(discount).Round(2)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Fulfill marks the order as paid and records the coupon payment
// version that carries the generated enrollment codes
func (o *B2BOrder) Fulfill(couponPaymentVersionID uuid.UUID) error {
	if o.Status != OrderStatusCreated {
		return shared.NewDomainError("INVALID_ORDER_STATE", "Only created orders can be fulfilled")
	}

	o.Status = OrderStatusFulfilled
	o.CouponPaymentVersionID = &couponPaymentVersionID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewB2BOrderFulfilledEvent(o))

	return nil
}

// Fail marks the order as failed after a declined or cancelled payment
func (o *B2BOrder) Fail() error {
	if o.Status != OrderStatusCreated {
		return shared.NewDomainError("INVALID_ORDER_STATE", "Only created orders can be failed")
	}

	o.Status = OrderStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Refund marks a fulfilled order as refunded
func (o *B2BOrder) Refund() error {
	if o.Status != OrderStatusFulfilled {
		return shared.NewDomainError("INVALID_ORDER_STATE", "Only fulfilled orders can be refunded")
	}

	o.Status = OrderStatusRefunded
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// IsCreated returns true while the order awaits payment
func (o *B2BOrder) IsCreated() bool {
	return o.Status == OrderStatusCreated
}

// IsFulfilled returns true if the order has been paid
func (o *B2BOrder) IsFulfilled() bool {
	return o.Status == OrderStatusFulfilled
}

// B2BReceipt stores the raw gateway postback payload for a bulk order
type B2BReceipt struct {
	shared.BaseEntity
	OrderID *uuid.UUID      `gorm:"type:uuid;index"`
	Data    json.RawMessage `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (B2BReceipt) TableName() string {
	return "b2b_receipts"
}

// NewB2BReceipt creates a receipt from a gateway postback payload
func NewB2BReceipt(orderID *uuid.UUID, data json.RawMessage) *B2BReceipt {
	return &B2BReceipt{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Data:       data,
	}
}
