package b2b

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/shared"
)

// B2BCoupon is a discount code for bulk enrollment-code purchases.
// DiscountPercent is a fraction in [0, 1]. A nil ProductID makes the
// coupon valid for any product.
type B2BCoupon struct {
	shared.BaseAggregateRoot
	Name            string          `gorm:"type:varchar(255);not null"`
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index"`
	Reusable        bool            `gorm:"not null;default:false"`
	Enabled         bool            `gorm:"not null;default:true"`
	CompanyID       *uuid.UUID      `gorm:"type:uuid;index"`
	ActivationDate  *time.Time
	ExpirationDate  *time.Time
}

// TableName returns the table name for GORM
func (B2BCoupon) TableName() string {
	return "b2b_coupons"
}

// NewB2BCoupon creates a new bulk-purchase coupon
func NewB2BCoupon(name, code string, discountPercent decimal.Decimal, productID *uuid.UUID, reusable bool) (*B2BCoupon, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Coupon name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 1")
	}

	return &B2BCoupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		DiscountPercent:   discountPercent,
		ProductID:         productID,
		Reusable:          reusable,
		Enabled:           true,
	}, nil
}

// SetWindow sets the coupon's validity window
func (c *B2BCoupon) SetWindow(activation, expiration *time.Time) error {
	if activation != nil && expiration != nil && expiration.Before(*activation) {
		return shared.NewDomainError("INVALID_WINDOW", "Expiration cannot precede activation")
	}
	c.ActivationDate = activation
	c.ExpirationDate = expiration
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsValidNow returns true if the coupon is enabled and its validity
// window contains the given instant
func (c *B2BCoupon) IsValidNow(now time.Time) bool {
	if !c.Enabled {
		return false
	}
	if c.ActivationDate != nil && c.ActivationDate.After(now) {
		return false
	}
	if c.ExpirationDate != nil && !c.ExpirationDate.After(now) {
		return false
	}
	return true
}

// AppliesTo returns true if the coupon can discount the given product
func (c *B2BCoupon) AppliesTo(productID uuid.UUID) bool {
	return c.ProductID == nil || *c.ProductID == productID
}

// DiscountFor returns the discount value for a total price
func (c *B2BCoupon) DiscountFor(totalPrice decimal.Decimal) decimal.Decimal {
	return totalPrice.Mul(c.DiscountPercent).Round(2)
}

// B2BCouponRedemption records a coupon applied to a bulk order.
// Unique per (coupon, order).
type B2BCouponRedemption struct {
	shared.BaseEntity
	CouponID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_b2b_coupon_order,priority:1"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_b2b_coupon_order,priority:2"`
}

// TableName returns the table name for GORM
func (B2BCouponRedemption) TableName() string {
	return "b2b_coupon_redemptions"
}

// NewB2BCouponRedemption creates a redemption linking a coupon to an
// order
func NewB2BCouponRedemption(couponID, orderID uuid.UUID) *B2BCouponRedemption {
	return &B2BCouponRedemption{
		BaseEntity: shared.NewBaseEntity(),
		CouponID:   couponID,
		OrderID:    orderID,
	}
}
