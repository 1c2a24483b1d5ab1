package ecommerce

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/shared"
)

// CouponType determines how a coupon's codes may be redeemed
type CouponType string

const (
	// CouponTypePromo codes can be redeemed repeatedly up to the
	// configured redemption limits
	CouponTypePromo CouponType = "promo"
	// CouponTypeSingleUse codes can each be redeemed exactly once
	CouponTypeSingleUse CouponType = "single-use"
)

// PaymentType records how a coupon batch was paid for
type PaymentType string

const (
	PaymentTypePurchaseOrder PaymentType = "purchase_order"
	PaymentTypeCreditCard    PaymentType = "credit_card"
	PaymentTypeMarketing     PaymentType = "marketing"
	PaymentTypeSales         PaymentType = "sales"
	PaymentTypeStaff         PaymentType = "staff"
)

// CouponPayment groups a batch of coupons created together under one
// purchase. Terms live on append-only payment versions.
type CouponPayment struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CouponPayment) TableName() string {
	return "coupon_payments"
}

// NewCouponPayment creates a new coupon payment
func NewCouponPayment(name string) (*CouponPayment, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Coupon payment name cannot be empty")
	}
	return &CouponPayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// CouponPaymentVersion is an immutable snapshot of a coupon batch's
// terms. Amount is a discount fraction in [0, 1]; 1 means fully free.
// Nil activation/expiration bounds are unbounded.
type CouponPaymentVersion struct {
	shared.BaseEntity
	PaymentID             uuid.UUID   `gorm:"type:uuid;not null;index"`
	CouponType            CouponType  `gorm:"type:varchar(20);not null"`
	NumCouponCodes        int         `gorm:"not null"`
	MaxRedemptions        int         `gorm:"not null"`
	MaxRedemptionsPerUser int         `gorm:"not null;default:1"`
	Amount                decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	ActivationDate        *time.Time
	ExpirationDate        *time.Time
	Automatic             bool        `gorm:"not null;default:false"`
	CompanyID             *uuid.UUID  `gorm:"type:uuid;index"`
	PaymentType           PaymentType `gorm:"type:varchar(30)"`
	PaymentTransaction    string      `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (CouponPaymentVersion) TableName() string {
	return "coupon_payment_versions"
}

// NewCouponPaymentVersion creates a new payment version with validated
// terms
func NewCouponPaymentVersion(
	paymentID uuid.UUID,
	couponType CouponType,
	numCodes, maxRedemptions, maxRedemptionsPerUser int,
	amount decimal.Decimal,
	activation, expiration *time.Time,
) (*CouponPaymentVersion, error) {
	if couponType != CouponTypePromo && couponType != CouponTypeSingleUse {
		return nil, shared.NewDomainError("INVALID_COUPON_TYPE", "Coupon type must be promo or single-use")
	}
	if numCodes < 1 {
		return nil, shared.NewDomainError("INVALID_NUM_CODES", "Number of coupon codes must be at least 1")
	}
	if maxRedemptions < 1 {
		return nil, shared.NewDomainError("INVALID_MAX_REDEMPTIONS", "Max redemptions must be at least 1")
	}
	if maxRedemptionsPerUser < 1 {
		return nil, shared.NewDomainError("INVALID_MAX_REDEMPTIONS", "Max redemptions per user must be at least 1")
	}
	if amount.IsNegative() || amount.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Discount amount must be between 0 and 1")
	}
	if activation != nil && expiration != nil && expiration.Before(*activation) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Expiration cannot precede activation")
	}

	return &CouponPaymentVersion{
		BaseEntity:            shared.NewBaseEntity(),
		PaymentID:             paymentID,
		CouponType:            couponType,
		NumCouponCodes:        numCodes,
		MaxRedemptions:        maxRedemptions,
		MaxRedemptionsPerUser: maxRedemptionsPerUser,
		Amount:                amount,
		ActivationDate:        activation,
		ExpirationDate:        expiration,
	}, nil
}

// ContainsNow returns true if the version's validity window contains
// the given instant. Nil bounds are treated as unbounded.
func (v *CouponPaymentVersion) ContainsNow(now time.Time) bool {
	if v.ActivationDate != nil && v.ActivationDate.After(now) {
		return false
	}
	if v.ExpirationDate != nil && v.ExpirationDate.Before(now) {
		return false
	}
	return true
}

// IsFullDiscount returns true when the version discounts the full price
func (v *CouponPaymentVersion) IsFullDiscount() bool {
	return v.Amount.Equal(decimal.NewFromInt(1))
}

// DiscountedPrice applies the discount fraction to a price, rounded to
// cents
func (v *CouponPaymentVersion) DiscountedPrice(price decimal.Decimal) decimal.Decimal {
	return price.Sub(price.Mul(v.Amount)).Round(2)
}

// Coupon is a single discount code under a coupon payment
type Coupon struct {
	shared.BaseAggregateRoot
	PaymentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code      string    `gorm:"type:varchar(50);not null;index"`
	Enabled   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewCoupon creates a new coupon code under a payment
func NewCoupon(paymentID uuid.UUID, code string) (*Coupon, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot exceed 50 characters")
	}
	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentID:         paymentID,
		Code:              code,
		Enabled:           true,
	}, nil
}

// Disable disables the coupon
func (c *Coupon) Disable() {
	c.Enabled = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CouponVersion ties a coupon code to the payment-version terms in
// force when it was issued. Append-only; the latest version per coupon
// carries the current terms.
type CouponVersion struct {
	shared.BaseEntity
	CouponID         uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentVersionID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (CouponVersion) TableName() string {
	return "coupon_versions"
}

// NewCouponVersion creates a new coupon version
func NewCouponVersion(couponID, paymentVersionID uuid.UUID) *CouponVersion {
	return &CouponVersion{
		BaseEntity:       shared.NewBaseEntity(),
		CouponID:         couponID,
		PaymentVersionID: paymentVersionID,
	}
}

// CouponEligibility restricts a coupon to a specific product
type CouponEligibility struct {
	shared.BaseEntity
	CouponID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_product,priority:2"`
}

// TableName returns the table name for GORM
func (CouponEligibility) TableName() string {
	return "coupon_eligibilities"
}

// CouponRedemption records a coupon version applied to an order. At
// most one redemption exists per order.
type CouponRedemption struct {
	shared.BaseEntity
	CouponVersionID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CouponRedemption) TableName() string {
	return "coupon_redemptions"
}

// NewCouponRedemption creates a new coupon redemption for an order
func NewCouponRedemption(couponVersionID, orderID uuid.UUID) *CouponRedemption {
	return &CouponRedemption{
		BaseEntity:      shared.NewBaseEntity(),
		CouponVersionID: couponVersionID,
		OrderID:         orderID,
	}
}

// CandidateCouponVersion bundles the latest coupon version of an
// enabled, product-eligible coupon with its terms, as loaded by the
// repository for eligibility resolution
type CandidateCouponVersion struct {
	Coupon         Coupon
	CouponVersion  CouponVersion
	PaymentVersion CouponPaymentVersion
}

// RedemptionCounts holds fulfilled-order redemption tallies keyed by
// coupon version ID
type RedemptionCounts struct {
	Global  map[uuid.UUID]int64
	PerUser map[uuid.UUID]int64
}

// ResolveEligibleVersions filters candidate coupon versions down to
// those redeemable right now and orders them by discount amount,
// descending. A candidate survives when its validity window contains
// now, its global fulfilled redemption count is below MaxRedemptions,
// and the user's own count is below MaxRedemptionsPerUser. The head of
// the result is the best coupon for the product.
func ResolveEligibleVersions(candidates []CandidateCouponVersion, counts RedemptionCounts, now time.Time) []CandidateCouponVersion {
	eligible := make([]CandidateCouponVersion, 0, len(candidates))
	for _, c := range candidates {
		if !c.Coupon.Enabled {
			continue
		}
		if !c.PaymentVersion.ContainsNow(now) {
			continue
		}
		versionID := c.CouponVersion.ID
		if counts.Global[versionID] >= int64(c.PaymentVersion.MaxRedemptions) {
			continue
		}
		if counts.PerUser[versionID] >= int64(c.PaymentVersion.MaxRedemptionsPerUser) {
			continue
		}
		eligible = append(eligible, c)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].PaymentVersion.Amount.GreaterThan(eligible[j].PaymentVersion.Amount)
	})

	return eligible
}
