package b2b

import (
	"context"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// CouponRepository defines the interface for B2B coupon persistence
type CouponRepository interface {
	// FindByCode finds a coupon by its code regardless of validity
	FindByCode(ctx context.Context, code string) (*B2BCoupon, error)

	// HasSettledRedemption returns true if the coupon has a redemption
	// attached to a fulfilled or refunded order. Non-reusable coupons
	// with a settled redemption are spent.
	HasSettledRedemption(ctx context.Context, couponID uuid.UUID) (bool, error)

	// Save creates or updates a coupon
	Save(ctx context.Context, coupon *B2BCoupon) error

	// SaveRedemption persists a coupon redemption
	SaveRedemption(ctx context.Context, redemption *B2BCouponRedemption) error
}

// OrderRepository defines the interface for bulk order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*B2BOrder, error)

	// FindByUniqueID finds an order by its opaque unique identifier
	FindByUniqueID(ctx context.Context, uniqueID uuid.UUID) (*B2BOrder, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]B2BOrder, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *B2BOrder) error

	// SaveReceipt persists a gateway receipt
	SaveReceipt(ctx context.Context, receipt *B2BReceipt) error

	// SaveAudit persists an order audit snapshot
	SaveAudit(ctx context.Context, record *shared.AuditRecord) error
}
