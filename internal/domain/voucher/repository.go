package voucher

import (
	"context"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// Repository defines the interface for voucher persistence
type Repository interface {
	// FindByID finds a voucher by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)

	// FindByUser finds a user's vouchers
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Voucher, error)

	// FindAttachedCouponIDs lists coupon IDs already attached to any
	// voucher, used to exclude them from eligible-coupon lookup
	FindAttachedCouponIDs(ctx context.Context) ([]uuid.UUID, error)

	// Save creates or updates a voucher
	Save(ctx context.Context, v *Voucher) error
}
