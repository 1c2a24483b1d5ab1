package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/domain/voucher"
	"gorm.io/gorm"
)

// GormVoucherRepository implements voucher.Repository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher by its ID
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	var v voucher.Voucher
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindByUser finds a user's vouchers
func (r *GormVoucherRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]voucher.Voucher, error) {
	var vouchers []voucher.Voucher
	query := r.db.WithContext(ctx).
		Model(&voucher.Voucher{}).
		Where("user_id = ?", userID)
	for key, value := range filter.Filters {
		switch key {
		case "redeemed":
			if redeemed, ok := value.(bool); ok {
				if redeemed {
					query = query.Where("redeemed_at IS NOT NULL")
				} else {
					query = query.Where("redeemed_at IS NULL")
				}
			}
		case "company_id":
			query = query.Where("company_id = ?", value)
		}
	}
	query = applyPaginationAndOrder(query, filter, VoucherSortFields)
	if err := query.Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// FindAttachedCouponIDs lists coupon IDs already attached to any
// voucher
func (r *GormVoucherRepository) FindAttachedCouponIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&voucher.Voucher{}).
		Where("coupon_id IS NOT NULL").
		Pluck("coupon_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates a voucher
func (r *GormVoucherRepository) Save(ctx context.Context, v *voucher.Voucher) error {
	return r.db.WithContext(ctx).Save(v).Error
}

var _ voucher.Repository = (*GormVoucherRepository)(nil)
