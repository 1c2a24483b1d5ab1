package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormB2BCouponRepository implements b2b.CouponRepository using GORM
type GormB2BCouponRepository struct {
	db *gorm.DB
}

// NewGormB2BCouponRepository creates a new GormB2BCouponRepository
func NewGormB2BCouponRepository(db *gorm.DB) *GormB2BCouponRepository {
	return &GormB2BCouponRepository{db: db}
}

// FindByCode finds a coupon by its code regardless of validity
func (r *GormB2BCouponRepository) FindByCode(ctx context.Context, code string) (*b2b.B2BCoupon, error) {
	var coupon b2b.B2BCoupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// HasSettledRedemption returns true if the coupon has a redemption
// attached to a fulfilled or refunded order
func (r *GormB2BCouponRepository) HasSettledRedemption(ctx context.Context, couponID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("b2b_coupon_redemptions cr").
		Joins("JOIN b2b_orders o ON o.id = cr.order_id").
		Where("cr.coupon_id = ? AND o.status IN ?", couponID,
			[]b2b.OrderStatus{b2b.OrderStatusFulfilled, b2b.OrderStatusRefunded}).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a coupon
func (r *GormB2BCouponRepository) Save(ctx context.Context, coupon *b2b.B2BCoupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

// SaveRedemption persists a coupon redemption
func (r *GormB2BCouponRepository) SaveRedemption(ctx context.Context, redemption *b2b.B2BCouponRedemption) error {
	return r.db.WithContext(ctx).Save(redemption).Error
}

// GormB2BOrderRepository implements b2b.OrderRepository using GORM
type GormB2BOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormB2BOrderRepository creates a new GormB2BOrderRepository
func NewGormB2BOrderRepository(db *gorm.DB) *GormB2BOrderRepository {
	return &GormB2BOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormB2BOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an order by its ID
func (r *GormB2BOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*b2b.B2BOrder, error) {
	var order b2b.B2BOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByUniqueID finds an order by its opaque unique identifier
func (r *GormB2BOrderRepository) FindByUniqueID(ctx context.Context, uniqueID uuid.UUID) (*b2b.B2BOrder, error) {
	var order b2b.B2BOrder
	if err := r.db.WithContext(ctx).First(&order, "unique_id = ?", uniqueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders matching the filter
func (r *GormB2BOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]b2b.B2BOrder, error) {
	var orders []b2b.B2BOrder
	query := r.db.WithContext(ctx).Model(&b2b.B2BOrder{})
	if filter.Search != "" {
		query = query.Where("email ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "email":
			query = query.Where("email = ?", value)
		}
	}
	query = applyPaginationAndOrder(query, filter, B2BOrderSortFields)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order
func (r *GormB2BOrderRepository) Save(ctx context.Context, order *b2b.B2BOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil {
			if events := order.GetDomainEvents(); len(events) > 0 {
				return r.outboxSaver.SaveEvents(ctx, tx, events...)
			}
		}
		return nil
	})
}

// SaveReceipt persists a gateway receipt
func (r *GormB2BOrderRepository) SaveReceipt(ctx context.Context, receipt *b2b.B2BReceipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// SaveAudit persists an order audit snapshot
func (r *GormB2BOrderRepository) SaveAudit(ctx context.Context, record *shared.AuditRecord) error {
	return r.db.WithContext(ctx).Table("b2b_order_audits").Create(record).Error
}

var (
	_ b2b.CouponRepository = (*GormB2BCouponRepository)(nil)
	_ b2b.OrderRepository  = (*GormB2BOrderRepository)(nil)
)
