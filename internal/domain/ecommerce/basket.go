package ecommerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// Basket holds a user's pending purchase. Each user has at most one
// basket; checkout drains it.
type Basket struct {
	shared.BaseAggregateRoot
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Items            []BasketItem
	RunSelections    []CourseRunSelection
	CouponSelections []CouponSelection
}

// TableName returns the table name for GORM
func (Basket) TableName() string {
	return "baskets"
}

// NewBasket creates a new basket for a user
func NewBasket(userID uuid.UUID) *Basket {
	return &Basket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
	}
}

// IsEmpty returns true if the basket holds no items
func (b *Basket) IsEmpty() bool {
	return len(b.Items) == 0
}

// ReplaceItem replaces the basket's contents with a single product.
// Run and coupon selections from the previous contents are dropped.
func (b *Basket) ReplaceItem(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	b.Items = []BasketItem{{
		BaseEntity: shared.NewBaseEntity(),
		BasketID:   b.ID,
		ProductID:  productID,
		Quantity:   quantity,
	}}
	b.RunSelections = nil
	b.CouponSelections = nil
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SelectRuns replaces the basket's course run selections
func (b *Basket) SelectRuns(runIDs []uuid.UUID) {
	selections := make([]CourseRunSelection, 0, len(runIDs))
	for _, runID := range runIDs {
		selections = append(selections, CourseRunSelection{
			BaseEntity: shared.NewBaseEntity(),
			BasketID:   b.ID,
			RunID:      runID,
		})
	}
	b.RunSelections = selections
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// ApplyCoupon selects a coupon for the basket, replacing any previous
// selection. A basket carries at most one coupon.
func (b *Basket) ApplyCoupon(couponID uuid.UUID) {
	b.CouponSelections = []CouponSelection{{
		BaseEntity: shared.NewBaseEntity(),
		BasketID:   b.ID,
		CouponID:   couponID,
	}}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// ClearCoupon removes the basket's coupon selection
func (b *Basket) ClearCoupon() {
	b.CouponSelections = nil
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// SelectedCouponID returns the selected coupon's ID, or nil when no
// coupon is applied
func (b *Basket) SelectedCouponID() *uuid.UUID {
	if len(b.CouponSelections) == 0 {
		return nil
	}
	return &b.CouponSelections[0].CouponID
}

// SelectedRunIDs returns the IDs of the selected course runs
func (b *Basket) SelectedRunIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.RunSelections))
	for _, s := range b.RunSelections {
		ids = append(ids, s.RunID)
	}
	return ids
}

// Clear empties the basket after checkout
func (b *Basket) Clear() {
	b.Items = nil
	b.RunSelections = nil
	b.CouponSelections = nil
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// BasketItem is a product placed in a basket
type BasketItem struct {
	shared.BaseEntity
	BasketID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (BasketItem) TableName() string {
	return "basket_items"
}

// CourseRunSelection records which run of the purchased product the
// user intends to enroll in
type CourseRunSelection struct {
	shared.BaseEntity
	BasketID uuid.UUID `gorm:"type:uuid;not null;index"`
	RunID    uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (CourseRunSelection) TableName() string {
	return "course_run_selections"
}

// CouponSelection records the coupon applied to a basket
type CouponSelection struct {
	shared.BaseEntity
	BasketID uuid.UUID `gorm:"type:uuid;not null;index"`
	CouponID uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (CouponSelection) TableName() string {
	return "coupon_selections"
}
