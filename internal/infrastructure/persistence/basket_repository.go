package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBasketRepository implements BasketRepository using GORM
type GormBasketRepository struct {
	db *gorm.DB
}

// NewGormBasketRepository creates a new GormBasketRepository
func NewGormBasketRepository(db *gorm.DB) *GormBasketRepository {
	return &GormBasketRepository{db: db}
}

// FindByUser finds a user's basket with items and selections preloaded
func (r *GormBasketRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*ecommerce.Basket, error) {
	var basket ecommerce.Basket
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("RunSelections").
		Preload("CouponSelections").
		First(&basket, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &basket, nil
}

// GetOrCreateForUser returns the user's basket, creating it if absent
func (r *GormBasketRepository) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*ecommerce.Basket, error) {
	basket, err := r.FindByUser(ctx, userID)
	if err == nil {
		return basket, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	basket = ecommerce.NewBasket(userID)
	if err := r.db.WithContext(ctx).Create(basket).Error; err != nil {
		return nil, err
	}
	return basket, nil
}

// Save persists the basket and replaces its items and selections.
// Child rows are deleted and re-inserted so removals stick.
func (r *GormBasketRepository) Save(ctx context.Context, basket *ecommerce.Basket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("basket_id = ?", basket.ID).Delete(&ecommerce.BasketItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("basket_id = ?", basket.ID).Delete(&ecommerce.CourseRunSelection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("basket_id = ?", basket.ID).Delete(&ecommerce.CouponSelection{}).Error; err != nil {
			return err
		}

		if err := tx.Omit("Items", "RunSelections", "CouponSelections").Save(basket).Error; err != nil {
			return err
		}
		if len(basket.Items) > 0 {
			if err := tx.Create(&basket.Items).Error; err != nil {
				return err
			}
		}
		if len(basket.RunSelections) > 0 {
			if err := tx.Create(&basket.RunSelections).Error; err != nil {
				return err
			}
		}
		if len(basket.CouponSelections) > 0 {
			if err := tx.Create(&basket.CouponSelections).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var _ ecommerce.BasketRepository = (*GormBasketRepository)(nil)
