package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with its versions preloaded
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Product, error) {
	var product ecommerce.Product
	if err := r.db.WithContext(ctx).
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByObject finds the product selling a catalog object
func (r *GormProductRepository) FindByObject(ctx context.Context, productType ecommerce.ProductType, objectID uuid.UUID) (*ecommerce.Product, error) {
	var product ecommerce.Product
	if err := r.db.WithContext(ctx).
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("type = ? AND object_id = ?", productType, objectID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindVisible finds visible products with versions preloaded
func (r *GormProductRepository) FindVisible(ctx context.Context, filter shared.Filter) ([]ecommerce.Product, error) {
	var products []ecommerce.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ecommerce.Product{}).Where("visible = ?", true),
		filter,
	)
	if err := query.
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindVersionByID finds a product version by its ID
func (r *GormProductRepository) FindVersionByID(ctx context.Context, id uuid.UUID) (*ecommerce.ProductVersion, error) {
	var version ecommerce.ProductVersion
	if err := r.db.WithContext(ctx).First(&version, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// Save creates or updates a product and its versions
func (r *GormProductRepository) Save(ctx context.Context, product *ecommerce.Product) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

// Count counts visible products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&ecommerce.Product{}).Where("visible = ?", true),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter, ProductSortFields)
}

func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "object_id":
			query = query.Where("object_id = ?", value)
		}
	}
	return query
}

var _ ecommerce.ProductRepository = (*GormProductRepository)(nil)
