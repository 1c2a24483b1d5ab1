package ecommerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/shared"
)

// ProductType identifies what kind of catalog object a product sells
type ProductType string

const (
	ProductTypeCourseRun ProductType = "course_run"
	ProductTypeProgram   ProductType = "program"
)

// Product represents a purchasable SKU pointing at a course run or a
// program. Prices and descriptions live on append-only versions; the
// latest version is the current one.
type Product struct {
	shared.BaseAggregateRoot
	Type     ProductType `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_type_object,priority:1"`
	ObjectID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_product_type_object,priority:2"`
	Visible  bool        `gorm:"not null;default:true"`
	Versions []ProductVersion
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product for a course run or program
func NewProduct(productType ProductType, objectID uuid.UUID) (*Product, error) {
	if productType != ProductTypeCourseRun && productType != ProductTypeProgram {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type must be course_run or program")
	}
	if objectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OBJECT", "Product must reference a catalog object")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              productType,
		ObjectID:          objectID,
		Visible:           true,
	}, nil
}

// AddVersion appends a new version with the given price and description.
// Versions are never mutated in place so fulfilled order lines keep
// pointing at the terms they were sold under.
func (p *Product) AddVersion(price decimal.Decimal, description string) (*ProductVersion, error) {
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	version := &ProductVersion{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   p.ID,
		Price:       price,
		Description: description,
	}
	p.Versions = append(p.Versions, *version)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return version, nil
}

// LatestVersion returns the most recently created version, or nil when
// the product has no versions yet
func (p *Product) LatestVersion() *ProductVersion {
	var latest *ProductVersion
	for i := range p.Versions {
		v := &p.Versions[i]
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	return latest
}

// Hide removes the product from storefront listings
func (p *Product) Hide() {
	p.Visible = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Show makes the product visible in storefront listings
func (p *Product) Show() {
	p.Visible = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ProductVersion is an immutable snapshot of a product's price and
// description
type ProductVersion struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductVersion) TableName() string {
	return "product_versions"
}
