package ecommerce

import (
	"github.com/xpro/backend/internal/domain/shared"
)

// Company represents a corporate purchaser that sponsors coupons or
// bulk enrollment orders
type Company struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new company
func NewCompany(name string) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 255 characters")
	}
	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}
