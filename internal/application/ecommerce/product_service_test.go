package ecommerce

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
)

func TestProductService_Create(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := NewProductService(productRepo)
	ctx := context.Background()
	objectID := uuid.New()

	productRepo.On("FindByObject", ctx, ecommerce.ProductTypeCourseRun, objectID).Return(nil, shared.ErrNotFound)
	productRepo.On("Save", ctx, mock.MatchedBy(func(p *ecommerce.Product) bool {
		return p.ObjectID == objectID && len(p.Versions) == 1
	})).Return(nil)

	resp, err := service.Create(ctx, CreateProductRequest{
		Type:        string(ecommerce.ProductTypeCourseRun),
		ObjectID:    objectID,
		Price:       decimal.NewFromInt(950),
		Description: "Data Science",
	})

	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(950)))
	productRepo.AssertExpectations(t)
}

func TestProductService_Create_DuplicateObject(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := NewProductService(productRepo)
	ctx := context.Background()

	product, _ := testRunProduct(t, decimal.NewFromInt(950))
	productRepo.On("FindByObject", ctx, ecommerce.ProductTypeCourseRun, product.ObjectID).Return(product, nil)

	resp, err := service.Create(ctx, CreateProductRequest{
		Type:     string(ecommerce.ProductTypeCourseRun),
		ObjectID: product.ObjectID,
		Price:    decimal.NewFromInt(950),
	})

	assert.Nil(t, resp)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_AddVersion_KeepsHistory(t *testing.T) {
	productRepo := new(MockProductRepository)
	service := NewProductService(productRepo)
	ctx := context.Background()

	product, _ := testRunProduct(t, decimal.NewFromInt(950))
	productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	productRepo.On("Save", ctx, product).Return(nil)

	resp, err := service.AddVersion(ctx, product.ID, AddProductVersionRequest{
		Price:       decimal.NewFromInt(1050),
		Description: "Data Science 2026",
	})

	require.NoError(t, err)
	assert.Len(t, product.Versions, 2)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(1050)))
}

func TestCompanyService_Create_DuplicateName(t *testing.T) {
	companyRepo := new(MockCompanyRepository)
	service := NewCompanyService(companyRepo)
	ctx := context.Background()

	existing, err := ecommerce.NewCompany("Globex")
	require.NoError(t, err)
	companyRepo.On("FindByName", ctx, "Globex").Return(existing, nil)

	resp, err := service.Create(ctx, CreateCompanyRequest{Name: "Globex"})

	assert.Nil(t, resp)
	require.Error(t, err)
	companyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
