package ecommerce

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
)

// ProductService handles product business operations
type ProductService struct {
	productRepo ecommerce.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo ecommerce.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// Create creates a product with its first price version
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	productType := ecommerce.ProductType(req.Type)

	existing, err := s.productRepo.FindByObject(ctx, productType, req.ObjectID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product already sells this object")
	}

	product, err := ecommerce.NewProduct(productType, req.ObjectID)
	if err != nil {
		return nil, err
	}
	if _, err := product.AddVersion(req.Price, req.Description); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// AddVersion appends a new price version to a product
func (s *ProductService) AddVersion(ctx context.Context, productID uuid.UUID, req AddProductVersionRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if _, err := product.AddVersion(req.Price, req.Description); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// SetVisibility shows or hides a product in the storefront
func (s *ProductService) SetVisibility(ctx context.Context, productID uuid.UUID, visible bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if visible {
		product.Show()
	} else {
		product.Hide()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns visible products priced at their latest versions
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	products, err := s.productRepo.FindVisible(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}
