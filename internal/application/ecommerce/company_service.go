package ecommerce

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
)

// CompanyService handles company business operations
type CompanyService struct {
	companyRepo ecommerce.CompanyRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo ecommerce.CompanyRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
	}
}

// Create creates a new company
func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	existing, err := s.companyRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Company with this name already exists")
	}

	company, err := ecommerce.NewCompany(req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	resp := ToCompanyResponse(company)
	return &resp, nil
}

// Get returns a company by ID
func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// List returns all companies
func (s *CompanyService) List(ctx context.Context, filter shared.Filter) ([]CompanyResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	companies, err := s.companyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses, nil
}
