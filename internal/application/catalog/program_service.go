package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/shared"
)

// ProgramService handles program-related business operations
type ProgramService struct {
	programRepo catalog.ProgramRepository
}

// NewProgramService creates a new ProgramService
func NewProgramService(programRepo catalog.ProgramRepository) *ProgramService {
	return &ProgramService{
		programRepo: programRepo,
	}
}

// Create creates a new program
func (s *ProgramService) Create(ctx context.Context, req CreateProgramRequest) (*ProgramResponse, error) {
	existing, err := s.programRepo.FindByReadableID(ctx, req.ReadableID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Program with this readable ID already exists")
	}

	program, err := catalog.NewProgram(req.Title, req.ReadableID)
	if err != nil {
		return nil, err
	}

	if err := s.programRepo.Save(ctx, program); err != nil {
		return nil, err
	}

	resp := ToProgramResponse(program)
	return &resp, nil
}

// Update updates a program's title and live flag
func (s *ProgramService) Update(ctx context.Context, id uuid.UUID, req UpdateProgramRequest) (*ProgramResponse, error) {
	program, err := s.programRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := program.Update(req.Title); err != nil {
		return nil, err
	}
	if req.Live != nil {
		if *req.Live {
			program.Publish()
		} else {
			program.Unpublish()
		}
	}

	if err := s.programRepo.Save(ctx, program); err != nil {
		return nil, err
	}

	resp := ToProgramResponse(program)
	return &resp, nil
}

// Get returns a program by ID
func (s *ProgramService) Get(ctx context.Context, id uuid.UUID) (*ProgramResponse, error) {
	program, err := s.programRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProgramResponse(program)
	return &resp, nil
}

// GetByReadableID returns a program by its readable ID
func (s *ProgramService) GetByReadableID(ctx context.Context, readableID string) (*ProgramResponse, error) {
	program, err := s.programRepo.FindByReadableID(ctx, readableID)
	if err != nil {
		return nil, err
	}
	resp := ToProgramResponse(program)
	return &resp, nil
}

// List returns programs matching the filter with pagination
func (s *ProgramService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProgramResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	programs, err := s.programRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.programRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProgramResponse, len(programs))
	for i := range programs {
		responses[i] = ToProgramResponse(&programs[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListLive returns live programs with their courses for the storefront
func (s *ProgramService) ListLive(ctx context.Context, filter shared.Filter) ([]ProgramResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	programs, err := s.programRepo.FindLive(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProgramResponse, len(programs))
	for i := range programs {
		responses[i] = ToProgramResponse(&programs[i])
	}
	return responses, nil
}

// Delete deletes a program
func (s *ProgramService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.programRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.programRepo.Delete(ctx, id)
}
