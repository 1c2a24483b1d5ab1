package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/shared"
)

// CourseRunService handles course run business operations
type CourseRunService struct {
	runRepo    catalog.CourseRunRepository
	courseRepo catalog.CourseRepository
}

// NewCourseRunService creates a new CourseRunService
func NewCourseRunService(runRepo catalog.CourseRunRepository, courseRepo catalog.CourseRepository) *CourseRunService {
	return &CourseRunService{
		runRepo:    runRepo,
		courseRepo: courseRepo,
	}
}

// Create creates a new course run
func (s *CourseRunService) Create(ctx context.Context, req CreateCourseRunRequest) (*CourseRunResponse, error) {
	if _, err := s.courseRepo.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_COURSE", "Course not found")
		}
		return nil, err
	}

	existing, err := s.runRepo.FindByCoursewareID(ctx, req.CoursewareID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Course run with this courseware ID already exists")
	}

	run, err := catalog.NewCourseRun(req.CourseID, req.Title, req.CoursewareID, req.RunTag)
	if err != nil {
		return nil, err
	}

	if err := run.SetSchedule(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := run.SetEnrollmentWindow(req.EnrollmentStart, req.EnrollmentEnd); err != nil {
		return nil, err
	}
	if err := run.SetExpiration(req.ExpirationDate); err != nil {
		return nil, err
	}
	if req.CoursewareURLPath != "" {
		run.SetCoursewareURLPath(req.CoursewareURLPath)
	}
	if req.Live {
		run.Publish()
	}

	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, err
	}

	resp := ToCourseRunResponse(run)
	return &resp, nil
}

// Update updates a course run's title, schedule and live flag
func (s *CourseRunService) Update(ctx context.Context, id uuid.UUID, req UpdateCourseRunRequest) (*CourseRunResponse, error) {
	run, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	run.Title = req.Title
	if err := run.SetSchedule(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := run.SetEnrollmentWindow(req.EnrollmentStart, req.EnrollmentEnd); err != nil {
		return nil, err
	}
	if err := run.SetExpiration(req.ExpirationDate); err != nil {
		return nil, err
	}
	if req.Live != nil && *req.Live {
		run.Publish()
	}

	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, err
	}

	resp := ToCourseRunResponse(run)
	return &resp, nil
}

// Get returns a course run by ID
func (s *CourseRunService) Get(ctx context.Context, id uuid.UUID) (*CourseRunResponse, error) {
	run, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCourseRunResponse(run)
	return &resp, nil
}

// ListByCourse returns all runs of a course
func (s *CourseRunService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]CourseRunResponse, error) {
	runs, err := s.runRepo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	responses := make([]CourseRunResponse, len(runs))
	for i := range runs {
		responses[i] = ToCourseRunResponse(&runs[i])
	}
	return responses, nil
}

// Delete deletes a course run
func (s *CourseRunService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.runRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.runRepo.Delete(ctx, id)
}
