package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
)

// CourseService handles course and topic business operations
type CourseService struct {
	courseRepo  catalog.CourseRepository
	programRepo catalog.ProgramRepository
	topicRepo   catalog.CourseTopicRepository
	productRepo ecommerce.ProductRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo catalog.CourseRepository,
	programRepo catalog.ProgramRepository,
	topicRepo catalog.CourseTopicRepository,
	productRepo ecommerce.ProductRepository,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		programRepo: programRepo,
		topicRepo:   topicRepo,
		productRepo: productRepo,
	}
}

// Create creates a new course, optionally placing it into a program.
// When no position is given the course is appended after the program's
// last course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*CourseResponse, error) {
	existing, err := s.courseRepo.FindByReadableID(ctx, req.ReadableID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Course with this readable ID already exists")
	}

	course, err := catalog.NewCourse(req.Title, req.ReadableID)
	if err != nil {
		return nil, err
	}

	if req.ProgramID != nil {
		if _, err := s.programRepo.FindByID(ctx, *req.ProgramID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PROGRAM", "Program not found")
			}
			return nil, err
		}
		position := req.Position
		if position == nil {
			maxPos, err := s.programRepo.MaxPosition(ctx, *req.ProgramID)
			if err != nil {
				return nil, err
			}
			next := maxPos + 1
			position = &next
		}
		course.AssignToProgram(*req.ProgramID, position)
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	resp := ToCourseResponse(course)
	return &resp, nil
}

// Update updates a course's title and live flag
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, req UpdateCourseRequest) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := course.Update(req.Title); err != nil {
		return nil, err
	}
	if req.Live != nil {
		if *req.Live {
			course.Publish()
		} else {
			course.Unpublish()
		}
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	resp := ToCourseResponse(course)
	return &resp, nil
}

// UpdateMarketing replaces a course's marketing page metadata
func (s *CourseService) UpdateMarketing(ctx context.Context, id uuid.UUID, req UpdateCourseMarketingRequest) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.UpdateMarketing(req.Subhead, req.Duration, req.Format, req.Description, req.MarketingURL)
	course.Outcomes = req.Outcomes
	course.TargetAudience = req.TargetAudience

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	resp := ToCourseResponse(course)
	return &resp, nil
}

// Get returns a course with its runs and topics
func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByIDWithRuns(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCourseResponse(course)
	return &resp, nil
}

// List returns courses matching the filter with pagination
func (s *CourseService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CourseResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	courses, err := s.courseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.courseRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CourseResponse, len(courses))
	for i := range courses {
		responses[i] = ToCourseResponse(&courses[i])
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListLive returns live courses with runs for the storefront
func (s *CourseService) ListLive(ctx context.Context, filter shared.Filter) ([]CourseResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	courses, err := s.courseRepo.FindLive(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CourseResponse, len(courses))
	for i := range courses {
		responses[i] = ToCourseResponse(&courses[i])
	}
	return responses, nil
}

// AttachTopic attaches a topic to a course, creating the topic when it
// does not exist yet
func (s *CourseService) AttachTopic(ctx context.Context, courseID uuid.UUID, req AttachTopicRequest) (*TopicResponse, error) {
	course, err := s.courseRepo.FindByIDWithRuns(ctx, courseID)
	if err != nil {
		return nil, err
	}

	topic, err := s.topicRepo.FindByName(ctx, req.Name)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		topic, err = catalog.NewCourseTopic(req.Name)
		if err != nil {
			return nil, err
		}
		if err := s.topicRepo.Save(ctx, topic); err != nil {
			return nil, err
		}
	}

	if !course.HasTopic(topic.Name) {
		if err := s.courseRepo.AttachTopic(ctx, course.ID, topic.ID); err != nil {
			return nil, err
		}
	}

	resp := ToTopicResponse(topic)
	return &resp, nil
}

// ListTopics returns all course topics
func (s *CourseService) ListTopics(ctx context.Context) ([]TopicResponse, error) {
	topics, err := s.topicRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]TopicResponse, len(topics))
	for i := range topics {
		responses[i] = ToTopicResponse(&topics[i])
	}
	return responses, nil
}

// CoursePage builds the storefront payload for a course page: the
// course with its marketing metadata, the next enrollable run and the
// purchasable product priced at its latest version.
func (s *CourseService) CoursePage(ctx context.Context, readableID string) (*CoursePageResponse, error) {
	course, err := s.courseRepo.FindByReadableID(ctx, readableID)
	if err != nil {
		return nil, err
	}
	course, err = s.courseRepo.FindByIDWithRuns(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	page := &CoursePageResponse{
		Course: ToCourseResponse(course),
	}

	nextRun := course.FirstUnexpiredRun()
	if nextRun == nil {
		return page, nil
	}
	runResp := ToCourseRunResponse(nextRun)
	page.NextRun = &runResp

	product, err := s.productRepo.FindByObject(ctx, ecommerce.ProductTypeCourseRun, nextRun.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return page, nil
		}
		return nil, err
	}
	if !product.Visible {
		return page, nil
	}
	if latest := product.LatestVersion(); latest != nil {
		page.Product = &ProductOfferResponse{
			ProductID:        product.ID,
			ProductVersionID: latest.ID,
			Price:            latest.Price,
			Description:      latest.Description,
		}
	}

	return page, nil
}

// Delete deletes a course
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.courseRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.courseRepo.Delete(ctx, id)
}
