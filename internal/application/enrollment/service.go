package enrollment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/enrollment"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// EnrollmentService creates and revokes course run enrollments and
// mirrors them onto the courseware platform. The courseware call runs
// first so its outcome lands on the row, but a courseware failure never
// blocks the local enrollment from committing.
type EnrollmentService struct {
	enrollmentRepo enrollment.Repository
	orderRepo      ecommerce.OrderRepository
	productRepo    ecommerce.ProductRepository
	courseRepo     catalog.CourseRepository
	runRepo        catalog.CourseRunRepository
	userRepo       identity.UserRepository
	client         CoursewareClient
	tokens         TokenProvider
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo enrollment.Repository,
	orderRepo ecommerce.OrderRepository,
	productRepo ecommerce.ProductRepository,
	courseRepo catalog.CourseRepository,
	runRepo catalog.CourseRunRepository,
	userRepo identity.UserRepository,
	client CoursewareClient,
	tokens TokenProvider,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		courseRepo:     courseRepo,
		runRepo:        runRepo,
		userRepo:       userRepo,
		client:         client,
		tokens:         tokens,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *EnrollmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// FulfillOrderEnrollments enrolls the purchaser in every run covered by
// a fulfilled order. Course run products enroll their run directly;
// program products create a program enrollment plus one run enrollment
// per member course, honoring the purchaser's run selections and
// falling back to each course's first unexpired run where no selection
// was made.
func (s *EnrollmentService) FulfillOrderEnrollments(ctx context.Context, orderID, purchaserID uuid.UUID, selectedRunIDs []uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, purchaserID)
	if err != nil {
		return err
	}

	selected := make(map[uuid.UUID]bool, len(selectedRunIDs))
	for _, id := range selectedRunIDs {
		selected[id] = true
	}

	runs, err := s.orderRuns(ctx, orderID, user.ID, true, selected)
	if err != nil {
		return err
	}

	for i := range runs {
		if err := s.createEnrollment(ctx, user, &runs[i], &orderID, nil); err != nil {
			return err
		}
	}
	return nil
}

// RevokeOrderEnrollments deactivates the purchaser's enrollments for a
// refunded order and unenrolls them from the courseware platform on a
// best effort basis
func (s *EnrollmentService) RevokeOrderEnrollments(ctx context.Context, orderID, purchaserID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, purchaserID)
	if err != nil {
		return err
	}

	runs, err := s.orderRuns(ctx, orderID, user.ID, false, nil)
	if err != nil {
		return err
	}

	for i := range runs {
		run := &runs[i]
		existing, err := s.enrollmentRepo.FindByUserAndRun(ctx, user.ID, run.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		if !existing.Active {
			continue
		}

		if err := existing.Deactivate(enrollment.ChangeStatusRefunded); err != nil {
			return err
		}
		if err := s.enrollmentRepo.Save(ctx, existing); err != nil {
			return err
		}
		s.unenrollBestEffort(ctx, user, run)
		s.publishEvents(ctx, existing)
	}
	return nil
}

// Defer moves a learner from one run of a course to a target run of the
// same course
func (s *EnrollmentService) Defer(ctx context.Context, req DeferRequest) (*EnrollmentResponse, error) {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	fromRun, err := s.runRepo.FindByID(ctx, req.FromRunID)
	if err != nil {
		return nil, err
	}
	targetRun, err := s.runRepo.FindByID(ctx, req.TargetRunID)
	if err != nil {
		return nil, err
	}
	if targetRun.CourseID != fromRun.CourseID {
		return nil, shared.NewDomainError("RUN_MISMATCH", "Target run belongs to a different course")
	}
	if !targetRun.IsUnexpired() {
		return nil, shared.NewDomainError("RUN_EXPIRED", "Target run is no longer open for enrollment")
	}

	existing, err := s.enrollmentRepo.FindByUserAndRun(ctx, user.ID, fromRun.ID)
	if err != nil {
		return nil, err
	}
	if err := existing.Deactivate(enrollment.ChangeStatusDeferred); err != nil {
		return nil, err
	}
	if err := s.enrollmentRepo.Save(ctx, existing); err != nil {
		return nil, err
	}
	s.unenrollBestEffort(ctx, user, fromRun)
	s.publishEvents(ctx, existing)

	if err := s.createEnrollment(ctx, user, targetRun, existing.OrderID, existing.CompanyID); err != nil {
		return nil, err
	}

	created, err := s.enrollmentRepo.FindByUserAndRun(ctx, user.ID, targetRun.ID)
	if err != nil {
		return nil, err
	}
	resp := ToEnrollmentResponse(created, targetRun)
	return &resp, nil
}

// Deactivate ends an enrollment with the given change status. Refunds
// and transfers also unenroll on the courseware platform.
func (s *EnrollmentService) Deactivate(ctx context.Context, req DeactivateRequest) error {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	run, err := s.runRepo.FindByID(ctx, req.RunID)
	if err != nil {
		return err
	}

	existing, err := s.enrollmentRepo.FindByUserAndRun(ctx, user.ID, run.ID)
	if err != nil {
		return err
	}
	if err := existing.Deactivate(enrollment.ChangeStatus(req.Status)); err != nil {
		return err
	}
	if err := s.enrollmentRepo.Save(ctx, existing); err != nil {
		return err
	}

	if existing.ChangeStatus != enrollment.ChangeStatusDeferred {
		s.unenrollBestEffort(ctx, user, run)
	}
	s.publishEvents(ctx, existing)
	return nil
}

// ListForUser returns the user's active enrollments with their run
// details
func (s *EnrollmentService) ListForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]EnrollmentResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	enrollments, err := s.enrollmentRepo.FindActiveByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	runIDs := make([]uuid.UUID, len(enrollments))
	for i := range enrollments {
		runIDs[i] = enrollments[i].RunID
	}
	runs, err := s.runRepo.FindByIDs(ctx, runIDs)
	if err != nil {
		return nil, err
	}
	runsByID := make(map[uuid.UUID]*catalog.CourseRun, len(runs))
	for i := range runs {
		runsByID[runs[i].ID] = &runs[i]
	}

	responses := make([]EnrollmentResponse, len(enrollments))
	for i := range enrollments {
		responses[i] = ToEnrollmentResponse(&enrollments[i], runsByID[enrollments[i].RunID])
	}
	return responses, nil
}

// orderRuns resolves the course runs an order's lines cover. Program
// lines expand to one run per member course. When ensureProgram is set,
// missing program enrollments are created along the way.
func (s *EnrollmentService) orderRuns(ctx context.Context, orderID, userID uuid.UUID, ensureProgram bool, selected map[uuid.UUID]bool) ([]catalog.CourseRun, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var runs []catalog.CourseRun
	for _, line := range order.Lines {
		version, err := s.productRepo.FindVersionByID(ctx, line.ProductVersionID)
		if err != nil {
			return nil, err
		}
		product, err := s.productRepo.FindByID(ctx, version.ProductID)
		if err != nil {
			return nil, err
		}

		switch product.Type {
		case ecommerce.ProductTypeCourseRun:
			run, err := s.runRepo.FindByID(ctx, product.ObjectID)
			if err != nil {
				return nil, err
			}
			runs = append(runs, *run)

		case ecommerce.ProductTypeProgram:
			if ensureProgram {
				if err := s.ensureProgramEnrollment(ctx, userID, product.ObjectID, &orderID); err != nil {
					return nil, err
				}
			}
			courseRuns, err := s.programRuns(ctx, product.ObjectID, selected)
			if err != nil {
				return nil, err
			}
			runs = append(runs, courseRuns...)
		}
	}
	return runs, nil
}

// programRuns picks one run per course in a program: the run the
// purchaser selected in their basket when present, otherwise the
// course's first unexpired run. Courses with no usable run are logged
// and skipped.
func (s *EnrollmentService) programRuns(ctx context.Context, programID uuid.UUID, selected map[uuid.UUID]bool) ([]catalog.CourseRun, error) {
	courses, err := s.courseRepo.FindByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}

	var runs []catalog.CourseRun
	for i := range courses {
		course := &courses[i]
		courseRuns, err := s.runRepo.FindByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		course.Runs = courseRuns

		run := selectedCourseRun(courseRuns, selected)
		if run == nil {
			run = course.FirstUnexpiredRun()
		}
		if run == nil {
			s.logger.Warn("no open run for program course",
				zap.String("program_id", programID.String()),
				zap.String("course_id", course.ID.String()),
				zap.String("readable_id", course.ReadableID),
			)
			continue
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

// selectedCourseRun returns the run from the candidate set the
// purchaser selected, or nil if none of them was
func selectedCourseRun(courseRuns []catalog.CourseRun, selected map[uuid.UUID]bool) *catalog.CourseRun {
	for i := range courseRuns {
		if selected[courseRuns[i].ID] {
			return &courseRuns[i]
		}
	}
	return nil
}

func (s *EnrollmentService) ensureProgramEnrollment(ctx context.Context, userID, programID uuid.UUID, orderID *uuid.UUID) error {
	_, err := s.enrollmentRepo.FindProgramEnrollment(ctx, userID, programID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return s.enrollmentRepo.SaveProgramEnrollment(ctx, enrollment.NewProgramEnrollment(userID, programID, orderID, nil))
}

// createEnrollment writes one course run enrollment, reactivating a
// previously deactivated row when one exists. The courseware call runs
// before the save so EdxEnrolled reflects its outcome; its failure is
// logged and the row commits with EdxEnrolled false.
func (s *EnrollmentService) createEnrollment(ctx context.Context, user *identity.User, run *catalog.CourseRun, orderID, companyID *uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "enrollment", "create")
	defer span.End()
	span.SetAttributes(telemetry.AttrCourseRunID.String(run.ID.String()))

	var target *enrollment.CourseRunEnrollment

	existing, err := s.enrollmentRepo.FindByUserAndRun(ctx, user.ID, run.ID)
	switch {
	case err == nil && existing.Active:
		return nil
	case err == nil:
		if err := existing.Reactivate(); err != nil {
			return err
		}
		target = existing
	case errors.Is(err, shared.ErrNotFound):
		target = enrollment.NewCourseRunEnrollment(user.ID, run.ID, orderID, companyID)
	default:
		return err
	}

	if err := s.coursewareEnroll(ctx, user, run); err != nil {
		s.logger.Error("courseware enrollment failed",
			zap.String("user_id", user.ID.String()),
			zap.String("courseware_id", run.CoursewareID),
			zap.Error(err),
		)
		target.AddDomainEvent(enrollment.NewCoursewareEnrollmentFailedEvent(target, run.CoursewareID, err.Error()))
	} else {
		target.MarkCoursewareEnrolled()
	}

	if err := s.enrollmentRepo.Save(ctx, target); err != nil {
		return err
	}
	s.publishEvents(ctx, target)
	return nil
}

func (s *EnrollmentService) coursewareEnroll(ctx context.Context, user *identity.User, run *catalog.CourseRun) error {
	token, err := s.tokens.AccessTokenForUser(ctx, user)
	if err != nil {
		return err
	}
	_, err = s.client.Enroll(ctx, token, user.Username, run.CoursewareID)
	return err
}

func (s *EnrollmentService) unenrollBestEffort(ctx context.Context, user *identity.User, run *catalog.CourseRun) {
	if err := s.client.Unenroll(ctx, user.Username, run.CoursewareID); err != nil {
		s.logger.Error("courseware unenrollment failed",
			zap.String("user_id", user.ID.String()),
			zap.String("courseware_id", run.CoursewareID),
			zap.Error(err),
		)
	}
}

func (s *EnrollmentService) publishEvents(ctx context.Context, e *enrollment.CourseRunEnrollment) {
	if s.eventPublisher != nil {
		for _, event := range e.GetDomainEvents() {
			s.eventPublisher.Publish(ctx, event)
		}
	}
	e.ClearDomainEvents()
}
