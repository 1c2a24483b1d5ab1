package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/enrollment"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormEnrollmentRepository implements enrollment.Repository using GORM
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// FindByID finds a course run enrollment by its ID
func (r *GormEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.CourseRunEnrollment, error) {
	var e enrollment.CourseRunEnrollment
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByUserAndRun finds a user's enrollment in a run
func (r *GormEnrollmentRepository) FindByUserAndRun(ctx context.Context, userID, runID uuid.UUID) (*enrollment.CourseRunEnrollment, error) {
	var e enrollment.CourseRunEnrollment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND run_id = ?", userID, runID).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindActiveByUser finds a user's active enrollments
func (r *GormEnrollmentRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]enrollment.CourseRunEnrollment, error) {
	var enrollments []enrollment.CourseRunEnrollment
	query := r.db.WithContext(ctx).
		Model(&enrollment.CourseRunEnrollment{}).
		Where("user_id = ? AND active = ?", userID, true)
	for key, value := range filter.Filters {
		switch key {
		case "run_id":
			query = query.Where("run_id = ?", value)
		case "edx_enrolled":
			query = query.Where("edx_enrolled = ?", value)
		}
	}
	query = applyPaginationAndOrder(query, filter, EnrollmentSortFields)
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Save creates or updates a course run enrollment
func (r *GormEnrollmentRepository) Save(ctx context.Context, e *enrollment.CourseRunEnrollment) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// FindProgramEnrollment finds a user's enrollment in a program
func (r *GormEnrollmentRepository) FindProgramEnrollment(ctx context.Context, userID, programID uuid.UUID) (*enrollment.ProgramEnrollment, error) {
	var e enrollment.ProgramEnrollment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// SaveProgramEnrollment creates or updates a program enrollment
func (r *GormEnrollmentRepository) SaveProgramEnrollment(ctx context.Context, e *enrollment.ProgramEnrollment) error {
	return r.db.WithContext(ctx).Save(e).Error
}

var _ enrollment.Repository = (*GormEnrollmentRepository)(nil)
