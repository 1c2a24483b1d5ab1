package enrollment

import (
	"context"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// Repository defines the interface for enrollment persistence
type Repository interface {
	// FindByID finds a course run enrollment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CourseRunEnrollment, error)

	// FindByUserAndRun finds a user's enrollment in a run
	FindByUserAndRun(ctx context.Context, userID, runID uuid.UUID) (*CourseRunEnrollment, error)

	// FindActiveByUser finds a user's active enrollments
	FindActiveByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]CourseRunEnrollment, error)

	// Save creates or updates a course run enrollment
	Save(ctx context.Context, enrollment *CourseRunEnrollment) error

	// FindProgramEnrollment finds a user's enrollment in a program
	FindProgramEnrollment(ctx context.Context, userID, programID uuid.UUID) (*ProgramEnrollment, error)

	// SaveProgramEnrollment creates or updates a program enrollment
	SaveProgramEnrollment(ctx context.Context, enrollment *ProgramEnrollment) error
}
