package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// PlatformRepository defines the interface for platform persistence
type PlatformRepository interface {
	// FindByID finds a platform by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Platform, error)

	// FindByName finds a platform by its name
	FindByName(ctx context.Context, name string) (*Platform, error)

	// FindAll finds all platforms
	FindAll(ctx context.Context) ([]Platform, error)

	// Save creates or updates a platform
	Save(ctx context.Context, platform *Platform) error
}

// ProgramRepository defines the interface for program persistence
type ProgramRepository interface {
	// FindByID finds a program by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Program, error)

	// FindByReadableID finds a program by its readable ID
	FindByReadableID(ctx context.Context, readableID string) (*Program, error)

	// FindLive finds all live programs with their courses preloaded
	FindLive(ctx context.Context, filter shared.Filter) ([]Program, error)

	// FindAll finds all programs matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Program, error)

	// MaxPosition returns the highest course position within a program,
	// or -1 when the program has no positioned courses
	MaxPosition(ctx context.Context, programID uuid.UUID) (int, error)

	// Save creates or updates a program
	Save(ctx context.Context, program *Program) error

	// Delete deletes a program
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts programs matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CourseRepository defines the interface for course persistence
type CourseRepository interface {
	// FindByID finds a course by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Course, error)

	// FindByIDWithRuns finds a course with its runs and topics preloaded
	FindByIDWithRuns(ctx context.Context, id uuid.UUID) (*Course, error)

	// FindByReadableID finds a course by its readable ID
	FindByReadableID(ctx context.Context, readableID string) (*Course, error)

	// FindByExternalID finds an external course by its vendor identifier
	// and platform
	FindByExternalID(ctx context.Context, platformID uuid.UUID, externalCourseID string) (*Course, error)

	// FindLive finds all live courses with runs preloaded
	FindLive(ctx context.Context, filter shared.Filter) ([]Course, error)

	// FindAll finds all courses matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Course, error)

	// FindByProgram finds all courses belonging to a program ordered by
	// position
	FindByProgram(ctx context.Context, programID uuid.UUID) ([]Course, error)

	// Save creates or updates a course
	Save(ctx context.Context, course *Course) error

	// AttachTopic associates a topic with a course
	AttachTopic(ctx context.Context, courseID, topicID uuid.UUID) error

	// Delete deletes a course
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts courses matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CourseRunRepository defines the interface for course run persistence
type CourseRunRepository interface {
	// FindByID finds a course run by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CourseRun, error)

	// FindByIDs finds multiple course runs by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]CourseRun, error)

	// FindByCoursewareID finds a run by its courseware platform key
	FindByCoursewareID(ctx context.Context, coursewareID string) (*CourseRun, error)

	// FindByExternalID finds a run by its vendor run identifier
	FindByExternalID(ctx context.Context, externalCourseRunID string) (*CourseRun, error)

	// FindByCourse finds all runs of a course
	FindByCourse(ctx context.Context, courseID uuid.UUID) ([]CourseRun, error)

	// Save creates or updates a course run
	Save(ctx context.Context, run *CourseRun) error

	// Delete deletes a course run
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseTopicRepository defines the interface for topic persistence
type CourseTopicRepository interface {
	// FindByName finds a topic by its name
	FindByName(ctx context.Context, name string) (*CourseTopic, error)

	// FindAll finds all topics
	FindAll(ctx context.Context) ([]CourseTopic, error)

	// Save creates or updates a topic
	Save(ctx context.Context, topic *CourseTopic) error
}
