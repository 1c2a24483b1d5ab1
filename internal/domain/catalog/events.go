package catalog

import (
	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProgram   = "Program"
	AggregateTypeCourse    = "Course"
	AggregateTypeCourseRun = "CourseRun"
)

// Event type constants
const (
	EventTypeProgramCreated   = "ProgramCreated"
	EventTypeCourseCreated    = "CourseCreated"
	EventTypeCourseRunCreated = "CourseRunCreated"
)

// ProgramCreatedEvent is published when a new program is created
type ProgramCreatedEvent struct {
	shared.BaseDomainEvent
	ProgramID  uuid.UUID `json:"program_id"`
	Title      string    `json:"title"`
	ReadableID string    `json:"readable_id"`
}

// NewProgramCreatedEvent creates a new ProgramCreatedEvent
func NewProgramCreatedEvent(program *Program) *ProgramCreatedEvent {
	return &ProgramCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProgramCreated, AggregateTypeProgram, program.ID),
		ProgramID:       program.ID,
		Title:           program.Title,
		ReadableID:      program.ReadableID,
	}
}

// CourseCreatedEvent is published when a new course is created
type CourseCreatedEvent struct {
	shared.BaseDomainEvent
	CourseID   uuid.UUID `json:"course_id"`
	Title      string    `json:"title"`
	ReadableID string    `json:"readable_id"`
	IsExternal bool      `json:"is_external"`
}

// NewCourseCreatedEvent creates a new CourseCreatedEvent
func NewCourseCreatedEvent(course *Course) *CourseCreatedEvent {
	return &CourseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCourseCreated, AggregateTypeCourse, course.ID),
		CourseID:        course.ID,
		Title:           course.Title,
		ReadableID:      course.ReadableID,
		IsExternal:      course.IsExternal,
	}
}

// CourseRunCreatedEvent is published when a new course run is created
type CourseRunCreatedEvent struct {
	shared.BaseDomainEvent
	CourseRunID  uuid.UUID `json:"course_run_id"`
	CourseID     uuid.UUID `json:"course_id"`
	CoursewareID string    `json:"courseware_id"`
	RunTag       string    `json:"run_tag"`
}

// NewCourseRunCreatedEvent creates a new CourseRunCreatedEvent
func NewCourseRunCreatedEvent(run *CourseRun) *CourseRunCreatedEvent {
	return &CourseRunCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCourseRunCreated, AggregateTypeCourseRun, run.ID),
		CourseRunID:     run.ID,
		CourseID:        run.CourseID,
		CoursewareID:    run.CoursewareID,
		RunTag:          run.RunTag,
	}
}
