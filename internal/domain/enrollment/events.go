package enrollment

import (
	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeEnrollment = "CourseRunEnrollment"

// Event type constants
const (
	EventTypeEnrollmentCreated          = "EnrollmentCreated"
	EventTypeEnrollmentDeactivated      = "EnrollmentDeactivated"
	EventTypeCoursewareEnrollmentFailed = "CoursewareEnrollmentFailed"
)

// EnrollmentCreatedEvent is published when a user is enrolled in a run.
// The welcome email reacts to it.
type EnrollmentCreatedEvent struct {
	shared.BaseDomainEvent
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	UserID       uuid.UUID `json:"user_id"`
	RunID        uuid.UUID `json:"run_id"`
}

// NewEnrollmentCreatedEvent creates a new EnrollmentCreatedEvent
func NewEnrollmentCreatedEvent(e *CourseRunEnrollment) *EnrollmentCreatedEvent {
	return &EnrollmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEnrollmentCreated, AggregateTypeEnrollment, e.ID),
		EnrollmentID:    e.ID,
		UserID:          e.UserID,
		RunID:           e.RunID,
	}
}

// CoursewareEnrollmentFailedEvent is published when the courseware
// platform rejects an enrollment. The local row still commits with
// EdxEnrolled false; support is notified by email so the enrollment
// can be repaired by hand.
type CoursewareEnrollmentFailedEvent struct {
	shared.BaseDomainEvent
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	UserID       uuid.UUID `json:"user_id"`
	RunID        uuid.UUID `json:"run_id"`
	CoursewareID string    `json:"courseware_id"`
	Reason       string    `json:"reason"`
}

// NewCoursewareEnrollmentFailedEvent creates a new CoursewareEnrollmentFailedEvent
func NewCoursewareEnrollmentFailedEvent(e *CourseRunEnrollment, coursewareID, reason string) *CoursewareEnrollmentFailedEvent {
	return &CoursewareEnrollmentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCoursewareEnrollmentFailed, AggregateTypeEnrollment, e.ID),
		EnrollmentID:    e.ID,
		UserID:          e.UserID,
		RunID:           e.RunID,
		CoursewareID:    coursewareID,
		Reason:          reason,
	}
}

// EnrollmentDeactivatedEvent is published when an enrollment ends
type EnrollmentDeactivatedEvent struct {
	shared.BaseDomainEvent
	EnrollmentID uuid.UUID    `json:"enrollment_id"`
	UserID       uuid.UUID    `json:"user_id"`
	RunID        uuid.UUID    `json:"run_id"`
	ChangeStatus ChangeStatus `json:"change_status"`
}

// NewEnrollmentDeactivatedEvent creates a new EnrollmentDeactivatedEvent
func NewEnrollmentDeactivatedEvent(e *CourseRunEnrollment) *EnrollmentDeactivatedEvent {
	return &EnrollmentDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEnrollmentDeactivated, AggregateTypeEnrollment, e.ID),
		EnrollmentID:    e.ID,
		UserID:          e.UserID,
		RunID:           e.RunID,
		ChangeStatus:    e.ChangeStatus,
	}
}
