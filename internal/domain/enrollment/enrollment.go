package enrollment

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// ChangeStatus records why an enrollment was deactivated
type ChangeStatus string

const (
	ChangeStatusDeferred    ChangeStatus = "deferred"
	ChangeStatusTransferred ChangeStatus = "transferred"
	ChangeStatusRefunded    ChangeStatus = "refunded"
)

// CourseRunEnrollment is a user's registration in a course run,
// mirrored to the courseware platform. EdxEnrolled is false when the
// courseware call failed and the row was committed anyway.
type CourseRunEnrollment struct {
	shared.BaseAggregateRoot
	UserID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_run,priority:1"`
	RunID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_run,priority:2"`
	CompanyID    *uuid.UUID   `gorm:"type:uuid;index"`
	OrderID      *uuid.UUID   `gorm:"type:uuid;index"`
	Active       bool         `gorm:"not null;default:true"`
	ChangeStatus ChangeStatus `gorm:"type:varchar(20)"`
	EdxEnrolled  bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CourseRunEnrollment) TableName() string {
	return "course_run_enrollments"
}

// NewCourseRunEnrollment creates an active enrollment
func NewCourseRunEnrollment(userID, runID uuid.UUID, orderID, companyID *uuid.UUID) *CourseRunEnrollment {
	e := &CourseRunEnrollment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		RunID:             runID,
		CompanyID:         companyID,
		OrderID:           orderID,
		Active:            true,
	}
	e.AddDomainEvent(NewEnrollmentCreatedEvent(e))
	return e
}

// MarkCoursewareEnrolled records that the courseware platform accepted
// the enrollment
func (e *CourseRunEnrollment) MarkCoursewareEnrolled() {
	e.EdxEnrolled = true
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Deactivate ends the enrollment with the given change status
func (e *CourseRunEnrollment) Deactivate(status ChangeStatus) error {
	if !e.Active {
		return shared.NewDomainError("INVALID_ENROLLMENT_STATE", "Enrollment is already inactive")
	}

	e.Active = false
	e.ChangeStatus = status
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEnrollmentDeactivatedEvent(e))

	return nil
}

// Reactivate makes a deactivated enrollment active again
func (e *CourseRunEnrollment) Reactivate() error {
	if e.Active {
		return shared.NewDomainError("INVALID_ENROLLMENT_STATE", "Enrollment is already active")
	}

	e.Active = true
	e.ChangeStatus = ""
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// ProgramEnrollment is a user's registration in a program
type ProgramEnrollment struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_program,priority:1"`
	ProgramID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_program,priority:2"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProgramEnrollment) TableName() string {
	return "program_enrollments"
}

// NewProgramEnrollment creates a program enrollment
func NewProgramEnrollment(userID, programID uuid.UUID, orderID, companyID *uuid.UUID) *ProgramEnrollment {
	return &ProgramEnrollment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		ProgramID:         programID,
		CompanyID:         companyID,
		OrderID:           orderID,
	}
}
