package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// CourseRun represents a scheduled run of a course on a courseware
// platform. CoursewareID is the platform's opaque key for the run and
// RunTag distinguishes runs of the same course.
type CourseRun struct {
	shared.BaseAggregateRoot
	CourseID            uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_course_run_tag,priority:1"`
	Title               string     `gorm:"type:varchar(255);not null"`
	CoursewareID        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	RunTag              string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_course_run_tag,priority:2"`
	CoursewareURLPath   string     `gorm:"type:varchar(500)"`
	StartDate           *time.Time `gorm:"index"`
	EndDate             *time.Time `gorm:"index"`
	EnrollmentStart     *time.Time
	EnrollmentEnd       *time.Time
	ExpirationDate      *time.Time
	Live                bool   `gorm:"not null;default:false"`
	ExternalCourseRunID string `gorm:"type:varchar(255);index"`
}

// TableName returns the table name for GORM
func (CourseRun) TableName() string {
	return "course_runs"
}

// NewCourseRun creates a new course run
func NewCourseRun(courseID uuid.UUID, title, coursewareID, runTag string) (*CourseRun, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if coursewareID == "" {
		return nil, shared.NewDomainError("INVALID_COURSEWARE_ID", "Courseware ID cannot be empty")
	}
	if runTag == "" {
		return nil, shared.NewDomainError("INVALID_RUN_TAG", "Run tag cannot be empty")
	}

	run := &CourseRun{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CourseID:          courseID,
		Title:             title,
		CoursewareID:      coursewareID,
		RunTag:            runTag,
	}

	run.AddDomainEvent(NewCourseRunCreatedEvent(run))

	return run, nil
}

// SetSchedule sets the run's start and end dates.
// The expiration date, when set, must not precede the end date.
func (r *CourseRun) SetSchedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_SCHEDULE", "End date cannot precede start date")
	}
	if r.ExpirationDate != nil && end != nil && r.ExpirationDate.Before(*end) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Expiration date cannot precede end date")
	}

	r.StartDate = start
	r.EndDate = end
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetEnrollmentWindow sets the run's enrollment window
func (r *CourseRun) SetEnrollmentWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_ENROLLMENT_WINDOW", "Enrollment end cannot precede enrollment start")
	}

	r.EnrollmentStart = start
	r.EnrollmentEnd = end
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetExpiration sets the date after which the run's content is no
// longer accessible
func (r *CourseRun) SetExpiration(expiration *time.Time) error {
	if expiration != nil && r.EndDate != nil && expiration.Before(*r.EndDate) {
		return shared.NewDomainError("INVALID_EXPIRATION", "Expiration date cannot precede end date")
	}

	r.ExpirationDate = expiration
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetCoursewareURLPath sets the path to the run on the courseware platform
func (r *CourseRun) SetCoursewareURLPath(path string) {
	r.CoursewareURLPath = path
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Publish makes the run visible in the catalog
func (r *CourseRun) Publish() {
	r.Live = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// IsPast returns true if the run has already ended
func (r *CourseRun) IsPast() bool {
	return r.EndDate != nil && r.EndDate.Before(time.Now().UTC())
}

// IsInProgress returns true if the run has started and not yet ended
func (r *CourseRun) IsInProgress() bool {
	now := time.Now().UTC()
	if r.StartDate == nil || r.StartDate.After(now) {
		return false
	}
	return r.EndDate == nil || r.EndDate.After(now)
}

// IsNotBeyondEnrollment returns true while the run can still be
// enrolled in. With no enrollment end, the run stays open until its
// end date (or forever if the end date is also unset).
func (r *CourseRun) IsNotBeyondEnrollment() bool {
	now := time.Now().UTC()
	if r.EnrollmentEnd == nil {
		return r.EndDate == nil || r.EndDate.After(now)
	}
	return r.EnrollmentEnd.After(now)
}

// IsUnexpired returns true if the run has not ended and enrollment is
// still possible
func (r *CourseRun) IsUnexpired() bool {
	return !r.IsPast() && r.IsNotBeyondEnrollment()
}

// UpdateDates updates start and end dates when they drift from the
// vendor feed. Returns true when anything changed.
func (r *CourseRun) UpdateDates(start, end *time.Time) bool {
	changed := false
	if !equalTimePtr(r.StartDate, start) {
		r.StartDate = start
		changed = true
	}
	if !equalTimePtr(r.EndDate, end) {
		r.EndDate = end
		changed = true
	}
	if changed {
		r.UpdatedAt = time.Now()
		r.IncrementVersion()
	}
	return changed
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
