package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xpro/backend/internal/domain/shared"
)

// Course represents a single course, optionally belonging to a program.
// Marketing page metadata is stored as flat columns on the course row.
type Course struct {
	shared.BaseAggregateRoot
	ProgramID         *uuid.UUID `gorm:"type:uuid;index"`
	PositionInProgram *int       `gorm:"type:int"`
	Title             string     `gorm:"type:varchar(255);not null"`
	ReadableID        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Live              bool       `gorm:"not null;default:false"`
	IsExternal        bool       `gorm:"not null;default:false"`
	ExternalCourseID  string     `gorm:"type:varchar(255);index"`
	PlatformID        *uuid.UUID `gorm:"type:uuid;index"`

	// Marketing page metadata
	Subhead        string         `gorm:"type:varchar(255)"`
	Duration       string         `gorm:"type:varchar(50)"`
	Format         string         `gorm:"type:varchar(100)"`
	Description    string         `gorm:"type:text"`
	MarketingURL   string         `gorm:"type:varchar(500)"`
	Outcomes       pq.StringArray `gorm:"type:text[]"`
	TargetAudience pq.StringArray `gorm:"type:text[]"`

	Runs   []CourseRun
	Topics []CourseTopic `gorm:"many2many:course_topics_assoc;"`
}

// TableName returns the table name for GORM
func (Course) TableName() string {
	return "courses"
}

// NewCourse creates a new course
func NewCourse(title, readableID string) (*Course, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateReadableID(readableID); err != nil {
		return nil, err
	}

	course := &Course{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		ReadableID:        readableID,
	}

	course.AddDomainEvent(NewCourseCreatedEvent(course))

	return course, nil
}

// NewExternalCourse creates a course sourced from an external vendor
// platform. External courses must name their platform.
func NewExternalCourse(title, readableID, externalCourseID string, platformID uuid.UUID) (*Course, error) {
	course, err := NewCourse(title, readableID)
	if err != nil {
		return nil, err
	}
	if externalCourseID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External course ID cannot be empty")
	}

	course.IsExternal = true
	course.ExternalCourseID = externalCourseID
	course.PlatformID = &platformID

	return course, nil
}

// AssignToProgram places the course into a program at the given position.
// When position is nil the caller is expected to append the course after
// the program's current maximum position.
func (c *Course) AssignToProgram(programID uuid.UUID, position *int) {
	c.ProgramID = &programID
	c.PositionInProgram = position
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetPosition sets the course's position within its program
func (c *Course) SetPosition(position int) {
	c.PositionInProgram = &position
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Update updates the course's basic information
func (c *Course) Update(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}

	c.Title = title
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// UpdateMarketing replaces the course's marketing page metadata
func (c *Course) UpdateMarketing(subhead, duration, format, description, marketingURL string) {
	c.Subhead = subhead
	c.Duration = duration
	c.Format = format
	c.Description = description
	c.MarketingURL = marketingURL
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// FillEmptyMarketing sets only the marketing fields that are currently
// empty. Used by vendor-feed ingestion so admin edits are not clobbered.
func (c *Course) FillEmptyMarketing(subhead, duration, format, description, marketingURL string) bool {
	changed := false
	if c.Subhead == "" && subhead != "" {
		c.Subhead = subhead
		changed = true
	}
	if c.Duration == "" && duration != "" {
		c.Duration = duration
		changed = true
	}
	if c.Format == "" && format != "" {
		c.Format = format
		changed = true
	}
	if c.Description == "" && description != "" {
		c.Description = description
		changed = true
	}
	if c.MarketingURL == "" && marketingURL != "" {
		c.MarketingURL = marketingURL
		changed = true
	}
	if changed {
		c.UpdatedAt = time.Now()
		c.IncrementVersion()
	}
	return changed
}

// FillEmptyLists sets outcome and target-audience lists only when absent
func (c *Course) FillEmptyLists(outcomes, targetAudience []string) bool {
	changed := false
	if len(c.Outcomes) == 0 && len(outcomes) > 0 {
		c.Outcomes = outcomes
		changed = true
	}
	if len(c.TargetAudience) == 0 && len(targetAudience) > 0 {
		c.TargetAudience = targetAudience
		changed = true
	}
	if changed {
		c.UpdatedAt = time.Now()
		c.IncrementVersion()
	}
	return changed
}

// Publish makes the course visible in the catalog
func (c *Course) Publish() {
	c.Live = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Unpublish hides the course from the catalog
func (c *Course) Unpublish() {
	c.Live = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// FirstUnexpiredRun returns the run with the earliest start date among
// runs that are still open for enrollment, or nil if none qualify.
func (c *Course) FirstUnexpiredRun() *CourseRun {
	var best *CourseRun
	for i := range c.Runs {
		run := &c.Runs[i]
		if !run.IsUnexpired() {
			continue
		}
		if best == nil {
			best = run
			continue
		}
		if run.StartDate != nil && (best.StartDate == nil || run.StartDate.Before(*best.StartDate)) {
			best = run
		}
	}
	return best
}

// HasTopic returns true if the course carries the named topic
func (c *Course) HasTopic(name string) bool {
	for _, t := range c.Topics {
		if t.Name == name {
			return true
		}
	}
	return false
}
