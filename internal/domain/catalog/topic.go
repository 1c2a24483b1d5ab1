package catalog

import (
	"github.com/xpro/backend/internal/domain/shared"
)

// CourseTopic is a subject-area label attached to courses
type CourseTopic struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(128);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CourseTopic) TableName() string {
	return "course_topics"
}

// NewCourseTopic creates a new course topic
func NewCourseTopic(name string) (*CourseTopic, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Topic name cannot be empty")
	}
	if len(name) > 128 {
		return nil, shared.NewDomainError("INVALID_NAME", "Topic name cannot exceed 128 characters")
	}
	return &CourseTopic{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}
