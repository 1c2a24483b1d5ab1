package integration

import (
	"context"
	"strings"
	"time"
)

// VendorCourse is one course run row from the vendor's report feed
type VendorCourse struct {
	Title        string
	CourseCode   string
	RunCode      string
	RunTag       string
	StartDate    *time.Time
	EndDate      *time.Time
	MarketingURL string
	Duration     string
	Description  string
	Format       string
	Category     string

	LearningOutcomes []string
	WhoShouldEnroll  []string
}

// ReadableID builds the platform course key from the course code,
// e.g. "MO-SYS" becomes "course-v1:xPRO+SYS"
func (c VendorCourse) ReadableID() string {
	parts := strings.SplitN(c.CourseCode, "-", 2)
	tail := c.CourseCode
	if len(parts) == 2 {
		tail = parts[1]
	}
	return "course-v1:xPRO+" + tail
}

// CoursewareID builds the run key from the readable id and run tag
func (c VendorCourse) CoursewareID() string {
	return c.ReadableID() + "+" + c.RunTag
}

// Complete reports whether the row carries the fields a sync needs
func (c VendorCourse) Complete() bool {
	return c.Title != "" && c.CourseCode != "" && c.RunCode != ""
}

// VendorFeedClient fetches the vendor's course report
type VendorFeedClient interface {
	// FetchCourses runs the report query, waiting out any server side
	// job, and returns the parsed rows
	FetchCourses(ctx context.Context) ([]VendorCourse, error)
}
