package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/catalog"
)

// CreateProgramRequest represents a request to create a program
type CreateProgramRequest struct {
	Title      string `json:"title" binding:"required"`
	ReadableID string `json:"readable_id" binding:"required"`
}

// UpdateProgramRequest represents a request to update a program
type UpdateProgramRequest struct {
	Title string `json:"title" binding:"required"`
	Live  *bool  `json:"live"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title      string     `json:"title" binding:"required"`
	ReadableID string     `json:"readable_id" binding:"required"`
	ProgramID  *uuid.UUID `json:"program_id"`
	Position   *int       `json:"position"`
}

// UpdateCourseRequest represents a request to update a course
type UpdateCourseRequest struct {
	Title string `json:"title" binding:"required"`
	Live  *bool  `json:"live"`
}

// UpdateCourseMarketingRequest replaces a course's marketing page
// metadata
type UpdateCourseMarketingRequest struct {
	Subhead        string   `json:"subhead"`
	Duration       string   `json:"duration"`
	Format         string   `json:"format"`
	Description    string   `json:"description"`
	MarketingURL   string   `json:"marketing_url"`
	Outcomes       []string `json:"outcomes"`
	TargetAudience []string `json:"target_audience"`
}

// CreateCourseRunRequest represents a request to create a course run
type CreateCourseRunRequest struct {
	CourseID          uuid.UUID  `json:"course_id" binding:"required"`
	Title             string     `json:"title" binding:"required"`
	CoursewareID      string     `json:"courseware_id" binding:"required"`
	RunTag            string     `json:"run_tag" binding:"required"`
	CoursewareURLPath string     `json:"courseware_url_path"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	EnrollmentStart   *time.Time `json:"enrollment_start"`
	EnrollmentEnd     *time.Time `json:"enrollment_end"`
	ExpirationDate    *time.Time `json:"expiration_date"`
	Live              bool       `json:"live"`
}

// UpdateCourseRunRequest represents a request to update a course run's
// schedule
type UpdateCourseRunRequest struct {
	Title           string     `json:"title" binding:"required"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	EnrollmentStart *time.Time `json:"enrollment_start"`
	EnrollmentEnd   *time.Time `json:"enrollment_end"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	Live            *bool      `json:"live"`
}

// AttachTopicRequest attaches a topic to a course, creating the topic
// if needed
type AttachTopicRequest struct {
	Name string `json:"name" binding:"required"`
}

// ProgramResponse represents a program in API responses
type ProgramResponse struct {
	ID         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	ReadableID string           `json:"readable_id"`
	Live       bool             `json:"live"`
	Courses    []CourseResponse `json:"courses,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID                uuid.UUID           `json:"id"`
	ProgramID         *uuid.UUID          `json:"program_id,omitempty"`
	PositionInProgram *int                `json:"position_in_program,omitempty"`
	Title             string              `json:"title"`
	ReadableID        string              `json:"readable_id"`
	Live              bool                `json:"live"`
	IsExternal        bool                `json:"is_external"`
	Subhead           string              `json:"subhead,omitempty"`
	Duration          string              `json:"duration,omitempty"`
	Format            string              `json:"format,omitempty"`
	Description       string              `json:"description,omitempty"`
	MarketingURL      string              `json:"marketing_url,omitempty"`
	Outcomes          []string            `json:"outcomes,omitempty"`
	TargetAudience    []string            `json:"target_audience,omitempty"`
	Topics            []string            `json:"topics,omitempty"`
	Runs              []CourseRunResponse `json:"runs,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// CourseRunResponse represents a course run in API responses
type CourseRunResponse struct {
	ID                uuid.UUID  `json:"id"`
	CourseID          uuid.UUID  `json:"course_id"`
	Title             string     `json:"title"`
	CoursewareID      string     `json:"courseware_id"`
	RunTag            string     `json:"run_tag"`
	CoursewareURLPath string     `json:"courseware_url_path,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	EnrollmentStart   *time.Time `json:"enrollment_start,omitempty"`
	EnrollmentEnd     *time.Time `json:"enrollment_end,omitempty"`
	ExpirationDate    *time.Time `json:"expiration_date,omitempty"`
	Live              bool       `json:"live"`
	IsUnexpired       bool       `json:"is_unexpired"`
}

// TopicResponse represents a course topic in API responses
type TopicResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductOfferResponse is the purchasable product attached to a
// catalog object, priced at its latest version
type ProductOfferResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ProductVersionID uuid.UUID       `json:"product_version_id"`
	Price            decimal.Decimal `json:"price"`
	Description      string          `json:"description,omitempty"`
}

// CoursePageResponse is the storefront payload for a course page
type CoursePageResponse struct {
	Course  CourseResponse        `json:"course"`
	NextRun *CourseRunResponse    `json:"next_run,omitempty"`
	Product *ProductOfferResponse `json:"product,omitempty"`
}

// ToProgramResponse converts a domain program to a response DTO
func ToProgramResponse(p *catalog.Program) ProgramResponse {
	resp := ProgramResponse{
		ID:         p.ID,
		Title:      p.Title,
		ReadableID: p.ReadableID,
		Live:       p.Live,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for i := range p.Courses {
		resp.Courses = append(resp.Courses, ToCourseResponse(&p.Courses[i]))
	}
	return resp
}

// ToCourseResponse converts a domain course to a response DTO
func ToCourseResponse(c *catalog.Course) CourseResponse {
	resp := CourseResponse{
		ID:                c.ID,
		ProgramID:         c.ProgramID,
		PositionInProgram: c.PositionInProgram,
		Title:             c.Title,
		ReadableID:        c.ReadableID,
		Live:              c.Live,
		IsExternal:        c.IsExternal,
		Subhead:           c.Subhead,
		Duration:          c.Duration,
		Format:            c.Format,
		Description:       c.Description,
		MarketingURL:      c.MarketingURL,
		Outcomes:          c.Outcomes,
		TargetAudience:    c.TargetAudience,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	for _, topic := range c.Topics {
		resp.Topics = append(resp.Topics, topic.Name)
	}
	for i := range c.Runs {
		resp.Runs = append(resp.Runs, ToCourseRunResponse(&c.Runs[i]))
	}
	return resp
}

// ToCourseRunResponse converts a domain course run to a response DTO
func ToCourseRunResponse(r *catalog.CourseRun) CourseRunResponse {
	return CourseRunResponse{
		ID:                r.ID,
		CourseID:          r.CourseID,
		Title:             r.Title,
		CoursewareID:      r.CoursewareID,
		RunTag:            r.RunTag,
		CoursewareURLPath: r.CoursewareURLPath,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		EnrollmentStart:   r.EnrollmentStart,
		EnrollmentEnd:     r.EnrollmentEnd,
		ExpirationDate:    r.ExpirationDate,
		Live:              r.Live,
		IsUnexpired:       r.IsUnexpired(),
	}
}

// ToTopicResponse converts a domain topic to a response DTO
func ToTopicResponse(t *catalog.CourseTopic) TopicResponse {
	return TopicResponse{
		ID:   t.ID,
		Name: t.Name,
	}
}
