package enrollment

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/enrollment"
)

// EnrollmentResponse represents a course run enrollment in API responses
type EnrollmentResponse struct {
	ID           uuid.UUID  `json:"id"`
	RunID        uuid.UUID  `json:"run_id"`
	RunTitle     string     `json:"run_title,omitempty"`
	CoursewareID string     `json:"courseware_id,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Active       bool       `json:"active"`
	ChangeStatus string     `json:"change_status,omitempty"`
	EdxEnrolled  bool       `json:"edx_enrolled"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DeferRequest moves a learner from one run of a course to a later one
type DeferRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	FromRunID   uuid.UUID `json:"from_run_id" binding:"required"`
	TargetRunID uuid.UUID `json:"target_run_id" binding:"required"`
}

// DeactivateRequest ends an enrollment with a change status
type DeactivateRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	RunID  uuid.UUID `json:"run_id" binding:"required"`
	Status string    `json:"status" binding:"required,oneof=deferred transferred refunded"`
}

// CompleteAuthorizationRequest carries the OAuth2 callback parameters
// from the courseware platform
type CompleteAuthorizationRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirect_uri" binding:"required"`
}

// ToEnrollmentResponse converts an enrollment and its run (which may be
// nil when the catalog row is gone) to a response DTO
func ToEnrollmentResponse(e *enrollment.CourseRunEnrollment, run *catalog.CourseRun) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:           e.ID,
		RunID:        e.RunID,
		Active:       e.Active,
		ChangeStatus: string(e.ChangeStatus),
		EdxEnrolled:  e.EdxEnrolled,
		CreatedAt:    e.CreatedAt,
	}
	if run != nil {
		resp.RunTitle = run.Title
		resp.CoursewareID = run.CoursewareID
		resp.StartDate = run.StartDate
		resp.EndDate = run.EndDate
	}
	return resp
}
