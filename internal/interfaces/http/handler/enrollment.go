package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	enrollmentapp "github.com/xpro/backend/internal/application/enrollment"
	"github.com/xpro/backend/internal/interfaces/http/dto"
)

// EnrollmentHandler handles enrollment HTTP requests
type EnrollmentHandler struct {
	BaseHandler
	enrollmentService     *enrollmentapp.EnrollmentService
	coursewareUserService *enrollmentapp.CoursewareUserService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService *enrollmentapp.EnrollmentService, coursewareUserService *enrollmentapp.CoursewareUserService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService:     enrollmentService,
		coursewareUserService: coursewareUserService,
	}
}

// ListMine godoc
// @Summary      List the caller's enrollments
// @Tags         enrollments
// @Produce      json
// @Success      200 {object} dto.Response{data=[]enrollmentapp.EnrollmentResponse}
// @Security     BearerAuth
// @Router       /enrollments [get]
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	enrollments, err := h.enrollmentService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, enrollments)
}

// Defer godoc
// @Summary      Move a learner from one run of a course to a later one
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Param        request body enrollmentapp.DeferRequest true "Deferral"
// @Success      200 {object} dto.Response{data=enrollmentapp.EnrollmentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/enrollments/defer [post]
func (h *EnrollmentHandler) Defer(c *gin.Context) {
	var req enrollmentapp.DeferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.enrollmentService.Defer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deactivate godoc
// @Summary      End an enrollment with a change status
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Param        request body enrollmentapp.DeactivateRequest true "Deactivation"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/enrollments/deactivate [post]
func (h *EnrollmentHandler) Deactivate(c *gin.Context) {
	var req enrollmentapp.DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.enrollmentService.Deactivate(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message": "Enrollment deactivated",
	}))
}

// CompleteAuthorization godoc
// @Summary      Complete the courseware OAuth2 authorization
// @Description  Exchanges the callback code for tokens and stores the link
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Param        request body enrollmentapp.CompleteAuthorizationRequest true "OAuth callback"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /courseware/authorize/complete [post]
func (h *EnrollmentHandler) CompleteAuthorization(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req enrollmentapp.CompleteAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.coursewareUserService.CompleteAuthorization(c.Request.Context(), userID, req.Code, req.RedirectURI)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message": "Courseware account linked",
	}))
}
