package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/xpro/backend/internal/application/catalog"
)

// CourseRunHandler handles course run HTTP requests
type CourseRunHandler struct {
	BaseHandler
	runService *catalogapp.CourseRunService
}

// NewCourseRunHandler creates a new course run handler
func NewCourseRunHandler(runService *catalogapp.CourseRunService) *CourseRunHandler {
	return &CourseRunHandler{
		runService: runService,
	}
}

// Create godoc
// @Summary      Create a course run
// @Tags         course-runs
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCourseRunRequest true "Course run"
// @Success      201 {object} dto.Response{data=catalogapp.CourseRunResponse}
// @Security     BearerAuth
// @Router       /admin/course-runs [post]
func (h *CourseRunHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCourseRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	run, err := h.runService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, run)
}

// Update godoc
// @Summary      Update a course run's schedule
// @Tags         course-runs
// @Accept       json
// @Produce      json
// @Param        id path string true "Course run ID"
// @Param        request body catalogapp.UpdateCourseRunRequest true "Course run"
// @Success      200 {object} dto.Response{data=catalogapp.CourseRunResponse}
// @Security     BearerAuth
// @Router       /admin/course-runs/{id} [put]
func (h *CourseRunHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course run ID")
		return
	}

	var req catalogapp.UpdateCourseRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	run, err := h.runService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// Get godoc
// @Summary      Get a course run by ID
// @Tags         course-runs
// @Produce      json
// @Param        id path string true "Course run ID"
// @Success      200 {object} dto.Response{data=catalogapp.CourseRunResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/course-runs/{id} [get]
func (h *CourseRunHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course run ID")
		return
	}

	run, err := h.runService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// ListByCourse godoc
// @Summary      List runs of a course
// @Tags         course-runs
// @Produce      json
// @Param        id path string true "Course ID"
// @Success      200 {object} dto.Response{data=[]catalogapp.CourseRunResponse}
// @Router       /catalog/courses/{id}/runs [get]
func (h *CourseRunHandler) ListByCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	runs, err := h.runService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, runs)
}

// Delete godoc
// @Summary      Delete a course run
// @Tags         course-runs
// @Param        id path string true "Course run ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/course-runs/{id} [delete]
func (h *CourseRunHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course run ID")
		return
	}

	if err := h.runService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
