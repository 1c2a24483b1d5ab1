package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/xpro/backend/internal/application/catalog"
)

// CourseHandler handles course catalog HTTP requests
type CourseHandler struct {
	BaseHandler
	courseService *catalogapp.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *catalogapp.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

// Create godoc
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCourseRequest true "Course"
// @Success      201 {object} dto.Response{data=catalogapp.CourseResponse}
// @Security     BearerAuth
// @Router       /admin/courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, course)
}

// Update godoc
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        id path string true "Course ID"
// @Param        request body catalogapp.UpdateCourseRequest true "Course"
// @Success      200 {object} dto.Response{data=catalogapp.CourseResponse}
// @Security     BearerAuth
// @Router       /admin/courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var req catalogapp.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, course)
}

// UpdateMarketing godoc
// @Summary      Replace a course's marketing page metadata
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        id path string true "Course ID"
// @Param        request body catalogapp.UpdateCourseMarketingRequest true "Marketing fields"
// @Success      200 {object} dto.Response{data=catalogapp.CourseResponse}
// @Security     BearerAuth
// @Router       /admin/courses/{id}/marketing [put]
func (h *CourseHandler) UpdateMarketing(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var req catalogapp.UpdateCourseMarketingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.UpdateMarketing(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, course)
}

// Get godoc
// @Summary      Get a course by ID
// @Tags         courses
// @Produce      json
// @Param        id path string true "Course ID"
// @Success      200 {object} dto.Response{data=catalogapp.CourseResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, course)
}

// List godoc
// @Summary      List all courses
// @Tags         courses
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CourseResponse}
// @Security     BearerAuth
// @Router       /admin/courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.courseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListLive godoc
// @Summary      List live courses
// @Tags         courses
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CourseResponse}
// @Router       /catalog/courses [get]
func (h *CourseHandler) ListLive(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	courses, err := h.courseService.ListLive(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, courses)
}

// CoursePage godoc
// @Summary      Get the storefront page for a course
// @Description  Returns the course, its next enrollable run and the purchasable product
// @Tags         courses
// @Produce      json
// @Param        readable_id path string true "Course readable ID"
// @Success      200 {object} dto.Response{data=catalogapp.CoursePageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/course-page/{readable_id} [get]
func (h *CourseHandler) CoursePage(c *gin.Context) {
	readableID := c.Param("readable_id")
	if readableID == "" {
		h.BadRequest(c, "Missing readable ID")
		return
	}

	page, err := h.courseService.CoursePage(c.Request.Context(), readableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, page)
}

// AttachTopic godoc
// @Summary      Attach a topic to a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        id path string true "Course ID"
// @Param        request body catalogapp.AttachTopicRequest true "Topic"
// @Success      200 {object} dto.Response{data=catalogapp.TopicResponse}
// @Security     BearerAuth
// @Router       /admin/courses/{id}/topics [post]
func (h *CourseHandler) AttachTopic(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var req catalogapp.AttachTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	topic, err := h.courseService.AttachTopic(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, topic)
}

// ListTopics godoc
// @Summary      List all course topics
// @Tags         courses
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.TopicResponse}
// @Router       /catalog/topics [get]
func (h *CourseHandler) ListTopics(c *gin.Context) {
	topics, err := h.courseService.ListTopics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, topics)
}

// Delete godoc
// @Summary      Delete a course
// @Tags         courses
// @Param        id path string true "Course ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
