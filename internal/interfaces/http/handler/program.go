package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/xpro/backend/internal/application/catalog"
)

// ProgramHandler handles program catalog HTTP requests
type ProgramHandler struct {
	BaseHandler
	programService *catalogapp.ProgramService
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(programService *catalogapp.ProgramService) *ProgramHandler {
	return &ProgramHandler{
		programService: programService,
	}
}

// Create godoc
// @Summary      Create a program
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProgramRequest true "Program"
// @Success      201 {object} dto.Response{data=catalogapp.ProgramResponse}
// @Security     BearerAuth
// @Router       /admin/programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	program, err := h.programService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, program)
}

// Update godoc
// @Summary      Update a program
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        id path string true "Program ID"
// @Param        request body catalogapp.UpdateProgramRequest true "Program"
// @Success      200 {object} dto.Response{data=catalogapp.ProgramResponse}
// @Security     BearerAuth
// @Router       /admin/programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid program ID")
		return
	}

	var req catalogapp.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	program, err := h.programService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, program)
}

// Get godoc
// @Summary      Get a program by ID
// @Tags         programs
// @Produce      json
// @Param        id path string true "Program ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProgramResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		// Fall back to readable ID lookup for storefront URLs.
		program, err := h.programService.GetByReadableID(c.Request.Context(), c.Param("id"))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, program)
		return
	}

	program, err := h.programService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, program)
}

// List godoc
// @Summary      List all programs
// @Tags         programs
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.ProgramResponse}
// @Security     BearerAuth
// @Router       /admin/programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.programService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListLive godoc
// @Summary      List live programs
// @Tags         programs
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.ProgramResponse}
// @Router       /catalog/programs [get]
func (h *ProgramHandler) ListLive(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	programs, err := h.programService.ListLive(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, programs)
}

// Delete godoc
// @Summary      Delete a program
// @Tags         programs
// @Param        id path string true "Program ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/programs/{id} [delete]
func (h *ProgramHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid program ID")
		return
	}

	if err := h.programService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
