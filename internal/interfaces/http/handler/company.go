package handler

import (
	"github.com/gin-gonic/gin"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
)

// CompanyHandler handles company HTTP requests
type CompanyHandler struct {
	BaseHandler
	companyService *ecommerceapp.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *ecommerceapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// Create godoc
// @Summary      Create a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body ecommerceapp.CreateCompanyRequest true "Company"
// @Success      201 {object} dto.Response{data=ecommerceapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /admin/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req ecommerceapp.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// Get godoc
// @Summary      Get a company by ID
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID"
// @Success      200 {object} dto.Response{data=ecommerceapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /admin/companies/{id} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// List godoc
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Success      200 {object} dto.Response{data=[]ecommerceapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /admin/companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	companies, err := h.companyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, companies)
}
