package handler

import (
	"github.com/gin-gonic/gin"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
)

// ProductHandler handles product HTTP requests
type ProductHandler struct {
	BaseHandler
	productService *ecommerceapp.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *ecommerceapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// SetVisibilityRequest toggles a product's storefront visibility
// @name SetVisibilityRequest
type SetVisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// Create godoc
// @Summary      Create a product with its first price version
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body ecommerceapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=ecommerceapp.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req ecommerceapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// AddVersion godoc
// @Summary      Append a new price version to a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body ecommerceapp.AddProductVersionRequest true "Version"
// @Success      200 {object} dto.Response{data=ecommerceapp.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/versions [post]
func (h *ProductHandler) AddVersion(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req ecommerceapp.AddProductVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.AddVersion(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// SetVisibility godoc
// @Summary      Toggle a product's visibility
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body SetVisibilityRequest true "Visibility"
// @Success      200 {object} dto.Response{data=ecommerceapp.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/visibility [put]
func (h *ProductHandler) SetVisibility(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.SetVisibility(c.Request.Context(), id, *req.Visible)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Get godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=ecommerceapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response{data=[]ecommerceapp.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
