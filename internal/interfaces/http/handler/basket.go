package handler

import (
	"github.com/gin-gonic/gin"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
)

// BasketHandler handles basket HTTP requests
type BasketHandler struct {
	BaseHandler
	basketService *ecommerceapp.BasketService
}

// NewBasketHandler creates a new basket handler
func NewBasketHandler(basketService *ecommerceapp.BasketService) *BasketHandler {
	return &BasketHandler{
		basketService: basketService,
	}
}

// Get godoc
// @Summary      Get the caller's basket
// @Tags         basket
// @Produce      json
// @Success      200 {object} dto.Response{data=ecommerceapp.BasketResponse}
// @Security     BearerAuth
// @Router       /basket [get]
func (h *BasketHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	basket, err := h.basketService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, basket)
}

// Update godoc
// @Summary      Update the caller's basket
// @Description  Replaces items, run selections or the coupon; nil fields are untouched
// @Tags         basket
// @Accept       json
// @Produce      json
// @Param        request body ecommerceapp.UpdateBasketRequest true "Basket changes"
// @Success      200 {object} dto.Response{data=ecommerceapp.BasketResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /basket [put]
func (h *BasketHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ecommerceapp.UpdateBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	basket, err := h.basketService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, basket)
}
