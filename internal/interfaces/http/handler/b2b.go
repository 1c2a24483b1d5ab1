package handler

import (
	"github.com/gin-gonic/gin"
	b2bapp "github.com/xpro/backend/internal/application/b2b"
)

// B2BHandler handles bulk enrollment-code order HTTP requests
type B2BHandler struct {
	BaseHandler
	orderService *b2bapp.OrderService
}

// NewB2BHandler creates a new B2B handler
func NewB2BHandler(orderService *b2bapp.OrderService) *B2BHandler {
	return &B2BHandler{
		orderService: orderService,
	}
}

// Checkout godoc
// @Summary      Purchase a block of enrollment codes
// @Description  Creates a bulk order and returns the gateway handoff, or the
// @Description  fulfilled order when a coupon covers the full price. No user
// @Description  account is required; the order is tracked by its unique ID.
// @Tags         b2b
// @Accept       json
// @Produce      json
// @Param        request body b2bapp.CheckoutRequest true "Bulk purchase"
// @Success      200 {object} dto.Response{data=b2bapp.CheckoutResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /b2b/checkout [post]
func (h *B2BHandler) Checkout(c *gin.Context) {
	var req b2bapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.Checkout(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Status godoc
// @Summary      Get a bulk order's status by its unique ID
// @Tags         b2b
// @Produce      json
// @Param        unique_id path string true "Order unique ID"
// @Success      200 {object} dto.Response{data=b2bapp.OrderStatusResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /b2b/orders/{unique_id}/status [get]
func (h *B2BHandler) Status(c *gin.Context) {
	uniqueID, ok := parseUUIDParam(c, "unique_id")
	if !ok {
		h.BadRequest(c, "Invalid unique ID")
		return
	}

	status, err := h.orderService.Status(c.Request.Context(), uniqueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// CouponStatus godoc
// @Summary      Check a B2B coupon's discount for a product version
// @Tags         b2b
// @Produce      json
// @Param        code query string true "Coupon code"
// @Param        product_version_id query string true "Product version ID"
// @Success      200 {object} dto.Response{data=b2bapp.CouponStatusResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /b2b/coupon-status [get]
func (h *B2BHandler) CouponStatus(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.BadRequest(c, "Missing coupon code")
		return
	}

	productVersionID, err := parseUUIDQuery(c, "product_version_id")
	if err != nil {
		h.BadRequest(c, "Invalid product version ID")
		return
	}

	status, err := h.orderService.CouponStatus(c.Request.Context(), code, productVersionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}
