package handler

import (
	"github.com/gin-gonic/gin"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
)

// CouponHandler handles coupon administration HTTP requests
type CouponHandler struct {
	BaseHandler
	couponService *ecommerceapp.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *ecommerceapp.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// CreateBatch godoc
// @Summary      Create a coupon payment with a batch of codes
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body ecommerceapp.CreateCouponBatchRequest true "Coupon batch"
// @Success      201 {object} dto.Response{data=ecommerceapp.CouponBatchResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons [post]
func (h *CouponHandler) CreateBatch(c *gin.Context) {
	var req ecommerceapp.CreateCouponBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	batch, err := h.couponService.CreateBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// ListCodes godoc
// @Summary      List a coupon payment's codes and their redemption state
// @Tags         coupons
// @Produce      json
// @Param        id path string true "Coupon payment ID"
// @Success      200 {object} dto.Response{data=[]ecommerceapp.CouponCodeStatusResponse}
// @Security     BearerAuth
// @Router       /admin/coupons/{id}/codes [get]
func (h *CouponHandler) ListCodes(c *gin.Context) {
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid coupon payment ID")
		return
	}

	codes, err := h.couponService.ListCodes(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, codes)
}

// Deactivate godoc
// @Summary      Deactivate a coupon
// @Tags         coupons
// @Param        id path string true "Coupon ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) Deactivate(c *gin.Context) {
	couponID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.Deactivate(c.Request.Context(), couponID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
