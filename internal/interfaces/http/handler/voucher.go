package handler

import (
	"github.com/gin-gonic/gin"
	voucherapp "github.com/xpro/backend/internal/application/voucher"
)

// VoucherHandler handles voucher HTTP requests
type VoucherHandler struct {
	BaseHandler
	voucherService *voucherapp.VoucherService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(voucherService *voucherapp.VoucherService) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
	}
}

// Upload godoc
// @Summary      Upload a voucher
// @Description  Parses the extracted voucher text, matches it against course
// @Description  runs and returns a presigned URL for archiving the PDF
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        request body voucherapp.UploadVoucherRequest true "Voucher text"
// @Success      201 {object} dto.Response{data=voucherapp.UploadVoucherResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vouchers [post]
func (h *VoucherHandler) Upload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req voucherapp.UploadVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.voucherService.Upload(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get one of the caller's vouchers
// @Tags         vouchers
// @Produce      json
// @Param        id path string true "Voucher ID"
// @Success      200 {object} dto.Response{data=voucherapp.VoucherResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vouchers/{id} [get]
func (h *VoucherHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	voucherID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	voucher, err := h.voucherService.Get(c.Request.Context(), userID, voucherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}

// List godoc
// @Summary      List the caller's vouchers
// @Tags         vouchers
// @Produce      json
// @Success      200 {object} dto.Response{data=[]voucherapp.VoucherResponse}
// @Security     BearerAuth
// @Router       /vouchers [get]
func (h *VoucherHandler) List(c *gin.Context) {
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

	vouchers, err := h.voucherService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vouchers)
}

// Rematch godoc
// @Summary      Re-run course matching for an unmatched voucher
// @Tags         vouchers
// @Produce      json
// @Param        id path string true "Voucher ID"
// @Success      200 {object} dto.Response{data=voucherapp.VoucherResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vouchers/{id}/rematch [post]
func (h *VoucherHandler) Rematch(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	voucherID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	voucher, err := h.voucherService.Rematch(c.Request.Context(), userID, voucherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}

// EligibleCoupons godoc
// @Summary      List coupons redeemable against a matched voucher
// @Tags         vouchers
// @Produce      json
// @Param        id path string true "Voucher ID"
// @Success      200 {object} dto.Response{data=[]voucherapp.CouponChoiceResponse}
// @Security     BearerAuth
// @Router       /vouchers/{id}/coupons [get]
func (h *VoucherHandler) EligibleCoupons(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	voucherID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	coupons, err := h.voucherService.EligibleCoupons(c.Request.Context(), userID, voucherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupons)
}

// Redeem godoc
// @Summary      Redeem a matched voucher against a coupon
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        id path string true "Voucher ID"
// @Param        request body voucherapp.RedeemVoucherRequest true "Coupon selection"
// @Success      200 {object} dto.Response{data=voucherapp.VoucherResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vouchers/{id}/redeem [post]
func (h *VoucherHandler) Redeem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	voucherID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	var req voucherapp.RedeemVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	voucher, err := h.voucherService.Redeem(c.Request.Context(), userID, voucherID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}
