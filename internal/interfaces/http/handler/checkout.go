package handler

import (
	"github.com/gin-gonic/gin"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
)

// CheckoutHandler handles checkout and order HTTP requests
type CheckoutHandler struct {
	BaseHandler
	checkoutService    *ecommerceapp.CheckoutService
	fulfillmentService *ecommerceapp.FulfillmentService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *ecommerceapp.CheckoutService, fulfillmentService *ecommerceapp.FulfillmentService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService:    checkoutService,
		fulfillmentService: fulfillmentService,
	}
}

// Checkout godoc
// @Summary      Check out the caller's basket
// @Description  Creates an order and returns the payment gateway handoff.
// @Description  Zero-total orders are fulfilled immediately.
// @Tags         checkout
// @Produce      json
// @Success      200 {object} dto.Response{data=ecommerceapp.CheckoutResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetOrder godoc
// @Summary      Get one of the caller's orders
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=ecommerceapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.checkoutService.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListOrders godoc
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.Response{data=[]ecommerceapp.OrderResponse}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
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

	orders, err := h.checkoutService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// Refund godoc
// @Summary      Refund a fulfilled order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=ecommerceapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/refund [post]
func (h *CheckoutHandler) Refund(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.fulfillmentService.Refund(c.Request.Context(), orderID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
