package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	b2bapp "github.com/xpro/backend/internal/application/b2b"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
	"github.com/xpro/backend/internal/interfaces/http/dto"
)

// PaymentCallbackHandler handles payment gateway postback endpoints.
// These are form POSTs from the gateway's servers and do not carry a
// user session; authenticity is checked by signature inside the
// services.
type PaymentCallbackHandler struct {
	BaseHandler
	fulfillmentService *ecommerceapp.FulfillmentService
	b2bOrderService    *b2bapp.OrderService
}

// NewPaymentCallbackHandler creates a new payment callback handler
func NewPaymentCallbackHandler(fulfillmentService *ecommerceapp.FulfillmentService, b2bOrderService *b2bapp.OrderService) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		fulfillmentService: fulfillmentService,
		b2bOrderService:    b2bOrderService,
	}
}

// postbackForm flattens the urlencoded body to single values, the shape
// the gateway signs
func postbackForm(c *gin.Context) (map[string]string, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	form := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			form[key] = values[0]
		}
	}
	return form, nil
}

// HandleRetailPostback godoc
// @Summary      Handle the payment gateway postback for retail orders
// @Tags         payment-callbacks
// @Accept       application/x-www-form-urlencoded
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /checkout/postback [post]
func (h *PaymentCallbackHandler) HandleRetailPostback(c *gin.Context) {
	form, err := postbackForm(c)
	if err != nil {
		h.BadRequest(c, "Invalid form body")
		return
	}

	if err := h.fulfillmentService.HandlePostback(c.Request.Context(), form); err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message": "Postback processed",
	}))
}

// HandleB2BPostback godoc
// @Summary      Handle the payment gateway postback for bulk orders
// @Tags         payment-callbacks
// @Accept       application/x-www-form-urlencoded
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /b2b/checkout/postback [post]
func (h *PaymentCallbackHandler) HandleB2BPostback(c *gin.Context) {
	form, err := postbackForm(c)
	if err != nil {
		h.BadRequest(c, "Invalid form body")
		return
	}

	if err := h.b2bOrderService.HandlePostback(c.Request.Context(), form); err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message": "Postback processed",
	}))
}
