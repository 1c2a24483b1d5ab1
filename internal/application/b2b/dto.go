package b2b

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/b2b"
)

// CheckoutRequest carries a bulk enrollment-code purchase
type CheckoutRequest struct {
	Email            string    `json:"email" binding:"required,email"`
	NumSeats         int       `json:"num_seats" binding:"required,min=1"`
	ProductVersionID uuid.UUID `json:"product_version_id" binding:"required"`
	CouponCode       *string   `json:"coupon_code,omitempty"`
	ContractNumber   string    `json:"contract_number,omitempty"`
}

// CheckoutResponse carries the gateway handoff for a bulk order, or
// the fulfilled order when the total was fully discounted
type CheckoutResponse struct {
	Provider string            `json:"provider"`
	URL      string            `json:"url,omitempty"`
	Payload  map[string]string `json:"payload,omitempty"`
	OrderID  uuid.UUID         `json:"order_id"`
	UniqueID uuid.UUID         `json:"unique_id"`
}

// CouponStatusResponse reports a coupon's discount for a product
type CouponStatusResponse struct {
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CodeStatusResponse reports one enrollment code and whether it has
// been redeemed
type CodeStatusResponse struct {
	Code     string `json:"code"`
	Redeemed bool   `json:"redeemed"`
}

// OrderStatusResponse is the purchaser-facing view of a bulk order,
// looked up by the order's opaque unique ID
type OrderStatusResponse struct {
	Status         string               `json:"status"`
	Email          string               `json:"email"`
	NumSeats       int                  `json:"num_seats"`
	TotalPrice     decimal.Decimal      `json:"total_price"`
	PerItemPrice   decimal.Decimal      `json:"per_item_price"`
	DiscountAmount *decimal.Decimal     `json:"discount_amount,omitempty"`
	ContractNumber string               `json:"contract_number,omitempty"`
	Codes          []CodeStatusResponse `json:"codes,omitempty"`
}

// ToOrderStatusResponse converts a bulk order to its status view
func ToOrderStatusResponse(order *b2b.B2BOrder, codes []CodeStatusResponse) *OrderStatusResponse {
	return &OrderStatusResponse{
		Status:         string(order.Status),
		Email:          order.Email,
		NumSeats:       order.NumSeats,
		TotalPrice:     order.TotalPrice,
		PerItemPrice:   order.PerItemPrice,
		DiscountAmount: order.DiscountAmount,
		ContractNumber: order.ContractNumber,
		Codes:          codes,
	}
}
