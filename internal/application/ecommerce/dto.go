package ecommerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/ecommerce"
)

// CreateProductRequest represents a request to create a product with
// its first version
type CreateProductRequest struct {
	Type        string          `json:"type" binding:"required"`
	ObjectID    uuid.UUID       `json:"object_id" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description"`
}

// AddProductVersionRequest appends a new price version to a product
type AddProductVersionRequest struct {
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description"`
}

// CreateCompanyRequest represents a request to create a company
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCouponBatchRequest creates a coupon payment with one version
// and a batch of codes. When Code is set a single coupon with that
// code is created; otherwise NumCouponCodes codes are generated.
type CreateCouponBatchRequest struct {
	Name                  string          `json:"name" binding:"required"`
	CouponType            string          `json:"coupon_type" binding:"required"`
	NumCouponCodes        int             `json:"num_coupon_codes"`
	MaxRedemptions        int             `json:"max_redemptions"`
	MaxRedemptionsPerUser int             `json:"max_redemptions_per_user"`
	Amount                decimal.Decimal `json:"amount" binding:"required"`
	Code                  string          `json:"code"`
	ActivationDate        *time.Time      `json:"activation_date"`
	ExpirationDate        *time.Time      `json:"expiration_date"`
	Automatic             bool            `json:"automatic"`
	CompanyID             *uuid.UUID      `json:"company_id"`
	PaymentType           string          `json:"payment_type"`
	PaymentTransaction    string          `json:"payment_transaction"`
	ProductIDs            []uuid.UUID     `json:"product_ids" binding:"required"`
}

// UpdateBasketRequest mutates the caller's basket. Nil fields are left
// untouched; an empty CouponCode clears the coupon selection.
type UpdateBasketRequest struct {
	Items      []BasketItemRequest `json:"items"`
	RunIDs     []uuid.UUID         `json:"run_ids"`
	CouponCode *string             `json:"coupon_code"`
}

// BasketItemRequest is a product placed into a basket
type BasketItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	ObjectID    uuid.UUID       `json:"object_id"`
	Visible     bool            `json:"visible"`
	VersionID   uuid.UUID       `json:"version_id"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CouponBatchResponse is returned after coupon batch creation
type CouponBatchResponse struct {
	PaymentID        uuid.UUID       `json:"payment_id"`
	PaymentVersionID uuid.UUID       `json:"payment_version_id"`
	Name             string          `json:"name"`
	CouponType       string          `json:"coupon_type"`
	Amount           decimal.Decimal `json:"amount"`
	Codes            []string        `json:"codes"`
}

// CouponCodeStatusResponse reports redemption state for one code
type CouponCodeStatusResponse struct {
	Code     string `json:"code"`
	Redeemed bool   `json:"redeemed"`
}

// BasketResponse represents the caller's basket
type BasketResponse struct {
	ID       uuid.UUID            `json:"id"`
	Items    []BasketItemResponse `json:"items"`
	RunIDs   []uuid.UUID          `json:"run_ids,omitempty"`
	CouponID *uuid.UUID           `json:"coupon_id,omitempty"`
	// TotalPrice is the undiscounted price of the basket contents
	TotalPrice decimal.Decimal `json:"total_price"`
	// DiscountedPrice is the price after the best applicable coupon
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
}

// BasketItemResponse is a basket line priced at the product's latest
// version
type BasketItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CheckoutResponse describes how the client should complete payment.
// For zero-total checkouts Provider is "zero" and the order is already
// fulfilled; otherwise the client posts Payload to URL.
type CheckoutResponse struct {
	Provider string            `json:"provider"`
	URL      string            `json:"url,omitempty"`
	Payload  map[string]string `json:"payload,omitempty"`
	OrderID  uuid.UUID         `json:"order_id"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	PurchaserID uuid.UUID           `json:"purchaser_id"`
	Status      string              `json:"status"`
	TotalPaid   decimal.Decimal     `json:"total_paid"`
	Lines       []OrderLineResponse `json:"lines"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OrderLineResponse is an order line in API responses
type OrderLineResponse struct {
	ProductVersionID uuid.UUID `json:"product_version_id"`
	Quantity         int       `json:"quantity"`
}

// ToProductResponse converts a product and its latest version to a
// response DTO
func ToProductResponse(p *ecommerce.Product) ProductResponse {
	resp := ProductResponse{
		ID:        p.ID,
		Type:      string(p.Type),
		ObjectID:  p.ObjectID,
		Visible:   p.Visible,
		CreatedAt: p.CreatedAt,
	}
	if latest := p.LatestVersion(); latest != nil {
		resp.VersionID = latest.ID
		resp.Price = latest.Price
		resp.Description = latest.Description
	}
	return resp
}

// ToCompanyResponse converts a domain company to a response DTO
func ToCompanyResponse(c *ecommerce.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *ecommerce.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		PurchaserID: o.PurchaserID,
		Status:      string(o.Status),
		TotalPaid:   o.TotalPaid,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	for _, line := range o.Lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ProductVersionID: line.ProductVersionID,
			Quantity:         line.Quantity,
		})
	}
	return resp
}
