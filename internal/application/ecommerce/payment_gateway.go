package ecommerce

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GatewayLineItem is a purchased line presented to the payment gateway
type GatewayLineItem struct {
	Code      string
	Name      string
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PaymentGateway defines the interface for the hosted-checkout payment
// gateway. Implemented by the infrastructure layer with signed
// Secure Acceptance form payloads.
type PaymentGateway interface {
	// MakeReferenceID builds the retail gateway reference for an order
	MakeReferenceID(orderID uuid.UUID) string

	// MakeB2BReferenceID builds the bulk-purchase gateway reference
	// for an order
	MakeB2BReferenceID(orderID uuid.UUID) string

	// ParseReferenceID recovers the order ID from a gateway reference
	// and reports whether it is a bulk-purchase reference
	ParseReferenceID(reference string) (uuid.UUID, bool, error)

	// SecureURL returns the gateway endpoint the signed form posts to
	SecureURL() string

	// SalePayload builds the signed form payload for a retail sale
	SalePayload(orderID uuid.UUID, username string, items []GatewayLineItem) map[string]string

	// B2BSalePayload builds the signed form payload for a bulk
	// enrollment-code sale
	B2BSalePayload(orderID uuid.UUID, item GatewayLineItem, receiptURL, cancelURL string) map[string]string

	// VerifyPostback checks the signature of a gateway postback form
	VerifyPostback(form map[string]string) error
}
