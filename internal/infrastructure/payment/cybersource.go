package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
	"github.com/xpro/backend/internal/infrastructure/config"
)

// Secure Acceptance decision values returned in the gateway postback
const (
	DecisionAccept  = "ACCEPT"
	DecisionCancel  = "CANCEL"
	DecisionDecline = "DECLINE"
	DecisionError   = "ERROR"
	DecisionReview  = "REVIEW"
)

const (
	iso8601Format   = "2006-01-02T15:04:05Z"
	referenceHead   = "XPRO"
	b2bReferenceTag = "B2B"
)

// Config validation errors
var (
	ErrMissingAccessKey   = errors.New("cybersource: missing access key")
	ErrMissingProfileID   = errors.New("cybersource: missing profile ID")
	ErrMissingSecurityKey = errors.New("cybersource: missing security key")
	ErrInvalidReference   = errors.New("cybersource: malformed reference number")
	ErrInvalidSignature   = errors.New("cybersource: signature mismatch")
)

// LineItem is one purchasable line in a Secure Acceptance payload
type LineItem = ecommerceapp.GatewayLineItem

var _ ecommerceapp.PaymentGateway = (*Gateway)(nil)

// Gateway builds and verifies CyberSource Secure Acceptance payloads.
// The payload is a flat string map; the signature is an HMAC-SHA256
// over "k=v" pairs of the sorted signed field names, base64 encoded.
type Gateway struct {
	accessKey       string
	profileID       string
	securityKey     []byte
	secureURL       string
	referencePrefix string

	// now is swappable for deterministic signed_date_time in tests
	now func() time.Time
}

// NewGateway creates a Secure Acceptance gateway from configuration
func NewGateway(cfg config.CyberSourceConfig) (*Gateway, error) {
	if cfg.AccessKey == "" {
		return nil, ErrMissingAccessKey
	}
	if cfg.ProfileID == "" {
		return nil, ErrMissingProfileID
	}
	if cfg.SecurityKey == "" {
		return nil, ErrMissingSecurityKey
	}

	return &Gateway{
		accessKey:       cfg.AccessKey,
		profileID:       cfg.ProfileID,
		securityKey:     []byte(cfg.SecurityKey),
		secureURL:       cfg.SecureURL,
		referencePrefix: cfg.ReferencePrefix,
		now:             time.Now,
	}, nil
}

// SecureURL returns the hosted payment page the payload must be posted
// to
func (g *Gateway) SecureURL() string {
	return g.secureURL
}

// MakeReferenceID builds the reference number for a retail order
func (g *Gateway) MakeReferenceID(orderID uuid.UUID) string {
	return fmt.Sprintf("%s-%s-%s", referenceHead, g.referencePrefix, orderID)
}

// MakeB2BReferenceID builds the reference number for a bulk order
func (g *Gateway) MakeB2BReferenceID(orderID uuid.UUID) string {
	return fmt.Sprintf("%s-%s-%s-%s", referenceHead, b2bReferenceTag, g.referencePrefix, orderID)
}

// ParseReferenceID extracts the order ID from a reference number and
// reports whether it names a bulk order
func (g *Gateway) ParseReferenceID(reference string) (uuid.UUID, bool, error) {
	rest, ok := strings.CutPrefix(reference, referenceHead+"-")
	if !ok {
		return uuid.Nil, false, ErrInvalidReference
	}

	isB2B := false
	if tail, found := strings.CutPrefix(rest, b2bReferenceTag+"-"); found {
		isB2B = true
		rest = tail
	}

	rest, ok = strings.CutPrefix(rest, g.referencePrefix+"-")
	if !ok {
		return uuid.Nil, isB2B, ErrInvalidReference
	}

	orderID, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, isB2B, ErrInvalidReference
	}
	return orderID, isB2B, nil
}

// SalePayload builds the signed payload for a retail checkout
func (g *Gateway) SalePayload(orderID uuid.UUID, username string, items []LineItem) map[string]string {
	payload := g.basePayload(g.MakeReferenceID(orderID), username, items)
	return g.signPayload(payload)
}

// B2BSalePayload builds the signed payload for a bulk enrollment-code
// checkout. Receipt and cancel URLs override the profile defaults so
// the purchaser lands back on the bulk-order status page.
func (g *Gateway) B2BSalePayload(orderID uuid.UUID, item LineItem, receiptURL, cancelURL string) map[string]string {
	payload := g.basePayload(g.MakeB2BReferenceID(orderID), "", []LineItem{item})
	delete(payload, "consumer_id")
	payload["override_custom_receipt_page"] = receiptURL
	payload["override_custom_cancel_page"] = cancelURL
	return g.signPayload(payload)
}

func (g *Gateway) basePayload(reference, username string, items []LineItem) map[string]string {
	payload := map[string]string{
		"access_key":           g.accessKey,
		"profile_id":           g.profileID,
		"currency":             "USD",
		"locale":               "en-us",
		"reference_number":     reference,
		"transaction_type":     "sale",
		"transaction_uuid":     strings.ReplaceAll(uuid.New().String(), "-", ""),
		"signed_date_time":     g.now().UTC().Format(iso8601Format),
		"line_item_count":      strconv.Itoa(len(items)),
		"unsigned_field_names": "",
	}
	if username != "" {
		payload["consumer_id"] = username
	}

	total := decimal.Zero
	for i, item := range items {
		prefix := fmt.Sprintf("item_%d_", i)
		payload[prefix+"code"] = item.Code
		payload[prefix+"name"] = truncate(item.Name, 254)
		payload[prefix+"sku"] = truncate(item.SKU, 254)
		payload[prefix+"quantity"] = strconv.Itoa(item.Quantity)
		payload[prefix+"tax_amount"] = "0"
		payload[prefix+"unit_price"] = item.UnitPrice.StringFixed(2)
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	payload["amount"] = total.StringFixed(2)

	return payload
}

// signPayload appends signed_field_names and the signature over every
// field. All fields are signed; unsigned_field_names stays empty.
func (g *Gateway) signPayload(payload map[string]string) map[string]string {
	fieldNames := make([]string, 0, len(payload)+1)
	for key := range payload {
		fieldNames = append(fieldNames, key)
	}
	fieldNames = append(fieldNames, "signed_field_names")
	sort.Strings(fieldNames)

	payload["signed_field_names"] = strings.Join(fieldNames, ",")
	payload["signature"] = g.Sign(payload)
	return payload
}

// Sign computes the Secure Acceptance signature for a payload that
// already carries signed_field_names
func (g *Gateway) Sign(payload map[string]string) string {
	keys := strings.Split(payload["signed_field_names"], ",")
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+payload[key])
	}
	message := strings.Join(pairs, ",")

	mac := hmac.New(sha256.New, g.securityKey)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyPostback checks the signature on a gateway postback form. The
// form's signed_field_names lists the fields covered by its signature.
func (g *Gateway) VerifyPostback(form map[string]string) error {
	signature, ok := form["signature"]
	if !ok || form["signed_field_names"] == "" {
		return ErrInvalidSignature
	}

	expected := g.Sign(form)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
