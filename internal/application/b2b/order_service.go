package b2b

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	ecommerceapp "github.com/xpro/backend/internal/application/ecommerce"
	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/infrastructure/telemetry"
)

const (
	decisionAccept = "ACCEPT"
	decisionCancel = "CANCEL"
)

// OrderService handles bulk enrollment-code purchases: checkout,
// gateway fulfillment, and purchaser-facing status lookups. Fulfilled
// orders get a 100%-off single-use coupon batch with one code per
// seat.
type OrderService struct {
	orderRepo      b2b.OrderRepository
	couponRepo     b2b.CouponRepository
	productRepo    ecommerce.ProductRepository
	retailCoupons  ecommerce.CouponRepository
	gateway        ecommerceapp.PaymentGateway
	baseURL        string
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo b2b.OrderRepository,
	couponRepo b2b.CouponRepository,
	productRepo ecommerce.ProductRepository,
	retailCoupons ecommerce.CouponRepository,
	gateway ecommerceapp.PaymentGateway,
	baseURL string,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		couponRepo:    couponRepo,
		productRepo:   productRepo,
		retailCoupons: retailCoupons,
		gateway:       gateway,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CouponStatus resolves a coupon code against the product behind a
// product version. Spent or out-of-window coupons read as not found.
func (s *OrderService) CouponStatus(ctx context.Context, code string, productVersionID uuid.UUID) (*CouponStatusResponse, error) {
	version, err := s.productRepo.FindVersionByID(ctx, productVersionID)
	if err != nil {
		return nil, err
	}
	coupon, err := s.unexpiredCoupon(ctx, code, version.ProductID)
	if err != nil {
		return nil, err
	}
	return &CouponStatusResponse{
		Code:            coupon.Code,
		DiscountPercent: coupon.DiscountPercent,
	}, nil
}

// Checkout creates a bulk order priced at seats times the product
// version's price, less any coupon discount. A zero total fulfills
// immediately; otherwise the caller is handed a signed gateway
// payload.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "b2b", "create_order")
	defer span.End()
	span.SetAttributes(telemetry.AttrOrderType.String("b2b"))

	version, err := s.productRepo.FindVersionByID(ctx, req.ProductVersionID)
	if err != nil {
		return nil, err
	}

	order, err := b2b.NewB2BOrder(req.Email, req.NumSeats, version.ID, version.Price)
	if err != nil {
		return nil, err
	}
	order.ContractNumber = req.ContractNumber

	var coupon *b2b.B2BCoupon
	if req.CouponCode != nil && *req.CouponCode != "" {
		coupon, err = s.unexpiredCoupon(ctx, *req.CouponCode, version.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrCouponNotRedeemable
			}
			return nil, err
		}
		if err := order.ApplyCoupon(coupon.ID, coupon.DiscountFor(order.TotalPrice)); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	if err := s.auditOrder(ctx, order, nil); err != nil {
		return nil, err
	}
	if coupon != nil {
		if err := s.couponRepo.SaveRedemption(ctx, b2b.NewB2BCouponRedemption(coupon.ID, order.ID)); err != nil {
			return nil, err
		}
	}

	if order.TotalPrice.IsZero() {
		before, err := shared.Snapshot(order)
		if err != nil {
			return nil, err
		}
		if err := s.completeOrder(ctx, order, version.ProductID); err != nil {
			return nil, err
		}
		if err := s.orderRepo.SaveAudit(ctx, shared.NewAuditRecord(b2b.AggregateTypeB2BOrder, order.ID, nil, before, mustSnapshot(order))); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, order)
		return &CheckoutResponse{Provider: "zero", OrderID: order.ID, UniqueID: order.UniqueID}, nil
	}

	item := ecommerceapp.GatewayLineItem{
		Code:      "enrollment_code",
		Name:      version.Description,
		Quantity:  order.NumSeats,
		UnitPrice: order.PerItemPrice,
	}
	receiptURL := fmt.Sprintf("%s/b2b/receipt/%s", s.baseURL, order.UniqueID)
	cancelURL := s.baseURL + "/b2b/checkout"
	payload := s.gateway.B2BSalePayload(order.ID, item, receiptURL, cancelURL)

	return &CheckoutResponse{
		Provider: "cybersource",
		URL:      s.gateway.SecureURL(),
		Payload:  payload,
		OrderID:  order.ID,
		UniqueID: order.UniqueID,
	}, nil
}

// HandlePostback verifies a gateway postback for a bulk order and
// settles it. Mirrors the retail flow including CANCEL-retry
// idempotency.
func (s *OrderService) HandlePostback(ctx context.Context, form map[string]string) error {
	if err := s.gateway.VerifyPostback(form); err != nil {
		return err
	}

	orderID, isB2B, err := s.gateway.ParseReferenceID(form["req_reference_number"])
	if err != nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Unrecognized order reference")
	}
	if !isB2B {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference belongs to a retail order")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	var receiptOrderID *uuid.UUID
	if order != nil {
		receiptOrderID = &order.ID
	}
	data, marshalErr := json.Marshal(form)
	if marshalErr != nil {
		return marshalErr
	}
	if err := s.orderRepo.SaveReceipt(ctx, b2b.NewB2BReceipt(receiptOrderID, data)); err != nil {
		return err
	}
	if order == nil {
		return shared.ErrNotFound
	}

	decision := form["decision"]
	if !order.IsCreated() {
		if decision == decisionCancel && order.Status == b2b.OrderStatusFailed {
			return nil
		}
		return shared.ErrInvalidState
	}

	before, err := shared.Snapshot(order)
	if err != nil {
		return err
	}

	if decision == decisionAccept {
		version, err := s.productRepo.FindVersionByID(ctx, order.ProductVersionID)
		if err != nil {
			return err
		}
		if err := s.completeOrder(ctx, order, version.ProductID); err != nil {
			return err
		}
	} else {
		if err := order.Fail(); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
	}

	if err := s.orderRepo.SaveAudit(ctx, shared.NewAuditRecord(b2b.AggregateTypeB2BOrder, order.ID, nil, before, mustSnapshot(order))); err != nil {
		return err
	}

	s.publishEvents(ctx, order)
	return nil
}

// Status returns a bulk order's state and, once fulfilled, its
// enrollment codes with their redemption state
func (s *OrderService) Status(ctx context.Context, uniqueID uuid.UUID) (*OrderStatusResponse, error) {
	order, err := s.orderRepo.FindByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, err
	}

	var codes []CodeStatusResponse
	if order.CouponPaymentVersionID != nil {
		version, err := s.retailCoupons.FindPaymentVersionByID(ctx, *order.CouponPaymentVersionID)
		if err != nil {
			return nil, err
		}
		statuses, err := s.retailCoupons.FindCodesForPayment(ctx, version.PaymentID)
		if err != nil {
			return nil, err
		}
		codes = make([]CodeStatusResponse, len(statuses))
		for i, status := range statuses {
			codes[i] = CodeStatusResponse{Code: status.Code, Redeemed: status.Redeemed}
		}
	}

	return ToOrderStatusResponse(order, codes), nil
}

// unexpiredCoupon loads a coupon that is enabled, inside its validity
// window, applicable to the product, and not already spent
func (s *OrderService) unexpiredCoupon(ctx context.Context, code string, productID uuid.UUID) (*b2b.B2BCoupon, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !coupon.IsValidNow(time.Now()) || !coupon.AppliesTo(productID) {
		return nil, shared.ErrNotFound
	}
	if !coupon.Reusable {
		spent, err := s.couponRepo.HasSettledRedemption(ctx, coupon.ID)
		if err != nil {
			return nil, err
		}
		if spent {
			return nil, shared.ErrNotFound
		}
	}
	return coupon, nil
}

// completeOrder creates the order's enrollment-code batch, a 100%-off
// single-use coupon payment with one code per seat, eligible only for
// the ordered product, then fulfills the order
func (s *OrderService) completeOrder(ctx context.Context, order *b2b.B2BOrder, productID uuid.UUID) error {
	payment, err := ecommerce.NewCouponPayment(fmt.Sprintf("B2B order %s", order.UniqueID))
	if err != nil {
		return err
	}
	if err := s.retailCoupons.SavePayment(ctx, payment); err != nil {
		return err
	}

	version, err := ecommerce.NewCouponPaymentVersion(
		payment.ID,
		ecommerce.CouponTypeSingleUse,
		order.NumSeats,
		1,
		1,
		decimal.NewFromInt(1),
		nil,
		nil,
	)
	if err != nil {
		return err
	}
	version.PaymentType = ecommerce.PaymentTypeSales
	version.PaymentTransaction = order.ContractNumber
	if err := s.retailCoupons.SavePaymentVersion(ctx, version); err != nil {
		return err
	}

	for i := 0; i < order.NumSeats; i++ {
		coupon, err := ecommerce.NewCoupon(payment.ID, enrollmentCode())
		if err != nil {
			return err
		}
		if err := s.retailCoupons.Save(ctx, coupon); err != nil {
			return err
		}
		if err := s.retailCoupons.SaveVersion(ctx, ecommerce.NewCouponVersion(coupon.ID, version.ID)); err != nil {
			return err
		}
		eligibility := &ecommerce.CouponEligibility{
			BaseEntity: shared.NewBaseEntity(),
			CouponID:   coupon.ID,
			ProductID:  productID,
		}
		if err := s.retailCoupons.SaveEligibility(ctx, eligibility); err != nil {
			return err
		}
	}

	if err := order.Fulfill(version.ID); err != nil {
		return err
	}
	return s.orderRepo.Save(ctx, order)
}

func (s *OrderService) auditOrder(ctx context.Context, order *b2b.B2BOrder, before []byte) error {
	after, err := shared.Snapshot(order)
	if err != nil {
		return err
	}
	return s.orderRepo.SaveAudit(ctx, shared.NewAuditRecord(b2b.AggregateTypeB2BOrder, order.ID, nil, before, after))
}

func (s *OrderService) publishEvents(ctx context.Context, order *b2b.B2BOrder) {
	if s.eventPublisher != nil {
		for _, event := range order.GetDomainEvents() {
			s.eventPublisher.Publish(ctx, event)
		}
	}
	order.ClearDomainEvents()
}

// mustSnapshot marshals an aggregate already proven serializable by
// an earlier Snapshot call
func mustSnapshot(v any) []byte {
	data, _ := shared.Snapshot(v)
	return data
}

// enrollmentCode returns a 32-character random enrollment code
func enrollmentCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
