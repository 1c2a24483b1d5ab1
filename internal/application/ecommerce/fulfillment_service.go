package ecommerce

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/infrastructure/telemetry"
)

const (
	decisionAccept = "ACCEPT"
	decisionCancel = "CANCEL"
)

// FulfillmentService settles retail orders from signed gateway
// postbacks and handles manual refunds. Every postback is archived as
// a receipt before the order is touched.
type FulfillmentService struct {
	orderRepo      ecommerce.OrderRepository
	basketRepo     ecommerce.BasketRepository
	gateway        PaymentGateway
	eventPublisher shared.EventPublisher
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(
	orderRepo ecommerce.OrderRepository,
	basketRepo ecommerce.BasketRepository,
	gateway PaymentGateway,
) *FulfillmentService {
	return &FulfillmentService{
		orderRepo:  orderRepo,
		basketRepo: basketRepo,
		gateway:    gateway,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *FulfillmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// HandlePostback verifies a gateway postback and transitions the
// referenced order. ACCEPT fulfills, anything else fails the order. A
// CANCEL arriving after the order has already failed is a no-op so
// gateway retries stay idempotent.
func (s *FulfillmentService) HandlePostback(ctx context.Context, form map[string]string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", "payment_postback")
	defer span.End()
	span.SetAttributes(
		telemetry.AttrPaymentGateway.String("cybersource"),
		telemetry.AttrPaymentStatus.String(form["decision"]),
	)

	if err := s.gateway.VerifyPostback(form); err != nil {
		return err
	}

	orderID, isB2B, err := s.gateway.ParseReferenceID(form["req_reference_number"])
	if err != nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Unrecognized order reference")
	}
	if isB2B {
		return shared.NewDomainError("INVALID_REFERENCE", "Reference belongs to a bulk order")
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
	if err := s.orderRepo.SaveReceipt(ctx, ecommerce.NewReceipt(receiptOrderID, data)); err != nil {
		return err
	}
	if order == nil {
		return shared.ErrNotFound
	}

	decision := form["decision"]
	if !order.IsCreated() {
		if decision == decisionCancel && order.Status == ecommerce.OrderStatusFailed {
			return nil
		}
		return shared.ErrInvalidState
	}

	before, err := shared.Snapshot(order)
	if err != nil {
		return err
	}

	if decision == decisionAccept {
		totalPaid := postbackAmount(form)
		if err := order.Fulfill(totalPaid, s.selectedRunIDs(ctx, order.PurchaserID)); err != nil {
			return err
		}
	} else {
		if err := order.Fail(); err != nil {
			return err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}
	after, err := shared.Snapshot(order)
	if err != nil {
		return err
	}
	if err := s.orderRepo.SaveAudit(ctx, shared.NewAuditRecord("Order", order.ID, nil, before, after)); err != nil {
		return err
	}

	if decision == decisionAccept {
		s.clearBasket(ctx, order.PurchaserID)
	}

	if s.eventPublisher != nil {
		for _, event := range order.GetDomainEvents() {
			s.eventPublisher.Publish(ctx, event)
		}
	}
	order.ClearDomainEvents()

	return nil
}

// Refund marks a fulfilled order refunded. Money movement happens in
// the gateway's back office; this records the outcome and notifies
// downstream consumers so enrollments get revoked.
func (s *FulfillmentService) Refund(ctx context.Context, orderID uuid.UUID, actorID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	before, err := shared.Snapshot(order)
	if err != nil {
		return nil, err
	}
	if err := order.Refund(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	after, err := shared.Snapshot(order)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveAudit(ctx, shared.NewAuditRecord("Order", order.ID, &actorID, before, after)); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, event := range order.GetDomainEvents() {
			s.eventPublisher.Publish(ctx, event)
		}
	}
	order.ClearDomainEvents()

	resp := ToOrderResponse(order)
	return &resp, nil
}

// selectedRunIDs reads the purchaser's course run selections before
// the basket is cleared, so the fulfillment event carries the runs the
// purchaser asked to be enrolled in
func (s *FulfillmentService) selectedRunIDs(ctx context.Context, userID uuid.UUID) []uuid.UUID {
	basket, err := s.basketRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil
	}
	return basket.SelectedRunIDs()
}

// clearBasket empties the purchaser's basket after a settled payment.
// A missing basket is not an error; the purchase already succeeded.
func (s *FulfillmentService) clearBasket(ctx context.Context, userID uuid.UUID) {
	basket, err := s.basketRepo.FindByUser(ctx, userID)
	if err != nil {
		return
	}
	basket.Clear()
	s.basketRepo.Save(ctx, basket)
}

// postbackAmount reads the settled amount from the postback form,
// falling back to the authorized amount
func postbackAmount(form map[string]string) decimal.Decimal {
	for _, key := range []string{"req_amount", "auth_amount"} {
		if raw, ok := form[key]; ok && raw != "" {
			if amount, err := decimal.NewFromString(raw); err == nil {
				return amount
			}
		}
	}
	return decimal.Zero
}
