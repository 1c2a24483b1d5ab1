package ecommerce

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/infrastructure/telemetry"
)

// CheckoutService turns a validated basket into an order and hands the
// purchaser off to the payment gateway. Orders with a fully discounted
// total are fulfilled immediately without a gateway round trip.
type CheckoutService struct {
	basketRepo     ecommerce.BasketRepository
	productRepo    ecommerce.ProductRepository
	couponRepo     ecommerce.CouponRepository
	orderRepo      ecommerce.OrderRepository
	userRepo       identity.UserRepository
	runRepo        catalog.CourseRunRepository
	programRepo    catalog.ProgramRepository
	gateway        PaymentGateway
	eventPublisher shared.EventPublisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	basketRepo ecommerce.BasketRepository,
	productRepo ecommerce.ProductRepository,
	couponRepo ecommerce.CouponRepository,
	orderRepo ecommerce.OrderRepository,
	userRepo identity.UserRepository,
	runRepo catalog.CourseRunRepository,
	programRepo catalog.ProgramRepository,
	gateway PaymentGateway,
) *CheckoutService {
	return &CheckoutService{
		basketRepo:  basketRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		runRepo:     runRepo,
		programRepo: programRepo,
		gateway:     gateway,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Checkout creates an order from the caller's basket. The order is
// priced at the latest product version and the basket's applicable
// coupon; the coupon redemption is recorded against the order so the
// version's redemption limits hold even before payment settles.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "create_order")
	defer span.End()
	span.SetAttributes(telemetry.AttrOrderType.String("retail"))

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	basket, err := s.basketRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrBasketInvalid
		}
		return nil, err
	}
	if basket.IsEmpty() {
		return nil, shared.ErrBasketInvalid
	}

	item := basket.Items[0]
	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(telemetry.AttrProductID.String(product.ID.String()))
	latest := product.LatestVersion()
	if latest == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product has no price version")
	}
	if product.Type == ecommerce.ProductTypeCourseRun && len(basket.SelectedRunIDs()) == 0 {
		return nil, shared.NewDomainError("RUN_NOT_SELECTED", "Select a course run before checking out")
	}

	gatewayItem, err := s.gatewayLineItem(ctx, product, latest, item.Quantity)
	if err != nil {
		return nil, err
	}

	total := latest.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	discounted := total
	var coupon *ecommerce.CandidateCouponVersion
	if couponID := basket.SelectedCouponID(); couponID != nil {
		selected, err := s.couponRepo.FindByID(ctx, *couponID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrCouponNotRedeemable
			}
			return nil, err
		}
		coupon, err = bestCouponVersion(ctx, s.couponRepo, product.ID, userID, ecommerce.CandidateQuery{Code: selected.Code})
		if err != nil {
			return nil, err
		}
		if coupon == nil {
			return nil, shared.ErrCouponNotRedeemable
		}
	} else {
		coupon, err = bestCouponVersion(ctx, s.couponRepo, product.ID, userID, ecommerce.CandidateQuery{AutomaticOnly: true})
		if err != nil {
			return nil, err
		}
	}
	if coupon != nil {
		discounted = coupon.PaymentVersion.DiscountedPrice(total)
	}

	order := ecommerce.NewOrder(userID)
	if err := order.AddLine(latest.ID, item.Quantity); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	if err := s.auditOrder(ctx, order, nil, &userID); err != nil {
		return nil, err
	}

	if coupon != nil {
		redemption := ecommerce.NewCouponRedemption(coupon.CouponVersion.ID, order.ID)
		if err := s.couponRepo.SaveRedemption(ctx, redemption); err != nil {
			return nil, err
		}
	}

	if discounted.IsZero() {
		before, err := shared.Snapshot(order)
		if err != nil {
			return nil, err
		}
		if err := order.Fulfill(decimal.Zero, basket.SelectedRunIDs()); err != nil {
			return nil, err
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return nil, err
		}
		if err := s.orderRepo.SaveAudit(ctx, shared.NewAuditRecord("Order", order.ID, &userID, before, mustSnapshot(order))); err != nil {
			return nil, err
		}
		basket.Clear()
		if err := s.basketRepo.Save(ctx, basket); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, order)
		return &CheckoutResponse{Provider: "zero", OrderID: order.ID}, nil
	}

	payload := s.gateway.SalePayload(order.ID, user.Username, []GatewayLineItem{gatewayItem})
	return &CheckoutResponse{
		Provider: "cybersource",
		URL:      s.gateway.SecureURL(),
		Payload:  payload,
		OrderID:  order.ID,
	}, nil
}

// Get returns an order visible to the caller
func (s *CheckoutService) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PurchaserID != userID {
		return nil, shared.ErrForbidden
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List returns the caller's orders
func (s *CheckoutService) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	orders, err := s.orderRepo.FindByPurchaser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, nil
}

// gatewayLineItem describes the purchased catalog object to the
// payment gateway, using the platform identifier as the SKU
func (s *CheckoutService) gatewayLineItem(ctx context.Context, product *ecommerce.Product, version *ecommerce.ProductVersion, quantity int) (GatewayLineItem, error) {
	item := GatewayLineItem{
		Code:      string(product.Type),
		Name:      version.Description,
		Quantity:  quantity,
		UnitPrice: version.Price,
	}
	switch product.Type {
	case ecommerce.ProductTypeCourseRun:
		run, err := s.runRepo.FindByID(ctx, product.ObjectID)
		if err != nil {
			return item, err
		}
		item.SKU = run.CoursewareID
		if item.Name == "" {
			item.Name = run.Title
		}
	case ecommerce.ProductTypeProgram:
		program, err := s.programRepo.FindByID(ctx, product.ObjectID)
		if err != nil {
			return item, err
		}
		item.SKU = program.ReadableID
		if item.Name == "" {
			item.Name = program.Title
		}
	}
	return item, nil
}

func (s *CheckoutService) auditOrder(ctx context.Context, order *ecommerce.Order, before []byte, actorID *uuid.UUID) error {
	after, err := shared.Snapshot(order)
	if err != nil {
		return err
	}
	return s.orderRepo.SaveAudit(ctx, shared.NewAuditRecord("Order", order.ID, actorID, before, after))
}

func (s *CheckoutService) publishEvents(ctx context.Context, order *ecommerce.Order) {
	if s.eventPublisher != nil {
		for _, event := range order.GetDomainEvents() {
			s.eventPublisher.Publish(ctx, event)
		}
	}
	order.ClearDomainEvents()
}

// mustSnapshot marshals an aggregate already proven serializable by an
// earlier Snapshot call
func mustSnapshot(v any) []byte {
	data, _ := shared.Snapshot(v)
	return data
}
