package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// NotificationService composes and sends the transactional emails that
// follow order lifecycle events: purchase receipts, enrollment-code
// deliveries for bulk orders, and enrollment failure alerts to support.
type NotificationService struct {
	userRepo     identity.UserRepository
	orderRepo    ecommerce.OrderRepository
	b2bOrderRepo b2b.OrderRepository
	couponRepo   ecommerce.CouponRepository
	client       MailClient
	supportEmail string
	logger       *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	userRepo identity.UserRepository,
	orderRepo ecommerce.OrderRepository,
	b2bOrderRepo b2b.OrderRepository,
	couponRepo ecommerce.CouponRepository,
	client MailClient,
	supportEmail string,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		b2bOrderRepo: b2bOrderRepo,
		couponRepo:   couponRepo,
		client:       client,
		supportEmail: supportEmail,
		logger:       logger,
	}
}

// SendOrderReceipt emails the purchaser a receipt for a settled retail
// order.
func (s *NotificationService) SendOrderReceipt(ctx context.Context, orderID, purchaserID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, purchaserID)
	if err != nil {
		return fmt.Errorf("failed to load purchaser: %w", err)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for your purchase. Your order %s has been confirmed.\n\nTotal paid: $%s\n",
		user.Username, order.ID, order.TotalPaid.StringFixed(2),
	)

	msg := Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Your order %s is confirmed", order.ID),
		Text:    body,
	}
	if err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}

	s.logger.Info("sent order receipt",
		zap.String("order_id", orderID.String()),
		zap.String("email", user.Email))
	return nil
}

// SendEnrollmentCodes emails the bulk purchaser the coupon codes minted
// for their order, one code per seat.
func (s *NotificationService) SendEnrollmentCodes(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.b2bOrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load bulk order: %w", err)
	}
	if order.CouponPaymentVersionID == nil {
		return fmt.Errorf("bulk order %s has no coupon payment version", orderID)
	}

	version, err := s.couponRepo.FindPaymentVersionByID(ctx, *order.CouponPaymentVersionID)
	if err != nil {
		return fmt.Errorf("failed to load coupon payment version: %w", err)
	}

	codes, err := s.couponRepo.FindCodesForPayment(ctx, version.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to load enrollment codes: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello,\n\nYour bulk order for %d seats is confirmed. Each code below enrolls one learner:\n\n", order.NumSeats)
	for _, code := range codes {
		fmt.Fprintf(&sb, "  %s\n", code.Code)
	}

	msg := Message{
		To:      order.Email,
		Subject: fmt.Sprintf("Your %d enrollment codes", order.NumSeats),
		Text:    sb.String(),
	}
	if err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send enrollment codes email: %w", err)
	}

	s.logger.Info("sent enrollment codes",
		zap.String("order_id", orderID.String()),
		zap.Int("codes", len(codes)))
	return nil
}

// SendEnrollmentFailure alerts the support address that a paid learner
// could not be enrolled in the courseware platform.
func (s *NotificationService) SendEnrollmentFailure(ctx context.Context, userID uuid.UUID, coursewareID, reason string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	body := fmt.Sprintf(
		"Enrollment for %s (%s) in %s failed and needs manual review.\n\nError: %s\n",
		user.Username, user.Email, coursewareID, reason,
	)

	msg := Message{
		To:      s.supportEmail,
		Subject: fmt.Sprintf("Enrollment failed for %s", coursewareID),
		Text:    body,
	}
	if err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send enrollment failure email: %w", err)
	}

	s.logger.Info("sent enrollment failure alert",
		zap.String("user_id", userID.String()),
		zap.String("courseware_id", coursewareID))
	return nil
}
