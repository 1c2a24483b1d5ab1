package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
)

// MockMailClient is a mock implementation of MailClient
type MockMailClient struct {
	mock.Mock
}

func (m *MockMailClient) Send(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of ecommerce.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPurchaser(ctx context.Context, purchaserID uuid.UUID, filter shared.Filter) ([]ecommerce.Order, error) {
	args := m.Called(ctx, purchaserID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ecommerce.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ecommerce.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveReceipt(ctx context.Context, receipt *ecommerce.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveAudit(ctx context.Context, record *shared.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockB2BOrderRepository is a mock implementation of b2b.OrderRepository
type MockB2BOrderRepository struct {
	mock.Mock
}

func (m *MockB2BOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*b2b.B2BOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*b2b.B2BOrder), args.Error(1)
}

func (m *MockB2BOrderRepository) FindByUniqueID(ctx context.Context, uniqueID uuid.UUID) (*b2b.B2BOrder, error) {
	args := m.Called(ctx, uniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*b2b.B2BOrder), args.Error(1)
}

func (m *MockB2BOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]b2b.B2BOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]b2b.B2BOrder), args.Error(1)
}

func (m *MockB2BOrderRepository) Save(ctx context.Context, order *b2b.B2BOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockB2BOrderRepository) SaveReceipt(ctx context.Context, receipt *b2b.B2BReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockB2BOrderRepository) SaveAudit(ctx context.Context, record *shared.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockCouponRepository is a mock implementation of ecommerce.CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*ecommerce.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindCandidatesForProduct(ctx context.Context, productID uuid.UUID, opts ecommerce.CandidateQuery) ([]ecommerce.CandidateCouponVersion, error) {
	args := m.Called(ctx, productID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ecommerce.CandidateCouponVersion), args.Error(1)
}

func (m *MockCouponRepository) CountFulfilledRedemptions(ctx context.Context, versionIDs []uuid.UUID, userID uuid.UUID) (ecommerce.RedemptionCounts, error) {
	args := m.Called(ctx, versionIDs, userID)
	return args.Get(0).(ecommerce.RedemptionCounts), args.Error(1)
}

func (m *MockCouponRepository) LatestVersionForCoupon(ctx context.Context, couponID uuid.UUID) (*ecommerce.CandidateCouponVersion, error) {
	args := m.Called(ctx, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.CandidateCouponVersion), args.Error(1)
}

func (m *MockCouponRepository) SavePayment(ctx context.Context, payment *ecommerce.CouponPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockCouponRepository) SavePaymentVersion(ctx context.Context, version *ecommerce.CouponPaymentVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockCouponRepository) FindPaymentVersionByID(ctx context.Context, id uuid.UUID) (*ecommerce.CouponPaymentVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.CouponPaymentVersion), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *ecommerce.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) SaveVersion(ctx context.Context, version *ecommerce.CouponVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockCouponRepository) SaveEligibility(ctx context.Context, eligibility *ecommerce.CouponEligibility) error {
	args := m.Called(ctx, eligibility)
	return args.Error(0)
}

func (m *MockCouponRepository) SaveRedemption(ctx context.Context, redemption *ecommerce.CouponRedemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

func (m *MockCouponRepository) FindRedemptionByOrder(ctx context.Context, orderID uuid.UUID) (*ecommerce.CouponRedemption, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.CouponRedemption), args.Error(1)
}

func (m *MockCouponRepository) FindCodesForPayment(ctx context.Context, paymentID uuid.UUID) ([]ecommerce.CouponCodeStatus, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ecommerce.CouponCodeStatus), args.Error(1)
}
