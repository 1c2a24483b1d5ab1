package ecommerce

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/enrollment"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of ecommerce.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindByObject(ctx context.Context, productType ecommerce.ProductType, objectID uuid.UUID) (*ecommerce.Product, error) {
	args := m.Called(ctx, productType, objectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindVisible(ctx context.Context, filter shared.Filter) ([]ecommerce.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ecommerce.Product), args.Error(1)
}

func (m *MockProductRepository) FindVersionByID(ctx context.Context, id uuid.UUID) (*ecommerce.ProductVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.ProductVersion), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *ecommerce.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBasketRepository is a mock implementation of ecommerce.BasketRepository
type MockBasketRepository struct {
	mock.Mock
}

func (m *MockBasketRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*ecommerce.Basket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Basket), args.Error(1)
}

func (m *MockBasketRepository) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*ecommerce.Basket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Basket), args.Error(1)
}

func (m *MockBasketRepository) Save(ctx context.Context, basket *ecommerce.Basket) error {
	args := m.Called(ctx, basket)
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

// MockCompanyRepository is a mock implementation of ecommerce.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByName(ctx context.Context, name string) (*ecommerce.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ecommerce.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ecommerce.Company, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ecommerce.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *ecommerce.Company) error {
	args := m.Called(ctx, company)
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

// MockCourseRunRepository is a mock implementation of catalog.CourseRunRepository
type MockCourseRunRepository struct {
	mock.Mock
}

func (m *MockCourseRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CourseRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.CourseRun, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) FindByCoursewareID(ctx context.Context, coursewareID string) (*catalog.CourseRun, error) {
	args := m.Called(ctx, coursewareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) FindByExternalID(ctx context.Context, externalCourseRunID string) (*catalog.CourseRun, error) {
	args := m.Called(ctx, externalCourseRunID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]catalog.CourseRun, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CourseRun), args.Error(1)
}

func (m *MockCourseRunRepository) Save(ctx context.Context, run *catalog.CourseRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockCourseRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCourseRepository is a mock implementation of catalog.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByIDWithRuns(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByReadableID(ctx context.Context, readableID string) (*catalog.Course, error) {
	args := m.Called(ctx, readableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByExternalID(ctx context.Context, platformID uuid.UUID, externalCourseID string) (*catalog.Course, error) {
	args := m.Called(ctx, platformID, externalCourseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindLive(ctx context.Context, filter shared.Filter) ([]catalog.Course, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Course, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByProgram(ctx context.Context, programID uuid.UUID) ([]catalog.Course, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) Save(ctx context.Context, course *catalog.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) AttachTopic(ctx context.Context, courseID, topicID uuid.UUID) error {
	args := m.Called(ctx, courseID, topicID)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockProgramRepository is a mock implementation of catalog.ProgramRepository
type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Program), args.Error(1)
}

func (m *MockProgramRepository) FindByReadableID(ctx context.Context, readableID string) (*catalog.Program, error) {
	args := m.Called(ctx, readableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Program), args.Error(1)
}

func (m *MockProgramRepository) FindLive(ctx context.Context, filter shared.Filter) ([]catalog.Program, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Program), args.Error(1)
}

func (m *MockProgramRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Program, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Program), args.Error(1)
}

func (m *MockProgramRepository) MaxPosition(ctx context.Context, programID uuid.UUID) (int, error) {
	args := m.Called(ctx, programID)
	return args.Int(0), args.Error(1)
}

func (m *MockProgramRepository) Save(ctx context.Context, program *catalog.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProgramRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnrollmentRepository is a mock implementation of enrollment.Repository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.CourseRunEnrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.CourseRunEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByUserAndRun(ctx context.Context, userID, runID uuid.UUID) (*enrollment.CourseRunEnrollment, error) {
	args := m.Called(ctx, userID, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.CourseRunEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]enrollment.CourseRunEnrollment, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]enrollment.CourseRunEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Save(ctx context.Context, enr *enrollment.CourseRunEnrollment) error {
	args := m.Called(ctx, enr)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) FindProgramEnrollment(ctx context.Context, userID, programID uuid.UUID) (*enrollment.ProgramEnrollment, error) {
	args := m.Called(ctx, userID, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.ProgramEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) SaveProgramEnrollment(ctx context.Context, enr *enrollment.ProgramEnrollment) error {
	args := m.Called(ctx, enr)
	return args.Error(0)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) MakeReferenceID(orderID uuid.UUID) string {
	args := m.Called(orderID)
	return args.String(0)
}

func (m *MockPaymentGateway) MakeB2BReferenceID(orderID uuid.UUID) string {
	args := m.Called(orderID)
	return args.String(0)
}

func (m *MockPaymentGateway) ParseReferenceID(reference string) (uuid.UUID, bool, error) {
	args := m.Called(reference)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockPaymentGateway) SecureURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPaymentGateway) SalePayload(orderID uuid.UUID, username string, items []GatewayLineItem) map[string]string {
	args := m.Called(orderID, username, items)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]string)
}

func (m *MockPaymentGateway) B2BSalePayload(orderID uuid.UUID, item GatewayLineItem, receiptURL, cancelURL string) map[string]string {
	args := m.Called(orderID, item, receiptURL, cancelURL)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]string)
}

func (m *MockPaymentGateway) VerifyPostback(form map[string]string) error {
	args := m.Called(form)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var (
	_ ecommerce.ProductRepository   = (*MockProductRepository)(nil)
	_ ecommerce.BasketRepository    = (*MockBasketRepository)(nil)
	_ ecommerce.CouponRepository    = (*MockCouponRepository)(nil)
	_ ecommerce.OrderRepository     = (*MockOrderRepository)(nil)
	_ ecommerce.CompanyRepository   = (*MockCompanyRepository)(nil)
	_ identity.UserRepository       = (*MockUserRepository)(nil)
	_ catalog.CourseRunRepository   = (*MockCourseRunRepository)(nil)
	_ catalog.CourseRepository      = (*MockCourseRepository)(nil)
	_ catalog.ProgramRepository     = (*MockProgramRepository)(nil)
	_ enrollment.Repository         = (*MockEnrollmentRepository)(nil)
	_ PaymentGateway                = (*MockPaymentGateway)(nil)
	_ shared.EventPublisher         = (*MockEventPublisher)(nil)
)
