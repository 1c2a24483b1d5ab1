package voucher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/domain/voucher"
)

// MockVoucherRepository is a mock implementation of voucher.Repository
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]voucher.Voucher, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]voucher.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindAttachedCouponIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockVoucherRepository) Save(ctx context.Context, v *voucher.Voucher) error {
	args := m.Called(ctx, v)
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

// MockObjectStorageService is a mock implementation of ObjectStorageService
type MockObjectStorageService struct {
	mock.Mock
}

func (m *MockObjectStorageService) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorageService) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorageService) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

var _ ObjectStorageService = (*MockObjectStorageService)(nil)

type voucherServiceMocks struct {
	voucherRepo *MockVoucherRepository
	courseRepo  *MockCourseRepository
	runRepo     *MockCourseRunRepository
	productRepo *MockProductRepository
	couponRepo  *MockCouponRepository
	basketRepo  *MockBasketRepository
	companyRepo *MockCompanyRepository
	storage     *MockObjectStorageService
}

func newTestVoucherService() (*VoucherService, *voucherServiceMocks) {
	m := &voucherServiceMocks{
		voucherRepo: new(MockVoucherRepository),
		courseRepo:  new(MockCourseRepository),
		runRepo:     new(MockCourseRunRepository),
		productRepo: new(MockProductRepository),
		couponRepo:  new(MockCouponRepository),
		basketRepo:  new(MockBasketRepository),
		companyRepo: new(MockCompanyRepository),
		storage:     new(MockObjectStorageService),
	}
	svc := NewVoucherService(
		m.voucherRepo, m.courseRepo, m.runRepo, m.productRepo,
		m.couponRepo, m.basketRepo, m.companyRepo, m.storage,
	)
	return svc, m
}

func startOf(day time.Time) *time.Time {
	return &day
}

func TestVoucherService_Upload(t *testing.T) {
	svc, m := newTestVoucherService()
	cfg := DefaultVoucherServiceConfig()
	cfg.CompanyName = "Boeing"
	svc.SetConfig(cfg)

	userID := uuid.New()
	company, err := ecommerce.NewCompany("Boeing")
	require.NoError(t, err)

	course, err := catalog.NewCourse("Architecting Digital Systems", "course-v1:xPRO+SYS")
	require.NoError(t, err)
	run, err := catalog.NewCourseRun(course.ID, "Architecting Digital Systems", "course-v1:xPRO+SYS+24-06#1", "24-06#1")
	require.NoError(t, err)
	require.NoError(t, run.SetSchedule(startOf(time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC)), nil))

	m.storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "vouchers/"+userID.String()+"/") && strings.HasSuffix(key, ".txt")
	}), []byte(sampleVoucherText), "text/plain").Return(nil)
	m.storage.On("GenerateUploadURL", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, ".pdf")
	}), "application/pdf", 15*time.Minute).Return("https://storage.example/upload", time.Now().Add(15*time.Minute), nil)
	m.companyRepo.On("FindByName", mock.Anything, "Boeing").Return(company, nil)
	m.courseRepo.On("FindByReadableID", mock.Anything, "course-v1:xPRO+SYS").Return(course, nil)
	m.courseRepo.On("FindAll", mock.Anything, mock.Anything).Return([]catalog.Course{*course}, nil)
	m.runRepo.On("FindByCourse", mock.Anything, course.ID).Return([]catalog.CourseRun{*run}, nil)
	m.voucherRepo.On("Save", mock.Anything, mock.AnythingOfType("*voucher.Voucher")).Return(nil)

	resp, err := svc.Upload(context.Background(), userID, UploadVoucherRequest{
		FileName: "voucher.pdf",
		Text:     sampleVoucherText,
	})

	require.NoError(t, err)
	assert.Equal(t, "EMP-00412", resp.Voucher.EmployeeID)
	assert.Equal(t, "Jamie Rivera", resp.Voucher.EmployeeName)
	require.NotNil(t, resp.Voucher.CompanyID)
	assert.Equal(t, company.ID, *resp.Voucher.CompanyID)
	require.NotNil(t, resp.Voucher.MatchedRunID)
	assert.Equal(t, run.ID, *resp.Voucher.MatchedRunID)
	assert.Equal(t, "https://storage.example/upload", resp.PDFUploadURL)
	m.voucherRepo.AssertExpectations(t)
	m.storage.AssertExpectations(t)
}

func TestVoucherService_Upload_UnparsableText(t *testing.T) {
	svc, _ := newTestVoucherService()

	_, err := svc.Upload(context.Background(), uuid.New(), UploadVoucherRequest{
		FileName: "voucher.pdf",
		Text:     "nothing useful here",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VOUCHER_PARSE_FAILED", domainErr.Code)
}

func matchedVoucher(t *testing.T, userID uuid.UUID, runID uuid.UUID) *voucher.Voucher {
	t.Helper()
	v, err := voucher.NewVoucher(userID, nil, "vouchers/x.txt")
	require.NoError(t, err)
	v.SetParsedHints("EMP-1", "Jamie Rivera", "course-v1:xPRO+SYS", "Systems", nil)
	require.NoError(t, v.MatchRun(runID))
	return v
}

func fullDiscountCandidate(t *testing.T) ecommerce.CandidateCouponVersion {
	t.Helper()
	payment, err := ecommerce.NewCouponPayment("Boeing sponsorship " + uuid.NewString())
	require.NoError(t, err)
	paymentVersion, err := ecommerce.NewCouponPaymentVersion(
		payment.ID, ecommerce.CouponTypeSingleUse, 1, 1, 1, decimal.NewFromInt(1), nil, nil,
	)
	require.NoError(t, err)
	coupon, err := ecommerce.NewCoupon(payment.ID, "VOUCHER-"+uuid.NewString()[:8])
	require.NoError(t, err)
	version := ecommerce.NewCouponVersion(coupon.ID, paymentVersion.ID)
	return ecommerce.CandidateCouponVersion{
		Coupon:         *coupon,
		CouponVersion:  *version,
		PaymentVersion: *paymentVersion,
	}
}

func TestVoucherService_EligibleCoupons(t *testing.T) {
	svc, m := newTestVoucherService()

	userID := uuid.New()
	courseID := uuid.New()
	run, err := catalog.NewCourseRun(courseID, "Systems", "course-v1:xPRO+SYS+24-06#1", "24-06#1")
	require.NoError(t, err)
	v := matchedVoucher(t, userID, run.ID)

	product, err := ecommerce.NewProduct(ecommerce.ProductTypeCourseRun, run.ID)
	require.NoError(t, err)

	full := fullDiscountCandidate(t)
	partial := fullDiscountCandidate(t)
	partial.PaymentVersion.Amount = decimal.NewFromFloat(0.5)
	attached := fullDiscountCandidate(t)

	m.voucherRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)
	m.runRepo.On("FindByID", mock.Anything, run.ID).Return(run, nil)
	m.productRepo.On("FindByObject", mock.Anything, ecommerce.ProductTypeCourseRun, run.ID).Return(product, nil)
	m.couponRepo.On("FindCandidatesForProduct", mock.Anything, product.ID, ecommerce.CandidateQuery{}).
		Return([]ecommerce.CandidateCouponVersion{full, partial, attached}, nil)
	m.couponRepo.On("CountFulfilledRedemptions", mock.Anything, mock.Anything, userID).
		Return(ecommerce.RedemptionCounts{}, nil)
	m.voucherRepo.On("FindAttachedCouponIDs", mock.Anything).Return([]uuid.UUID{attached.Coupon.ID}, nil)

	choices, err := svc.EligibleCoupons(context.Background(), userID, v.ID)

	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, full.Coupon.ID, choices[0].CouponID)
	assert.Equal(t, product.ID, choices[0].ProductID)
	assert.Equal(t, run.ID, choices[0].RunID)
	assert.Equal(t, "Systems", choices[0].CourseTitle)
}

func TestVoucherService_EligibleCoupons_Unmatched(t *testing.T) {
	svc, m := newTestVoucherService()

	userID := uuid.New()
	v, err := voucher.NewVoucher(userID, nil, "vouchers/x.txt")
	require.NoError(t, err)
	m.voucherRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)

	_, err = svc.EligibleCoupons(context.Background(), userID, v.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VOUCHER_UNMATCHED", domainErr.Code)
}

func TestVoucherService_Redeem(t *testing.T) {
	svc, m := newTestVoucherService()

	userID := uuid.New()
	run, err := catalog.NewCourseRun(uuid.New(), "Systems", "course-v1:xPRO+SYS+24-06#1", "24-06#1")
	require.NoError(t, err)
	v := matchedVoucher(t, userID, run.ID)

	product, err := ecommerce.NewProduct(ecommerce.ProductTypeCourseRun, run.ID)
	require.NoError(t, err)
	full := fullDiscountCandidate(t)
	basket := ecommerce.NewBasket(userID)

	m.voucherRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)
	m.runRepo.On("FindByID", mock.Anything, run.ID).Return(run, nil)
	m.productRepo.On("FindByObject", mock.Anything, ecommerce.ProductTypeCourseRun, run.ID).Return(product, nil)
	m.couponRepo.On("FindCandidatesForProduct", mock.Anything, product.ID, ecommerce.CandidateQuery{}).
		Return([]ecommerce.CandidateCouponVersion{full}, nil)
	m.couponRepo.On("CountFulfilledRedemptions", mock.Anything, mock.Anything, userID).
		Return(ecommerce.RedemptionCounts{}, nil)
	m.voucherRepo.On("FindAttachedCouponIDs", mock.Anything).Return([]uuid.UUID{}, nil)
	m.voucherRepo.On("Save", mock.Anything, v).Return(nil)
	m.basketRepo.On("GetOrCreateForUser", mock.Anything, userID).Return(basket, nil)
	m.basketRepo.On("Save", mock.Anything, basket).Return(nil)

	resp, err := svc.Redeem(context.Background(), userID, v.ID, RedeemVoucherRequest{
		CouponID:  full.Coupon.ID,
		ProductID: product.ID,
	})

	require.NoError(t, err)
	assert.True(t, resp.Redeemed)
	require.NotNil(t, v.CouponID)
	assert.Equal(t, full.Coupon.ID, *v.CouponID)

	require.Len(t, basket.Items, 1)
	assert.Equal(t, product.ID, basket.Items[0].ProductID)
	assert.Equal(t, []uuid.UUID{run.ID}, basket.SelectedRunIDs())
	require.NotNil(t, basket.SelectedCouponID())
	assert.Equal(t, full.Coupon.ID, *basket.SelectedCouponID())
	m.basketRepo.AssertExpectations(t)
}

func TestVoucherService_Redeem_WrongCoupon(t *testing.T) {
	svc, m := newTestVoucherService()

	userID := uuid.New()
	run, err := catalog.NewCourseRun(uuid.New(), "Systems", "course-v1:xPRO+SYS+24-06#1", "24-06#1")
	require.NoError(t, err)
	v := matchedVoucher(t, userID, run.ID)

	product, err := ecommerce.NewProduct(ecommerce.ProductTypeCourseRun, run.ID)
	require.NoError(t, err)
	full := fullDiscountCandidate(t)

	m.voucherRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)
	m.runRepo.On("FindByID", mock.Anything, run.ID).Return(run, nil)
	m.productRepo.On("FindByObject", mock.Anything, ecommerce.ProductTypeCourseRun, run.ID).Return(product, nil)
	m.couponRepo.On("FindCandidatesForProduct", mock.Anything, product.ID, ecommerce.CandidateQuery{}).
		Return([]ecommerce.CandidateCouponVersion{full}, nil)
	m.couponRepo.On("CountFulfilledRedemptions", mock.Anything, mock.Anything, userID).
		Return(ecommerce.RedemptionCounts{}, nil)
	m.voucherRepo.On("FindAttachedCouponIDs", mock.Anything).Return([]uuid.UUID{}, nil)

	_, err = svc.Redeem(context.Background(), userID, v.ID, RedeemVoucherRequest{
		CouponID:  uuid.New(),
		ProductID: product.ID,
	})

	assert.ErrorIs(t, err, shared.ErrCouponNotRedeemable)
}

func TestVoucherService_Get_WrongUser(t *testing.T) {
	svc, m := newTestVoucherService()

	v, err := voucher.NewVoucher(uuid.New(), nil, "vouchers/x.txt")
	require.NoError(t, err)
	m.voucherRepo.On("FindByID", mock.Anything, v.ID).Return(v, nil)

	_, err = svc.Get(context.Background(), uuid.New(), v.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}
