package ecommerce

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
)

type couponServiceMocks struct {
	couponRepo  *MockCouponRepository
	productRepo *MockProductRepository
	companyRepo *MockCompanyRepository
}

func newTestCouponService() (*CouponService, *couponServiceMocks) {
	m := &couponServiceMocks{
		couponRepo:  new(MockCouponRepository),
		productRepo: new(MockProductRepository),
		companyRepo: new(MockCompanyRepository),
	}
	return NewCouponService(m.couponRepo, m.productRepo, m.companyRepo), m
}

func TestCouponService_CreateBatch_SingleUseCodes(t *testing.T) {
	service, m := newTestCouponService()
	ctx := context.Background()

	product, _ := testRunProduct(t, decimal.NewFromInt(950))
	m.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	m.couponRepo.On("SavePayment", ctx, mock.AnythingOfType("*ecommerce.CouponPayment")).Return(nil)
	m.couponRepo.On("SavePaymentVersion", ctx, mock.MatchedBy(func(v *ecommerce.CouponPaymentVersion) bool {
		return v.NumCouponCodes == 5 && v.Amount.Equal(decimal.NewFromInt(1)) && !v.Automatic
	})).Return(nil)
	m.couponRepo.On("Save", ctx, mock.AnythingOfType("*ecommerce.Coupon")).Return(nil)
	m.couponRepo.On("SaveVersion", ctx, mock.AnythingOfType("*ecommerce.CouponVersion")).Return(nil)
	m.couponRepo.On("SaveEligibility", ctx, mock.MatchedBy(func(e *ecommerce.CouponEligibility) bool {
		return e.ProductID == product.ID
	})).Return(nil)

	resp, err := service.CreateBatch(ctx, CreateCouponBatchRequest{
		Name:           "enterprise seats",
		CouponType:     string(ecommerce.CouponTypeSingleUse),
		NumCouponCodes: 5,
		Amount:         decimal.NewFromInt(1),
		ProductIDs:     []uuid.UUID{product.ID},
	})

	require.NoError(t, err)
	assert.Len(t, resp.Codes, 5)
	seen := make(map[string]bool, len(resp.Codes))
	for _, code := range resp.Codes {
		assert.Len(t, code, 32)
		assert.False(t, seen[code])
		seen[code] = true
	}
	m.couponRepo.AssertNumberOfCalls(t, "Save", 5)
	m.couponRepo.AssertNumberOfCalls(t, "SaveVersion", 5)
	m.couponRepo.AssertNumberOfCalls(t, "SaveEligibility", 5)
}

func TestCouponService_CreateBatch_ExplicitCodeForcesSingleCoupon(t *testing.T) {
	service, m := newTestCouponService()
	ctx := context.Background()

	product, _ := testRunProduct(t, decimal.NewFromInt(950))
	m.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	m.couponRepo.On("SavePayment", ctx, mock.Anything).Return(nil)
	m.couponRepo.On("SavePaymentVersion", ctx, mock.Anything).Return(nil)
	m.couponRepo.On("Save", ctx, mock.MatchedBy(func(c *ecommerce.Coupon) bool {
		return c.Code == "SPRING50"
	})).Return(nil)
	m.couponRepo.On("SaveVersion", ctx, mock.Anything).Return(nil)
	m.couponRepo.On("SaveEligibility", ctx, mock.Anything).Return(nil)

	resp, err := service.CreateBatch(ctx, CreateCouponBatchRequest{
		Name:           "spring promo",
		CouponType:     string(ecommerce.CouponTypePromo),
		NumCouponCodes: 10,
		Amount:         decimal.RequireFromString("0.5"),
		Code:           "SPRING50",
		ProductIDs:     []uuid.UUID{product.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"SPRING50"}, resp.Codes)
	m.couponRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestCouponService_CreateBatch_UnknownProduct(t *testing.T) {
	service, m := newTestCouponService()
	ctx := context.Background()
	productID := uuid.New()

	m.productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

	resp, err := service.CreateBatch(ctx, CreateCouponBatchRequest{
		Name:       "broken batch",
		CouponType: string(ecommerce.CouponTypePromo),
		Amount:     decimal.RequireFromString("0.1"),
		ProductIDs: []uuid.UUID{productID},
	})

	assert.Nil(t, resp)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PRODUCTS", domainErr.Code)
	m.couponRepo.AssertNotCalled(t, "SavePayment", mock.Anything, mock.Anything)
}

func TestCouponService_CreateBatch_NoProducts(t *testing.T) {
	service, m := newTestCouponService()

	resp, err := service.CreateBatch(context.Background(), CreateCouponBatchRequest{
		Name:       "empty batch",
		CouponType: string(ecommerce.CouponTypePromo),
		Amount:     decimal.RequireFromString("0.1"),
	})

	assert.Nil(t, resp)
	require.Error(t, err)
	m.couponRepo.AssertNotCalled(t, "SavePayment", mock.Anything, mock.Anything)
}

func TestCouponService_ListCodes(t *testing.T) {
	service, m := newTestCouponService()
	ctx := context.Background()
	paymentID := uuid.New()

	m.couponRepo.On("FindCodesForPayment", ctx, paymentID).Return([]ecommerce.CouponCodeStatus{
		{Code: "aaa", Redeemed: true},
		{Code: "bbb", Redeemed: false},
	}, nil)

	statuses, err := service.ListCodes(ctx, paymentID)

	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Redeemed)
	assert.Equal(t, "bbb", statuses[1].Code)
}

func TestCouponService_Deactivate(t *testing.T) {
	service, m := newTestCouponService()
	ctx := context.Background()

	coupon, err := ecommerce.NewCoupon(uuid.New(), "KILLME")
	require.NoError(t, err)

	m.couponRepo.On("FindByID", ctx, coupon.ID).Return(coupon, nil)
	m.couponRepo.On("Save", ctx, coupon).Return(nil)

	require.NoError(t, service.Deactivate(ctx, coupon.ID))
	assert.False(t, coupon.Enabled)
	m.couponRepo.AssertExpectations(t)
}
