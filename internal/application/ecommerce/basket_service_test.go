package ecommerce

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/enrollment"
	"github.com/xpro/backend/internal/domain/shared"
)

type basketServiceMocks struct {
	basketRepo     *MockBasketRepository
	productRepo    *MockProductRepository
	couponRepo     *MockCouponRepository
	runRepo        *MockCourseRunRepository
	courseRepo     *MockCourseRepository
	enrollmentRepo *MockEnrollmentRepository
}

func newTestBasketService() (*BasketService, *basketServiceMocks) {
	m := &basketServiceMocks{
		basketRepo:     new(MockBasketRepository),
		productRepo:    new(MockProductRepository),
		couponRepo:     new(MockCouponRepository),
		runRepo:        new(MockCourseRunRepository),
		courseRepo:     new(MockCourseRepository),
		enrollmentRepo: new(MockEnrollmentRepository),
	}
	service := NewBasketService(
		m.basketRepo, m.productRepo, m.couponRepo,
		m.runRepo, m.courseRepo, m.enrollmentRepo,
	)
	return service, m
}

func TestBasketService_Update_ItemAndRunSelection(t *testing.T) {
	service, m := newTestBasketService()
	ctx := context.Background()
	userID := uuid.New()

	product, run := testRunProduct(t, decimal.NewFromInt(950))
	basket := ecommerce.NewBasket(userID)

	m.basketRepo.On("GetOrCreateForUser", ctx, userID).Return(basket, nil)
	m.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	m.runRepo.On("FindByIDs", ctx, []uuid.UUID{run.ID}).Return([]catalog.CourseRun{*run}, nil)
	m.enrollmentRepo.On("FindByUserAndRun", ctx, userID, run.ID).Return(nil, shared.ErrNotFound)
	m.couponRepo.On("FindCandidatesForProduct", ctx, product.ID, ecommerce.CandidateQuery{AutomaticOnly: true}).
		Return([]ecommerce.CandidateCouponVersion{}, nil)
	m.basketRepo.On("Save", ctx, basket).Return(nil)

	resp, err := service.Update(ctx, userID, UpdateBasketRequest{
		Items:  []BasketItemRequest{{ProductID: product.ID, Quantity: 1}},
		RunIDs: []uuid.UUID{run.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{run.ID}, resp.RunIDs)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(950)))
	assert.True(t, resp.DiscountedPrice.Equal(decimal.NewFromInt(950)))
	m.basketRepo.AssertExpectations(t)
}

func TestBasketService_Update_AppliesCouponCode(t *testing.T) {
	service, m := newTestBasketService()
	ctx := context.Background()
	userID := uuid.New()

	product, run := testRunProduct(t, decimal.NewFromInt(950))
	basket := testBasketFor(userID, product, run.ID)
	candidate := fullDiscountCandidate(t, "FREE100")
	code := "FREE100"

	m.basketRepo.On("GetOrCreateForUser", ctx, userID).Return(basket, nil)
	m.couponRepo.On("FindByCode", ctx, code).Return(&candidate.Coupon, nil)
	m.couponRepo.On("FindByID", ctx, candidate.Coupon.ID).Return(&candidate.Coupon, nil)
	m.couponRepo.On("FindCandidatesForProduct", ctx, product.ID, ecommerce.CandidateQuery{Code: code}).
		Return([]ecommerce.CandidateCouponVersion{candidate}, nil)
	m.couponRepo.On("CountFulfilledRedemptions", ctx, mock.Anything, userID).
		Return(ecommerce.RedemptionCounts{}, nil)
	m.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	m.basketRepo.On("Save", ctx, basket).Return(nil)

	resp, err := service.Update(ctx, userID, UpdateBasketRequest{CouponCode: &code})

	require.NoError(t, err)
	require.NotNil(t, resp.CouponID)
	assert.Equal(t, candidate.Coupon.ID, *resp.CouponID)
	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(950)))
	assert.True(t, resp.DiscountedPrice.IsZero())
}

func TestBasketService_Update_UnknownCouponCode(t *testing.T) {
	service, m := newTestBasketService()
	ctx := context.Background()
	userID := uuid.New()

	product, run := testRunProduct(t, decimal.NewFromInt(950))
	basket := testBasketFor(userID, product, run.ID)
	code := "NOPE"

	m.basketRepo.On("GetOrCreateForUser", ctx, userID).Return(basket, nil)
	m.couponRepo.On("FindByCode", ctx, code).Return(nil, shared.ErrNotFound)

	resp, err := service.Update(ctx, userID, UpdateBasketRequest{CouponCode: &code})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, shared.ErrCouponNotRedeemable)
	m.basketRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBasketService_Update_ExpiredRunRejected(t *testing.T) {
	service, m := newTestBasketService()
	ctx := context.Background()
	userID := uuid.New()

	product, run := testRunProduct(t, decimal.NewFromInt(950))
	start := time.Now().Add(-60 * 24 * time.Hour)
	end := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, run.SetSchedule(&start, &end))

	basket := ecommerce.NewBasket(userID)
	basket.ReplaceItem(product.ID, 1)

	m.basketRepo.On("GetOrCreateForUser", ctx, userID).Return(basket, nil)
	m.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	m.runRepo.On("FindByIDs", ctx, []uuid.UUID{run.ID}).Return([]catalog.CourseRun{*run}, nil)

	_, err := service.Update(ctx, userID, UpdateBasketRequest{RunIDs: []uuid.UUID{run.ID}})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "RUN_EXPIRED", domainErr.Code)
}

func TestBasketService_Update_AlreadyEnrolledRun(t *testing.T) {
	service, m := newTestBasketService()
	ctx := context.Background()
	userID := uuid.New()

	product, run := testRunProduct(t, decimal.NewFromInt(950))
	basket := ecommerce.NewBasket(userID)
	basket.ReplaceItem(product.ID, 1)
	existing := enrollment.NewCourseRunEnrollment(userID, run.ID, nil, nil)

	m.basketRepo.On("GetOrCreateForUser", ctx, userID).Return(basket, nil)
	m.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	m.runRepo.On("FindByIDs", ctx, []uuid.UUID{run.ID}).Return([]catalog.CourseRun{*run}, nil)
	m.enrollmentRepo.On("FindByUserAndRun", ctx, userID, run.ID).Return(existing, nil)

	_, err := service.Update(ctx, userID, UpdateBasketRequest{RunIDs: []uuid.UUID{run.ID}})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_ENROLLED", domainErr.Code)
}

func TestBasketService_Update_RunFromAnotherProduct(t *testing.T) {
	service, m := newTestBasketService()
	ctx := context.Background()
	userID := uuid.New()

	product, _ := testRunProduct(t, decimal.NewFromInt(950))
	otherRun, err := catalog.NewCourseRun(uuid.New(), "Other Run", "course-v1:xPRO+Other+R1", "R1")
	require.NoError(t, err)

	basket := ecommerce.NewBasket(userID)
	basket.ReplaceItem(product.ID, 1)

	m.basketRepo.On("GetOrCreateForUser", ctx, userID).Return(basket, nil)
	m.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	m.runRepo.On("FindByIDs", ctx, []uuid.UUID{otherRun.ID}).Return([]catalog.CourseRun{*otherRun}, nil)

	_, err = service.Update(ctx, userID, UpdateBasketRequest{RunIDs: []uuid.UUID{otherRun.ID}})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_RUN", domainErr.Code)
}

func TestBasketService_Get_CreatesEmptyBasket(t *testing.T) {
	service, m := newTestBasketService()
	ctx := context.Background()
	userID := uuid.New()

	m.basketRepo.On("GetOrCreateForUser", ctx, userID).Return(ecommerce.NewBasket(userID), nil)

	resp, err := service.Get(ctx, userID)

	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.TotalPrice.IsZero())
}
