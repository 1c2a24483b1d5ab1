package ecommerce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/enrollment"
	"github.com/xpro/backend/internal/domain/shared"
)

// BasketService handles basket reads and mutations
type BasketService struct {
	basketRepo     ecommerce.BasketRepository
	productRepo    ecommerce.ProductRepository
	couponRepo     ecommerce.CouponRepository
	runRepo        catalog.CourseRunRepository
	courseRepo     catalog.CourseRepository
	enrollmentRepo enrollment.Repository
}

// NewBasketService creates a new BasketService
func NewBasketService(
	basketRepo ecommerce.BasketRepository,
	productRepo ecommerce.ProductRepository,
	couponRepo ecommerce.CouponRepository,
	runRepo catalog.CourseRunRepository,
	courseRepo catalog.CourseRepository,
	enrollmentRepo enrollment.Repository,
) *BasketService {
	return &BasketService{
		basketRepo:     basketRepo,
		productRepo:    productRepo,
		couponRepo:     couponRepo,
		runRepo:        runRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Get returns the caller's basket, creating an empty one on first use
func (s *BasketService) Get(ctx context.Context, userID uuid.UUID) (*BasketResponse, error) {
	basket, err := s.basketRepo.GetOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toBasketResponse(ctx, userID, basket)
}

// Update applies a partial basket mutation: replace the item, select
// course runs, and apply or clear a coupon code. Nil request fields
// leave the corresponding part of the basket untouched.
func (s *BasketService) Update(ctx context.Context, userID uuid.UUID, req UpdateBasketRequest) (*BasketResponse, error) {
	basket, err := s.basketRepo.GetOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Items != nil {
		if len(req.Items) != 1 {
			return nil, shared.NewDomainError("INVALID_BASKET", "Basket holds exactly one product")
		}
		item := req.Items[0]
		if _, err := s.productRepo.FindByID(ctx, item.ProductID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
			}
			return nil, err
		}
		if err := basket.ReplaceItem(item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if req.RunIDs != nil {
		if err := s.validateRunSelections(ctx, userID, basket, req.RunIDs); err != nil {
			return nil, err
		}
		basket.SelectRuns(req.RunIDs)
	}

	if req.CouponCode != nil {
		if *req.CouponCode == "" {
			basket.ClearCoupon()
		} else {
			coupon, err := s.resolveCouponCode(ctx, userID, basket, *req.CouponCode)
			if err != nil {
				return nil, err
			}
			basket.ApplyCoupon(coupon.ID)
		}
	}

	if err := s.basketRepo.Save(ctx, basket); err != nil {
		return nil, err
	}

	return s.toBasketResponse(ctx, userID, basket)
}

// validateRunSelections checks that every selected run is sold by the
// basket's product, still enrollable, and not already held by the user
func (s *BasketService) validateRunSelections(ctx context.Context, userID uuid.UUID, basket *ecommerce.Basket, runIDs []uuid.UUID) error {
	if basket.IsEmpty() {
		return shared.NewDomainError("INVALID_BASKET", "Add a product before selecting runs")
	}
	product, err := s.productRepo.FindByID(ctx, basket.Items[0].ProductID)
	if err != nil {
		return err
	}

	runs, err := s.runRepo.FindByIDs(ctx, runIDs)
	if err != nil {
		return err
	}
	if len(runs) != len(runIDs) {
		return shared.NewDomainError("INVALID_RUN", "Course run not found")
	}

	for i := range runs {
		run := &runs[i]
		if !run.IsUnexpired() {
			return shared.NewDomainError("RUN_EXPIRED", "Course run is no longer open for enrollment")
		}

		switch product.Type {
		case ecommerce.ProductTypeCourseRun:
			if run.ID != product.ObjectID {
				return shared.NewDomainError("INVALID_RUN", "Course run does not belong to the purchased product")
			}
		case ecommerce.ProductTypeProgram:
			course, err := s.courseRepo.FindByID(ctx, run.CourseID)
			if err != nil {
				return err
			}
			if course.ProgramID == nil || *course.ProgramID != product.ObjectID {
				return shared.NewDomainError("INVALID_RUN", "Course run does not belong to the purchased program")
			}
		}

		existing, err := s.enrollmentRepo.FindByUserAndRun(ctx, userID, run.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil && existing.Active {
			return shared.NewDomainError("ALREADY_ENROLLED", "You are already enrolled in this course run")
		}
	}

	return nil
}

// resolveCouponCode checks that a coupon code resolves to a currently
// redeemable version for the basket's product
func (s *BasketService) resolveCouponCode(ctx context.Context, userID uuid.UUID, basket *ecommerce.Basket, code string) (*ecommerce.Coupon, error) {
	if basket.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_BASKET", "Add a product before applying a coupon")
	}

	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrCouponNotRedeemable
		}
		return nil, err
	}

	best, err := bestCouponVersion(ctx, s.couponRepo, basket.Items[0].ProductID, userID, ecommerce.CandidateQuery{Code: code})
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, shared.ErrCouponNotRedeemable
	}

	return coupon, nil
}

// toBasketResponse prices the basket at the latest product versions
// and the selected (or best automatic) coupon
func (s *BasketService) toBasketResponse(ctx context.Context, userID uuid.UUID, basket *ecommerce.Basket) (*BasketResponse, error) {
	resp := &BasketResponse{
		ID:              basket.ID,
		Items:           []BasketItemResponse{},
		RunIDs:          basket.SelectedRunIDs(),
		CouponID:        basket.SelectedCouponID(),
		TotalPrice:      decimal.Zero,
		DiscountedPrice: decimal.Zero,
	}

	if basket.IsEmpty() {
		return resp, nil
	}

	item := basket.Items[0]
	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	latest := product.LatestVersion()
	if latest == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product has no price version")
	}

	price := latest.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	resp.Items = append(resp.Items, BasketItemResponse{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     latest.Price,
	})
	resp.TotalPrice = price
	resp.DiscountedPrice = price

	best, err := s.applicableCoupon(ctx, userID, basket, product.ID)
	if err != nil {
		return nil, err
	}
	if best != nil {
		resp.DiscountedPrice = best.PaymentVersion.DiscountedPrice(price)
	}

	return resp, nil
}

// applicableCoupon resolves the basket's selected coupon, falling back
// to the best automatic coupon when none is selected
func (s *BasketService) applicableCoupon(ctx context.Context, userID uuid.UUID, basket *ecommerce.Basket, productID uuid.UUID) (*ecommerce.CandidateCouponVersion, error) {
	if couponID := basket.SelectedCouponID(); couponID != nil {
		coupon, err := s.couponRepo.FindByID(ctx, *couponID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return bestCouponVersion(ctx, s.couponRepo, productID, userID, ecommerce.CandidateQuery{Code: coupon.Code})
	}
	return bestCouponVersion(ctx, s.couponRepo, productID, userID, ecommerce.CandidateQuery{AutomaticOnly: true})
}

// bestCouponVersion loads candidate coupon versions for a product and
// returns the highest-discount version still redeemable by the user,
// or nil when none qualify
func bestCouponVersion(
	ctx context.Context,
	couponRepo ecommerce.CouponRepository,
	productID, userID uuid.UUID,
	query ecommerce.CandidateQuery,
) (*ecommerce.CandidateCouponVersion, error) {
	candidates, err := couponRepo.FindCandidatesForProduct(ctx, productID, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	versionIDs := make([]uuid.UUID, len(candidates))
	for i := range candidates {
		versionIDs[i] = candidates[i].CouponVersion.ID
	}
	counts, err := couponRepo.CountFulfilledRedemptions(ctx, versionIDs, userID)
	if err != nil {
		return nil, err
	}

	eligible := ecommerce.ResolveEligibleVersions(candidates, counts, time.Now())
	if len(eligible) == 0 {
		return nil, nil
	}
	return &eligible[0], nil
}
