package ecommerce

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
)

// CouponService handles coupon batch administration
type CouponService struct {
	couponRepo  ecommerce.CouponRepository
	productRepo ecommerce.ProductRepository
	companyRepo ecommerce.CompanyRepository
}

// NewCouponService creates a new CouponService
func NewCouponService(
	couponRepo ecommerce.CouponRepository,
	productRepo ecommerce.ProductRepository,
	companyRepo ecommerce.CompanyRepository,
) *CouponService {
	return &CouponService{
		couponRepo:  couponRepo,
		productRepo: productRepo,
		companyRepo: companyRepo,
	}
}

// CreateBatch creates a coupon payment with one payment version, a
// batch of coupon codes each carrying a coupon version, and product
// eligibilities. A provided code yields exactly one coupon; otherwise
// NumCouponCodes codes are generated.
func (s *CouponService) CreateBatch(ctx context.Context, req CreateCouponBatchRequest) (*CouponBatchResponse, error) {
	if len(req.ProductIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCTS", "Coupon batch needs at least one eligible product")
	}
	for _, productID := range req.ProductIDs {
		if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PRODUCTS", "Eligible product not found")
			}
			return nil, err
		}
	}
	if req.CompanyID != nil {
		if _, err := s.companyRepo.FindByID(ctx, *req.CompanyID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_COMPANY", "Company not found")
			}
			return nil, err
		}
	}

	numCodes := req.NumCouponCodes
	if req.Code != "" {
		numCodes = 1
	}
	if numCodes < 1 {
		numCodes = 1
	}
	maxRedemptions := req.MaxRedemptions
	if maxRedemptions < 1 {
		maxRedemptions = 1
	}
	maxPerUser := req.MaxRedemptionsPerUser
	if maxPerUser < 1 {
		maxPerUser = 1
	}

	payment, err := ecommerce.NewCouponPayment(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.couponRepo.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	version, err := ecommerce.NewCouponPaymentVersion(
		payment.ID,
		ecommerce.CouponType(req.CouponType),
		numCodes,
		maxRedemptions,
		maxPerUser,
		req.Amount,
		req.ActivationDate,
		req.ExpirationDate,
	)
	if err != nil {
		return nil, err
	}
	version.Automatic = req.Automatic
	version.CompanyID = req.CompanyID
	version.PaymentType = ecommerce.PaymentType(req.PaymentType)
	version.PaymentTransaction = req.PaymentTransaction
	if err := s.couponRepo.SavePaymentVersion(ctx, version); err != nil {
		return nil, err
	}

	codes := make([]string, 0, numCodes)
	for i := 0; i < numCodes; i++ {
		code := req.Code
		if code == "" {
			code = generateCouponCode()
		}

		coupon, err := ecommerce.NewCoupon(payment.ID, code)
		if err != nil {
			return nil, err
		}
		if err := s.couponRepo.Save(ctx, coupon); err != nil {
			return nil, err
		}
		if err := s.couponRepo.SaveVersion(ctx, ecommerce.NewCouponVersion(coupon.ID, version.ID)); err != nil {
			return nil, err
		}
		for _, productID := range req.ProductIDs {
			eligibility := &ecommerce.CouponEligibility{
				BaseEntity: shared.NewBaseEntity(),
				CouponID:   coupon.ID,
				ProductID:  productID,
			}
			if err := s.couponRepo.SaveEligibility(ctx, eligibility); err != nil {
				return nil, err
			}
		}
		codes = append(codes, code)
	}

	return &CouponBatchResponse{
		PaymentID:        payment.ID,
		PaymentVersionID: version.ID,
		Name:             payment.Name,
		CouponType:       string(version.CouponType),
		Amount:           version.Amount,
		Codes:            codes,
	}, nil
}

// ListCodes reports each code under a coupon payment and whether it
// has been redeemed against a fulfilled order
func (s *CouponService) ListCodes(ctx context.Context, paymentID uuid.UUID) ([]CouponCodeStatusResponse, error) {
	statuses, err := s.couponRepo.FindCodesForPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	responses := make([]CouponCodeStatusResponse, len(statuses))
	for i, status := range statuses {
		responses[i] = CouponCodeStatusResponse{
			Code:     status.Code,
			Redeemed: status.Redeemed,
		}
	}
	return responses, nil
}

// Deactivate disables a coupon code
func (s *CouponService) Deactivate(ctx context.Context, couponID uuid.UUID) error {
	coupon, err := s.couponRepo.FindByID(ctx, couponID)
	if err != nil {
		return err
	}
	coupon.Disable()
	return s.couponRepo.Save(ctx, coupon)
}

// generateCouponCode returns a 32-character random code
func generateCouponCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
