package voucher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/catalog"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/domain/voucher"
)

// ObjectStorageService defines the interface for object storage
// operations. Implemented by the infrastructure layer (S3 or a local
// stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)

	// Upload stores an object directly
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
}

// VoucherServiceConfig holds configuration for the voucher service
type VoucherServiceConfig struct {
	// CompanyName names the sponsor company whose coupons back
	// voucher redemptions. Empty disables the company restriction.
	CompanyName string
	// PDFUploadExpiry is the validity window of presigned PDF upload
	// URLs
	PDFUploadExpiry time.Duration
}

// DefaultVoucherServiceConfig returns the default configuration
func DefaultVoucherServiceConfig() VoucherServiceConfig {
	return VoucherServiceConfig{
		PDFUploadExpiry: 15 * time.Minute,
	}
}

// VoucherService handles voucher upload, matching and redemption
type VoucherService struct {
	voucherRepo    voucher.Repository
	courseRepo     catalog.CourseRepository
	runRepo        catalog.CourseRunRepository
	productRepo    ecommerce.ProductRepository
	couponRepo     ecommerce.CouponRepository
	basketRepo     ecommerce.BasketRepository
	companyRepo    ecommerce.CompanyRepository
	storageService ObjectStorageService
	config         VoucherServiceConfig
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(
	voucherRepo voucher.Repository,
	courseRepo catalog.CourseRepository,
	runRepo catalog.CourseRunRepository,
	productRepo ecommerce.ProductRepository,
	couponRepo ecommerce.CouponRepository,
	basketRepo ecommerce.BasketRepository,
	companyRepo ecommerce.CompanyRepository,
	storageService ObjectStorageService,
) *VoucherService {
	return &VoucherService{
		voucherRepo:    voucherRepo,
		courseRepo:     courseRepo,
		runRepo:        runRepo,
		productRepo:    productRepo,
		couponRepo:     couponRepo,
		basketRepo:     basketRepo,
		companyRepo:    companyRepo,
		storageService: storageService,
		config:         DefaultVoucherServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *VoucherService) SetConfig(config VoucherServiceConfig) {
	s.config = config
}

// Upload parses an extracted voucher document, archives the text and
// creates the voucher. Run matching is attempted immediately; an
// unmatched voucher is still created and can be rematched later.
func (s *VoucherService) Upload(ctx context.Context, userID uuid.UUID, req UploadVoucherRequest) (*UploadVoucherResponse, error) {
	parsed, err := ParseVoucherText(req.Text)
	if err != nil {
		return nil, err
	}

	keyBase := fmt.Sprintf("vouchers/%s/%s", userID, uuid.New())
	textKey := keyBase + ".txt"
	if err := s.storageService.Upload(ctx, textKey, []byte(req.Text), "text/plain"); err != nil {
		return nil, fmt.Errorf("archiving voucher text: %w", err)
	}

	companyID, err := s.resolveCompanyID(ctx)
	if err != nil {
		return nil, err
	}

	v, err := voucher.NewVoucher(userID, companyID, textKey)
	if err != nil {
		return nil, err
	}
	v.SetParsedHints(parsed.EmployeeID, parsed.EmployeeName, parsed.CourseID, parsed.CourseTitle, parsed.CourseStartDate)

	if match, err := s.findRunMatch(ctx, v); err == nil && match != nil {
		if err := v.MatchRun(match.RunID); err != nil {
			return nil, err
		}
	}

	if err := s.voucherRepo.Save(ctx, v); err != nil {
		return nil, err
	}

	pdfURL, pdfExpiry, err := s.storageService.GenerateUploadURL(ctx, keyBase+".pdf", "application/pdf", s.config.PDFUploadExpiry)
	if err != nil {
		return nil, fmt.Errorf("generating PDF upload URL: %w", err)
	}

	return &UploadVoucherResponse{
		Voucher:        ToVoucherResponse(v),
		PDFUploadURL:   pdfURL,
		PDFUploadByTTL: pdfExpiry,
	}, nil
}

// Get returns one of the user's vouchers
func (s *VoucherService) Get(ctx context.Context, userID, voucherID uuid.UUID) (*VoucherResponse, error) {
	v, err := s.ownedVoucher(ctx, userID, voucherID)
	if err != nil {
		return nil, err
	}
	resp := ToVoucherResponse(v)
	return &resp, nil
}

// List returns the user's vouchers
func (s *VoucherService) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]VoucherResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	vouchers, err := s.voucherRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = ToVoucherResponse(&vouchers[i])
	}
	return responses, nil
}

// Rematch retries course-run matching for an unredeemed voucher
func (s *VoucherService) Rematch(ctx context.Context, userID, voucherID uuid.UUID) (*VoucherResponse, error) {
	v, err := s.ownedVoucher(ctx, userID, voucherID)
	if err != nil {
		return nil, err
	}

	match, err := s.findRunMatch(ctx, v)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, shared.NewDomainError("VOUCHER_NO_MATCH", "No course run matches the voucher")
	}
	if err := v.MatchRun(match.RunID); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.Save(ctx, v); err != nil {
		return nil, err
	}

	resp := ToVoucherResponse(v)
	return &resp, nil
}

// EligibleCoupons lists the full-discount coupons the matched voucher
// can redeem. Coupons already attached to any voucher are excluded.
func (s *VoucherService) EligibleCoupons(ctx context.Context, userID, voucherID uuid.UUID) ([]CouponChoiceResponse, error) {
	v, err := s.ownedVoucher(ctx, userID, voucherID)
	if err != nil {
		return nil, err
	}
	return s.eligibleCoupons(ctx, v)
}

// Redeem attaches the chosen coupon to the voucher and loads the
// user's basket with the matched run so checkout completes at zero
// cost.
func (s *VoucherService) Redeem(ctx context.Context, userID, voucherID uuid.UUID, req RedeemVoucherRequest) (*VoucherResponse, error) {
	v, err := s.ownedVoucher(ctx, userID, voucherID)
	if err != nil {
		return nil, err
	}

	choices, err := s.eligibleCoupons(ctx, v)
	if err != nil {
		return nil, err
	}
	var chosen *CouponChoiceResponse
	for i := range choices {
		if choices[i].CouponID == req.CouponID && choices[i].ProductID == req.ProductID {
			chosen = &choices[i]
			break
		}
	}
	if chosen == nil {
		return nil, shared.ErrCouponNotRedeemable
	}

	if err := v.Redeem(chosen.CouponID); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.Save(ctx, v); err != nil {
		return nil, err
	}

	basket, err := s.basketRepo.GetOrCreateForUser(ctx, v.UserID)
	if err != nil {
		return nil, err
	}
	basket.Clear()
	if err := basket.ReplaceItem(chosen.ProductID, 1); err != nil {
		return nil, err
	}
	basket.SelectRuns([]uuid.UUID{chosen.RunID})
	basket.ApplyCoupon(chosen.CouponID)
	if err := s.basketRepo.Save(ctx, basket); err != nil {
		return nil, err
	}

	resp := ToVoucherResponse(v)
	return &resp, nil
}

func (s *VoucherService) ownedVoucher(ctx context.Context, userID, voucherID uuid.UUID) (*voucher.Voucher, error) {
	v, err := s.voucherRepo.FindByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, shared.ErrForbidden
	}
	return v, nil
}

func (s *VoucherService) resolveCompanyID(ctx context.Context) (*uuid.UUID, error) {
	if s.config.CompanyName == "" {
		return nil, nil
	}
	company, err := s.companyRepo.FindByName(ctx, s.config.CompanyName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company.ID, nil
}

// findRunMatch builds run candidates from the voucher's course hints
// and asks the voucher to pick one. Returns nil without error when
// nothing matches.
func (s *VoucherService) findRunMatch(ctx context.Context, v *voucher.Voucher) (*voucher.RunCandidate, error) {
	courses := make(map[uuid.UUID]*catalog.Course)

	if v.CourseID != "" {
		course, err := s.courseRepo.FindByReadableID(ctx, v.CourseID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if course != nil {
			courses[course.ID] = course
		}
	}
	if v.CourseTitle != "" {
		filter := shared.DefaultFilter()
		filter.Search = v.CourseTitle
		found, err := s.courseRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range found {
			courses[found[i].ID] = &found[i]
		}
	}
	// A voucher carrying only a start date still gets a chance against
	// the live catalog.
	if len(courses) == 0 && v.CourseStartDate != nil {
		live, err := s.courseRepo.FindLive(ctx, shared.DefaultFilter())
		if err != nil {
			return nil, err
		}
		for i := range live {
			courses[live[i].ID] = &live[i]
		}
	}

	var candidates []voucher.RunCandidate
	for _, course := range courses {
		runs, err := s.runRepo.FindByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		for i := range runs {
			candidates = append(candidates, voucher.RunCandidate{
				RunID:      runs[i].ID,
				ReadableID: course.ReadableID,
				Title:      course.Title,
				StartDate:  runs[i].StartDate,
			})
		}
	}

	return v.MatchRunCandidates(candidates), nil
}

func (s *VoucherService) eligibleCoupons(ctx context.Context, v *voucher.Voucher) ([]CouponChoiceResponse, error) {
	if v.IsRedeemed() {
		return nil, shared.NewDomainError("VOUCHER_REDEEMED", "Voucher has already been redeemed")
	}
	if v.MatchedRunID == nil {
		return nil, shared.NewDomainError("VOUCHER_UNMATCHED", "Voucher is not matched to a course run")
	}

	run, err := s.runRepo.FindByID(ctx, *v.MatchedRunID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByObject(ctx, ecommerce.ProductTypeCourseRun, run.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("RUN_NOT_FOR_SALE", "Matched course run has no product")
		}
		return nil, err
	}

	candidates, err := s.couponRepo.FindCandidatesForProduct(ctx, product.ID, ecommerce.CandidateQuery{
		CompanyID: v.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	versionIDs := make([]uuid.UUID, len(candidates))
	for i := range candidates {
		versionIDs[i] = candidates[i].CouponVersion.ID
	}
	counts, err := s.couponRepo.CountFulfilledRedemptions(ctx, versionIDs, v.UserID)
	if err != nil {
		return nil, err
	}
	eligible := ecommerce.ResolveEligibleVersions(candidates, counts, time.Now())

	attachedIDs, err := s.voucherRepo.FindAttachedCouponIDs(ctx)
	if err != nil {
		return nil, err
	}
	attached := make(map[uuid.UUID]bool, len(attachedIDs))
	for _, id := range attachedIDs {
		attached[id] = true
	}

	var choices []CouponChoiceResponse
	for i := range eligible {
		if !eligible[i].PaymentVersion.IsFullDiscount() {
			continue
		}
		if attached[eligible[i].Coupon.ID] {
			continue
		}
		choices = append(choices, CouponChoiceResponse{
			CouponID:    eligible[i].Coupon.ID,
			ProductID:   product.ID,
			RunID:       run.ID,
			CourseTitle: run.Title,
		})
	}
	return choices, nil
}
