package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCouponRepository implements CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by its ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Coupon, error) {
	var coupon ecommerce.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCode finds an enabled coupon by its code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*ecommerce.Coupon, error) {
	var coupon ecommerce.Coupon
	if err := r.db.WithContext(ctx).
		Where("code = ? AND enabled = ?", code, true).
		First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// candidateRow flattens the coupon, coupon version and payment version
// columns of a candidate query into one scannable row
type candidateRow struct {
	CouponID         uuid.UUID
	PaymentID        uuid.UUID
	Code             string
	Enabled          bool
	VersionID        uuid.UUID
	VersionCreatedAt time.Time
	PaymentVersionID uuid.UUID

	CouponType            ecommerce.CouponType
	NumCouponCodes        int
	MaxRedemptions        int
	MaxRedemptionsPerUser int
	Amount                decimal.Decimal
	ActivationDate        *time.Time
	ExpirationDate        *time.Time
	Automatic             bool
	CompanyID             *uuid.UUID
	PaymentType           ecommerce.PaymentType
	PaymentTransaction    string
}

func (row *candidateRow) toCandidate() ecommerce.CandidateCouponVersion {
	candidate := ecommerce.CandidateCouponVersion{
		Coupon: ecommerce.Coupon{
			PaymentID: row.PaymentID,
			Code:      row.Code,
			Enabled:   row.Enabled,
		},
		CouponVersion: ecommerce.CouponVersion{
			CouponID:         row.CouponID,
			PaymentVersionID: row.PaymentVersionID,
		},
		PaymentVersion: ecommerce.CouponPaymentVersion{
			CouponType:            row.CouponType,
			NumCouponCodes:        row.NumCouponCodes,
			MaxRedemptions:        row.MaxRedemptions,
			MaxRedemptionsPerUser: row.MaxRedemptionsPerUser,
			Amount:                row.Amount,
			ActivationDate:        row.ActivationDate,
			ExpirationDate:        row.ExpirationDate,
			Automatic:             row.Automatic,
			CompanyID:             row.CompanyID,
			PaymentType:           row.PaymentType,
			PaymentTransaction:    row.PaymentTransaction,
		},
	}
	candidate.Coupon.ID = row.CouponID
	candidate.CouponVersion.ID = row.VersionID
	candidate.CouponVersion.CreatedAt = row.VersionCreatedAt
	candidate.PaymentVersion.ID = row.PaymentVersionID
	return candidate
}

const candidateColumns = `
	c.id AS coupon_id,
	c.payment_id AS payment_id,
	c.code AS code,
	c.enabled AS enabled,
	cv.id AS version_id,
	cv.created_at AS version_created_at,
	pv.id AS payment_version_id,
	pv.coupon_type AS coupon_type,
	pv.num_coupon_codes AS num_coupon_codes,
	pv.max_redemptions AS max_redemptions,
	pv.max_redemptions_per_user AS max_redemptions_per_user,
	pv.amount AS amount,
	pv.activation_date AS activation_date,
	pv.expiration_date AS expiration_date,
	pv.automatic AS automatic,
	pv.company_id AS company_id,
	pv.payment_type AS payment_type,
	pv.payment_transaction AS payment_transaction`

// FindCandidatesForProduct loads the latest coupon version of every
// enabled coupon eligible for the product, joined with its payment
// version terms
func (r *GormCouponRepository) FindCandidatesForProduct(ctx context.Context, productID uuid.UUID, opts ecommerce.CandidateQuery) ([]ecommerce.CandidateCouponVersion, error) {
	query := r.db.WithContext(ctx).
		Table("coupon_eligibilities ce").
		Select(candidateColumns).
		Joins("JOIN coupons c ON c.id = ce.coupon_id AND c.enabled = ?", true).
		Joins("JOIN coupon_versions cv ON cv.coupon_id = c.id AND cv.created_at = (SELECT MAX(cv2.created_at) FROM coupon_versions cv2 WHERE cv2.coupon_id = c.id)").
		Joins("JOIN coupon_payment_versions pv ON pv.id = cv.payment_version_id").
		Where("ce.product_id = ?", productID)

	if opts.Code != "" {
		query = query.Where("c.code = ?", opts.Code)
	}
	if opts.AutomaticOnly {
		query = query.Where("pv.automatic = ?", true)
	}
	if opts.CompanyID != nil {
		query = query.Where("pv.company_id = ?", *opts.CompanyID)
	}

	var rows []candidateRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	candidates := make([]ecommerce.CandidateCouponVersion, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, rows[i].toCandidate())
	}
	return candidates, nil
}

// CountFulfilledRedemptions tallies redemptions attached to fulfilled
// orders for the given coupon versions, globally and for the given user
func (r *GormCouponRepository) CountFulfilledRedemptions(ctx context.Context, versionIDs []uuid.UUID, userID uuid.UUID) (ecommerce.RedemptionCounts, error) {
	counts := ecommerce.RedemptionCounts{
		Global:  make(map[uuid.UUID]int64),
		PerUser: make(map[uuid.UUID]int64),
	}
	if len(versionIDs) == 0 {
		return counts, nil
	}

	type countRow struct {
		CouponVersionID uuid.UUID
		Total           int64
	}

	var global []countRow
	if err := r.db.WithContext(ctx).
		Table("coupon_redemptions cr").
		Select("cr.coupon_version_id AS coupon_version_id, COUNT(*) AS total").
		Joins("JOIN orders o ON o.id = cr.order_id AND o.status = ?", ecommerce.OrderStatusFulfilled).
		Where("cr.coupon_version_id IN ?", versionIDs).
		Group("cr.coupon_version_id").
		Scan(&global).Error; err != nil {
		return counts, err
	}
	for _, row := range global {
		counts.Global[row.CouponVersionID] = row.Total
	}

	var perUser []countRow
	if err := r.db.WithContext(ctx).
		Table("coupon_redemptions cr").
		Select("cr.coupon_version_id AS coupon_version_id, COUNT(*) AS total").
		Joins("JOIN orders o ON o.id = cr.order_id AND o.status = ?", ecommerce.OrderStatusFulfilled).
		Where("cr.coupon_version_id IN ? AND o.purchaser_id = ?", versionIDs, userID).
		Group("cr.coupon_version_id").
		Scan(&perUser).Error; err != nil {
		return counts, err
	}
	for _, row := range perUser {
		counts.PerUser[row.CouponVersionID] = row.Total
	}

	return counts, nil
}

// LatestVersionForCoupon returns the newest coupon version with its
// payment version
func (r *GormCouponRepository) LatestVersionForCoupon(ctx context.Context, couponID uuid.UUID) (*ecommerce.CandidateCouponVersion, error) {
	var row candidateRow
	result := r.db.WithContext(ctx).
		Table("coupons c").
		Select(candidateColumns).
		Joins("JOIN coupon_versions cv ON cv.coupon_id = c.id").
		Joins("JOIN coupon_payment_versions pv ON pv.id = cv.payment_version_id").
		Where("c.id = ?", couponID).
		Order("cv.created_at DESC").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}

	candidate := row.toCandidate()
	return &candidate, nil
}

// SavePayment persists a coupon payment
func (r *GormCouponRepository) SavePayment(ctx context.Context, payment *ecommerce.CouponPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SavePaymentVersion persists a payment version
func (r *GormCouponRepository) SavePaymentVersion(ctx context.Context, version *ecommerce.CouponPaymentVersion) error {
	return r.db.WithContext(ctx).Save(version).Error
}

// FindPaymentVersionByID finds a payment version by its ID
func (r *GormCouponRepository) FindPaymentVersionByID(ctx context.Context, id uuid.UUID) (*ecommerce.CouponPaymentVersion, error) {
	var version ecommerce.CouponPaymentVersion
	if err := r.db.WithContext(ctx).First(&version, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// Save persists a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *ecommerce.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

// SaveVersion persists a coupon version
func (r *GormCouponRepository) SaveVersion(ctx context.Context, version *ecommerce.CouponVersion) error {
	return r.db.WithContext(ctx).Save(version).Error
}

// SaveEligibility persists a coupon eligibility row
func (r *GormCouponRepository) SaveEligibility(ctx context.Context, eligibility *ecommerce.CouponEligibility) error {
	return r.db.WithContext(ctx).Save(eligibility).Error
}

// SaveRedemption persists a coupon redemption
func (r *GormCouponRepository) SaveRedemption(ctx context.Context, redemption *ecommerce.CouponRedemption) error {
	return r.db.WithContext(ctx).Save(redemption).Error
}

// FindRedemptionByOrder finds the redemption attached to an order
func (r *GormCouponRepository) FindRedemptionByOrder(ctx context.Context, orderID uuid.UUID) (*ecommerce.CouponRedemption, error) {
	var redemption ecommerce.CouponRedemption
	if err := r.db.WithContext(ctx).First(&redemption, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &redemption, nil
}

// FindCodesForPayment lists the coupon codes under a payment along with
// whether each has been redeemed against a fulfilled order
func (r *GormCouponRepository) FindCodesForPayment(ctx context.Context, paymentID uuid.UUID) ([]ecommerce.CouponCodeStatus, error) {
	var statuses []ecommerce.CouponCodeStatus
	if err := r.db.WithContext(ctx).
		Table("coupons c").
		Select(`c.code AS code, EXISTS (
			SELECT 1 FROM coupon_redemptions cr
			JOIN coupon_versions cv ON cv.id = cr.coupon_version_id
			JOIN orders o ON o.id = cr.order_id
			WHERE cv.coupon_id = c.id AND o.status = ?
		) AS redeemed`, ecommerce.OrderStatusFulfilled).
		Where("c.payment_id = ?", paymentID).
		Order("c.code ASC").
		Scan(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

var _ ecommerce.CouponRepository = (*GormCouponRepository)(nil)
