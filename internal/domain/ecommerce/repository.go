package ecommerce

import (
	"context"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product with its versions preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByObject finds the product selling a catalog object
	FindByObject(ctx context.Context, productType ProductType, objectID uuid.UUID) (*Product, error)

	// FindVisible finds visible products with versions preloaded
	FindVisible(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindVersionByID finds a product version by its ID
	FindVersionByID(ctx context.Context, id uuid.UUID) (*ProductVersion, error)

	// Save creates or updates a product and its versions
	Save(ctx context.Context, product *Product) error

	// Count counts visible products
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BasketRepository defines the interface for basket persistence
type BasketRepository interface {
	// FindByUser finds a user's basket with items and selections
	// preloaded
	FindByUser(ctx context.Context, userID uuid.UUID) (*Basket, error)

	// GetOrCreateForUser returns the user's basket, creating it if
	// absent
	GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*Basket, error)

	// Save persists the basket and replaces its items and selections
	Save(ctx context.Context, basket *Basket) error
}

// CouponRepository defines the interface for coupon persistence.
// Candidate and count queries feed eligibility resolution.
type CouponRepository interface {
	// FindByID finds a coupon by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByCode finds an enabled coupon by its code
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// FindCandidatesForProduct loads the latest coupon version of every
	// enabled coupon eligible for the product, joined with its payment
	// version terms. code narrows to a single coupon code; companyID
	// narrows to a sponsor; automaticOnly keeps auto-applied coupons.
	FindCandidatesForProduct(ctx context.Context, productID uuid.UUID, opts CandidateQuery) ([]CandidateCouponVersion, error)

	// CountFulfilledRedemptions tallies redemptions attached to
	// fulfilled orders for the given coupon versions, globally and for
	// the given user
	CountFulfilledRedemptions(ctx context.Context, versionIDs []uuid.UUID, userID uuid.UUID) (RedemptionCounts, error)

	// LatestVersionForCoupon returns the newest coupon version with its
	// payment version
	LatestVersionForCoupon(ctx context.Context, couponID uuid.UUID) (*CandidateCouponVersion, error)

	// SavePayment persists a coupon payment
	SavePayment(ctx context.Context, payment *CouponPayment) error

	// SavePaymentVersion persists a payment version
	SavePaymentVersion(ctx context.Context, version *CouponPaymentVersion) error

	// FindPaymentVersionByID finds a payment version by its ID
	FindPaymentVersionByID(ctx context.Context, id uuid.UUID) (*CouponPaymentVersion, error)

	// Save persists a coupon
	Save(ctx context.Context, coupon *Coupon) error

	// SaveVersion persists a coupon version
	SaveVersion(ctx context.Context, version *CouponVersion) error

	// SaveEligibility persists a coupon eligibility row
	SaveEligibility(ctx context.Context, eligibility *CouponEligibility) error

	// SaveRedemption persists a coupon redemption
	SaveRedemption(ctx context.Context, redemption *CouponRedemption) error

	// FindRedemptionByOrder finds the redemption attached to an order,
	// if any
	FindRedemptionByOrder(ctx context.Context, orderID uuid.UUID) (*CouponRedemption, error)

	// FindCodesForPayment lists the coupon codes under a payment along
	// with whether each has been redeemed against a fulfilled order
	FindCodesForPayment(ctx context.Context, paymentID uuid.UUID) ([]CouponCodeStatus, error)
}

// CandidateQuery narrows candidate coupon lookup
type CandidateQuery struct {
	Code          string
	AutomaticOnly bool
	CompanyID     *uuid.UUID
}

// CouponCodeStatus reports whether a coupon code has been redeemed
type CouponCodeStatus struct {
	Code     string
	Redeemed bool
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByPurchaser finds a user's orders
	FindByPurchaser(ctx context.Context, purchaserID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order and its lines
	Save(ctx context.Context, order *Order) error

	// SaveReceipt persists a gateway receipt
	SaveReceipt(ctx context.Context, receipt *Receipt) error

	// SaveAudit persists an order audit snapshot
	SaveAudit(ctx context.Context, record *shared.AuditRecord) error
}

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID finds a company by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindByName finds a company by its name
	FindByName(ctx context.Context, name string) (*Company, error)

	// FindAll lists all companies
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error
}
