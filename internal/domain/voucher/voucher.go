package voucher

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// Voucher is an uploaded sponsorship document entitling an employee to
// a seat in a course run. The parsed hints (employee, course id/title/
// start date) drive course-run matching; the uploaded text is archived
// in object storage at UploadKey.
type Voucher struct {
	shared.BaseAggregateRoot
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
	UploadKey string     `gorm:"type:varchar(500)"`

	// Parsed document hints
	EmployeeID      string     `gorm:"type:varchar(100)"`
	EmployeeName    string     `gorm:"type:varchar(255)"`
	CourseID        string     `gorm:"type:varchar(255)"`
	CourseTitle     string     `gorm:"type:varchar(255)"`
	CourseStartDate *time.Time

	// Resolution
	MatchedRunID *uuid.UUID `gorm:"type:uuid"`
	CouponID     *uuid.UUID `gorm:"type:uuid"`
	RedeemedAt   *time.Time
}

// TableName returns the table name for GORM
func (Voucher) TableName() string {
	return "vouchers"
}

// NewVoucher creates a voucher from parsed upload metadata
func NewVoucher(userID uuid.UUID, companyID *uuid.UUID, uploadKey string) (*Voucher, error) {
	if uploadKey == "" {
		return nil, shared.NewDomainError("INVALID_UPLOAD", "Voucher upload key cannot be empty")
	}
	return &Voucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		CompanyID:         companyID,
		UploadKey:         uploadKey,
	}, nil
}

// SetParsedHints stores the fields parsed out of the uploaded document
func (v *Voucher) SetParsedHints(employeeID, employeeName, courseID, courseTitle string, startDate *time.Time) {
	v.EmployeeID = employeeID
	v.EmployeeName = employeeName
	v.CourseID = courseID
	v.CourseTitle = courseTitle
	v.CourseStartDate = startDate
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// MatchRun records the course run the voucher resolved to
func (v *Voucher) MatchRun(runID uuid.UUID) error {
	if v.IsRedeemed() {
		return shared.NewDomainError("VOUCHER_REDEEMED", "Redeemed vouchers cannot be rematched")
	}
	v.MatchedRunID = &runID
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Redeem attaches a full-discount coupon to the voucher. A voucher can
// be redeemed once and must be matched to a run first.
func (v *Voucher) Redeem(couponID uuid.UUID) error {
	if v.IsRedeemed() {
		return shared.NewDomainError("VOUCHER_REDEEMED", "Voucher has already been redeemed")
	}
	if v.MatchedRunID == nil {
		return shared.NewDomainError("VOUCHER_UNMATCHED", "Voucher must be matched to a course run before redemption")
	}

	now := time.Now().UTC()
	v.CouponID = &couponID
	v.RedeemedAt = &now
	v.UpdatedAt = now
	v.IncrementVersion()

	return nil
}

// IsRedeemed returns true once a coupon has been attached
func (v *Voucher) IsRedeemed() bool {
	return v.RedeemedAt != nil
}

// RunCandidate is a course run considered during voucher matching
type RunCandidate struct {
	RunID      uuid.UUID
	ReadableID string
	Title      string
	StartDate  *time.Time
}

// MatchRunCandidates picks the course run a voucher refers to. Exact
// matches (readable id, title and start date all agree) win; otherwise
// a unique partial match on any one hint is accepted. Returns nil when
// nothing or more than one partial candidate matches.
func (v *Voucher) MatchRunCandidates(candidates []RunCandidate) *RunCandidate {
	var exact []RunCandidate
	var partial []RunCandidate

	for _, c := range candidates {
		idMatch := v.CourseID != "" && c.ReadableID == v.CourseID
		titleMatch := v.CourseTitle != "" && c.Title == v.CourseTitle
		dateMatch := v.CourseStartDate != nil && c.StartDate != nil &&
			c.StartDate.Truncate(24*time.Hour).Equal(v.CourseStartDate.Truncate(24*time.Hour))

		if idMatch && titleMatch && dateMatch {
			exact = append(exact, c)
		} else if idMatch || titleMatch || dateMatch {
			partial = append(partial, c)
		}
	}

	if len(exact) > 0 {
		return &exact[0]
	}
	if len(partial) == 1 {
		return &partial[0]
	}
	return nil
}
