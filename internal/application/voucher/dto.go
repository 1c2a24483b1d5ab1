package voucher

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/voucher"
)

// UploadVoucherRequest carries the extracted text of a voucher PDF
type UploadVoucherRequest struct {
	FileName string `json:"file_name" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

// RedeemVoucherRequest selects one of the voucher's eligible coupons
type RedeemVoucherRequest struct {
	CouponID  uuid.UUID `json:"coupon_id" binding:"required"`
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	UploadKey       string     `json:"upload_key"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    string     `json:"employee_name"`
	CourseID        string     `json:"course_id"`
	CourseTitle     string     `json:"course_title"`
	CourseStartDate *time.Time `json:"course_start_date,omitempty"`
	MatchedRunID    *uuid.UUID `json:"matched_run_id,omitempty"`
	Redeemed        bool       `json:"redeemed"`
	RedeemedAt      *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// UploadVoucherResponse is returned after a successful upload. The
// PDFUploadURL is a presigned PUT URL for archiving the original PDF
// next to the parsed text.
type UploadVoucherResponse struct {
	Voucher        VoucherResponse `json:"voucher"`
	PDFUploadURL   string          `json:"pdf_upload_url"`
	PDFUploadByTTL time.Time       `json:"pdf_upload_expires_at"`
}

// CouponChoiceResponse is one redeemable coupon for a matched voucher
type CouponChoiceResponse struct {
	CouponID    uuid.UUID `json:"coupon_id"`
	ProductID   uuid.UUID `json:"product_id"`
	RunID       uuid.UUID `json:"run_id"`
	CourseTitle string    `json:"course_title"`
}

// ToVoucherResponse converts a domain voucher to a response DTO
func ToVoucherResponse(v *voucher.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:              v.ID,
		UserID:          v.UserID,
		CompanyID:       v.CompanyID,
		UploadKey:       v.UploadKey,
		EmployeeID:      v.EmployeeID,
		EmployeeName:    v.EmployeeName,
		CourseID:        v.CourseID,
		CourseTitle:     v.CourseTitle,
		CourseStartDate: v.CourseStartDate,
		MatchedRunID:    v.MatchedRunID,
		Redeemed:        v.IsRedeemed(),
		RedeemedAt:      v.RedeemedAt,
		CreatedAt:       v.CreatedAt,
	}
}
