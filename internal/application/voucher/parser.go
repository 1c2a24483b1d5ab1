package voucher

import (
	"bufio"
	"strings"
	"time"

	"github.com/xpro/backend/internal/domain/shared"
)

// Labels recognized in extracted voucher text. Uploads are the plain
// text produced by running pdftotext over the sponsor's voucher PDF,
// which lays fields out as "Label: value" lines.
const (
	labelEmployeeID   = "Employee ID"
	labelEmployeeName = "Employee Name"
	labelCourseNumber = "Course Number"
	labelCourseName   = "Course Name"
	labelCourseDates  = "Dates"
)

const voucherDateFormat = "02-Jan-2006"

// ParsedVoucher holds the fields extracted from an uploaded voucher
// document. CourseStartDate is nil when the dates line is absent or
// unparsable.
type ParsedVoucher struct {
	EmployeeID      string
	EmployeeName    string
	CourseID        string
	CourseTitle     string
	CourseStartDate *time.Time
}

// ParseVoucherText extracts voucher fields from pdftotext output.
// Employee ID and name are required; course hints are best-effort and
// drive run matching later.
func ParseVoucherText(text string) (*ParsedVoucher, error) {
	parsed := &ParsedVoucher{}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, labelEmployeeID):
			parsed.EmployeeID = labelValue(line, labelEmployeeID)
		case strings.HasPrefix(line, labelEmployeeName):
			parsed.EmployeeName = labelValue(line, labelEmployeeName)
		case strings.HasPrefix(line, labelCourseNumber):
			parsed.CourseID = labelValue(line, labelCourseNumber)
		case strings.HasPrefix(line, labelCourseName):
			parsed.CourseTitle = labelValue(line, labelCourseName)
		case strings.HasPrefix(line, labelCourseDates):
			parsed.CourseStartDate = parseStartDate(labelValue(line, labelCourseDates))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if parsed.EmployeeID == "" || parsed.EmployeeName == "" {
		return nil, shared.NewDomainError("VOUCHER_PARSE_FAILED",
			"Could not extract employee fields from voucher document")
	}
	if parsed.CourseID == "" && parsed.CourseTitle == "" && parsed.CourseStartDate == nil {
		return nil, shared.NewDomainError("VOUCHER_PARSE_FAILED",
			"Could not extract any course hint from voucher document")
	}

	return parsed, nil
}

// labelValue strips the label and an optional colon from a line
func labelValue(line, label string) string {
	value := strings.TrimPrefix(line, label)
	value = strings.TrimPrefix(strings.TrimSpace(value), ":")
	return strings.TrimSpace(value)
}

// parseStartDate reads the first token of a dates line, e.g.
// "14-Apr-2026 to 23-Jun-2026"
func parseStartDate(value string) *time.Time {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil
	}
	t, err := time.Parse(voucherDateFormat, fields[0])
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
