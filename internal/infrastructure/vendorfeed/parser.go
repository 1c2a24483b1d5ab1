package vendorfeed

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/xpro/backend/internal/application/integration"
)

const feedDateFormat = "2006-01-02"

// runTagPattern matches the trailing run tag in a vendor run code,
// e.g. "MO-SYS-24-06#1" yields "24-06#1"
var runTagPattern = regexp.MustCompile(`[0-9]{2}-[0-9]{2}#[0-9]+$`)

// VendorCourse is one parsed report row
type VendorCourse = integration.VendorCourse

// ParseVendorCourse converts a raw report row into a VendorCourse
func ParseVendorCourse(row Row) VendorCourse {
	course := VendorCourse{
		Title:       stringField(row, "program_name"),
		CourseCode:  stringField(row, "course_code"),
		RunCode:     stringField(row, "course_run_code"),
		Description: stringField(row, "description"),
		Format:      stringField(row, "format"),
		Category:    stringField(row, "Category"),
	}

	course.RunTag = runTagPattern.FindString(course.RunCode)

	course.StartDate = parseFeedDate(stringField(row, "start_date"))
	if end := parseFeedDate(stringField(row, "end_date")); end != nil {
		// push to end of day so an ending run stays open through it
		endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 0, 0, end.Location())
		course.EndDate = &endOfDay
	}

	course.MarketingURL = cleanURL(stringField(row, "landing_page_url"))

	if weeks, ok := numericField(row, "total_weeks"); ok && weeks != 0 {
		course.Duration = fmt.Sprintf("%d Weeks", weeks)
	}

	course.LearningOutcomes = parseBulletList(stringField(row, "learning_outcomes"))
	course.WhoShouldEnroll = parseBulletList(stringField(row, "program_for"))

	return course
}

func stringField(row Row, key string) string {
	value, ok := row[key]
	if !ok || value == nil {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%v", value)
	}
	return text
}

func numericField(row Row, key string) (int, bool) {
	switch value := row[key].(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case string:
		var parsed int
		if _, err := fmt.Sscanf(value, "%d", &parsed); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func parseFeedDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(feedDateFormat, value)
	if err != nil {
		return nil
	}
	return &parsed
}

// cleanURL strips query parameters, the feed carries tracking params
// that must not leak into marketing links
func cleanURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

// parseBulletList splits a bullet-formatted text block into items. The
// first line is a heading and is dropped.
func parseBulletList(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\r\n")
	items := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == 0 {
			continue
		}
		item := strings.TrimSpace(strings.ReplaceAll(line, "●", ""))
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items
}
