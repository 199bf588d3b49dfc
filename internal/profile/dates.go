package profile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first one that parses wins.
var dateLayouts = []string{
	"Jan 2006",
	"January 2006",
	"2006",
	"1/2006",
	"1-2006",
}

var (
	durationYearsRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:year|yr)`)
	durationMonthsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:month|mo)`)
)

// ParseDate parses a profile date such as "Mar 2025", "March 2025", "2025",
// "03/2025" or "03-2025". Empty values and "present" are not dates.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "present") {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DateIssue describes an inconsistency in a position's dates.
type DateIssue struct {
	Position    string `json:"position"`
	Issue       string `json:"issue"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	CurrentDate string `json:"current_date,omitempty"`
}

const (
	IssueFutureStart    = "Start date appears to be in the future"
	IssueEndBeforeStart = "End date is before start date"
)

// ValidateExperienceDates reports future start dates and end dates that
// precede their start. Unparseable dates are skipped. It never fails.
func ValidateExperienceDates(positions []Position, now time.Time) []DateIssue {
	var issues []DateIssue

	for _, pos := range positions {
		label := fmt.Sprintf("%s at %s", orUnknown(pos.Title), orUnknown(pos.Company))

		start, hasStart := ParseDate(pos.StartDate)
		if !hasStart {
			continue
		}

		if start.After(now) {
			issues = append(issues, DateIssue{
				Position:    label,
				Issue:       IssueFutureStart,
				StartDate:   pos.StartDate,
				CurrentDate: now.Format("Jan 2006"),
			})
		}

		if pos.IsCurrent {
			continue
		}

		if end, ok := ParseDate(pos.EndDate); ok && end.Before(start) {
			issues = append(issues, DateIssue{
				Position:  label,
				Issue:     IssueEndBeforeStart,
				StartDate: pos.StartDate,
				EndDate:   pos.EndDate,
			})
		}
	}

	return issues
}

// DurationMonths parses strings like "2 yrs 3 mos" into a month count.
func DurationMonths(duration string) int {
	total := 0
	if m := durationYearsRe.FindStringSubmatch(duration); m != nil {
		years, _ := strconv.Atoi(m[1])
		total += years * 12
	}
	if m := durationMonthsRe.FindStringSubmatch(duration); m != nil {
		months, _ := strconv.Atoi(m[1])
		total += months
	}
	return total
}

// TotalExperienceMonths sums the durations of every position.
func TotalExperienceMonths(positions []Position) int {
	total := 0
	for _, pos := range positions {
		total += DurationMonths(pos.Duration)
	}
	return total
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
