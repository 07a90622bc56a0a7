package util

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// dateLayouts are accepted for incoming dates, most specific first.
var dateLayouts = []string{
	time.RFC3339,          // 2025-12-03T00:00:00+08:00
	"2006-01-02T15:04:05", // 2025-12-03T00:00:00
	DateLayout,            // 2025-12-03
}

// ParseDate parses a date in one of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// IsAfterDay reports whether t falls on a later calendar day than now.
func IsAfterDay(t, now time.Time) bool {
	return t.Format(DateLayout) > now.Format(DateLayout)
}

// ParseMonth parses "YYYY-MM" into the first instant of that month (UTC).
func ParseMonth(s string) (time.Time, error) {
	if err := ValidateMonth(s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(MonthLayout, s)
}

// MonthStart returns the first day of t's month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns [first day of the month, first day of the next month).
func MonthRange(month time.Time) (time.Time, time.Time) {
	start := MonthStart(month)
	return start, start.AddDate(0, 1, 0)
}

// MonthKey formats t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// YearMonth builds the first day of the given month; month must be 1..12.
func YearMonth(year, month int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return time.Time{}, fmt.Errorf("invalid year %d", year)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}
