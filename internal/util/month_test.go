package util

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	m, err := ParseMonth("2024-12")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	start, end := MonthRange(m)
	if !start.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
	if MonthKey(end) != "2025-01" {
		t.Errorf("MonthKey = %s", MonthKey(end))
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-03-05", "2024-03-05T10:00:00", "2024-03-05T10:00:00+05:00"} {
		d, err := ParseDate(s)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", s, err)
			continue
		}
		if d.Day() != 5 || d.Month() != time.March {
			t.Errorf("ParseDate(%q) = %v", s, d)
		}
	}
	if _, err := ParseDate("05/03/2024"); err == nil {
		t.Error("unsupported layout should fail")
	}
}

func TestIsAfterDay(t *testing.T) {
	now := time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC)
	if IsAfterDay(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), now) {
		t.Error("same day is not after")
	}
	if !IsAfterDay(time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), now) {
		t.Error("next day is after")
	}
}

func TestYearMonth(t *testing.T) {
	m, err := YearMonth(2024, 2)
	if err != nil || MonthKey(m) != "2024-02" {
		t.Errorf("YearMonth = %v, %v", m, err)
	}
	if _, err := YearMonth(2024, 13); err == nil {
		t.Error("month 13 should fail")
	}
	if _, err := YearMonth(0, 1); err == nil {
		t.Error("year 0 should fail")
	}
}
