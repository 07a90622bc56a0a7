package util

import (
	"errors"
	"testing"
)

func TestValidateAmountCent(t *testing.T) {
	for _, amount := range []int64{1, 100, 150050, MaxAmountCent - 1} {
		if err := ValidateAmountCent(amount); err != nil {
			t.Errorf("ValidateAmountCent(%d) error = %v, want nil", amount, err)
		}
	}
	for _, amount := range []int64{0, -1, -999999} {
		if err := ValidateAmountCent(amount); !errors.Is(err, ErrAmountNotPositive) {
			t.Errorf("ValidateAmountCent(%d) error = %v, want ErrAmountNotPositive", amount, err)
		}
	}
	if err := ValidateAmountCent(MaxAmountCent); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("ValidateAmountCent(max) error = %v, want ErrAmountTooLarge", err)
	}
}

func TestValidateDate(t *testing.T) {
	for _, date := range []string{"2024-01-01", "2024-02-29", "2025-06-15"} {
		if err := ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
	for _, date := range []string{"", "2024-13-01", "2023-02-29", "01/02/2024", "2024-1-1"} {
		if err := ValidateDate(date); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	if err := ValidateMonth("2024-03"); err != nil {
		t.Errorf("ValidateMonth error = %v", err)
	}
	for _, m := range []string{"", "2024-3", "2024-00", "March 2024", "2024-03-01"} {
		if err := ValidateMonth(m); err == nil {
			t.Errorf("ValidateMonth(%q) error = nil, want error", m)
		}
	}
}

func TestParseMonthRejectsLooseForms(t *testing.T) {
	for _, m := range []string{"2024-3", "2024-00", "2024-13"} {
		if _, err := ParseMonth(m); err == nil {
			t.Errorf("ParseMonth(%q) error = nil, want error", m)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("item_name", "Electricity bill", 100); err != nil {
		t.Errorf("ValidateName error = %v", err)
	}
	if err := ValidateName("item_name", "   ", 100); err == nil {
		t.Error("blank name should fail")
	}
	if err := ValidateName("item_name", "abcdef", 5); err == nil {
		t.Error("long name should fail")
	}
}
