package util

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxAmountCent 单笔金额上限（一千万）
const MaxAmountCent int64 = 10_000_000 * 100

// 金额校验错误，调用方用 errors.Is 区分
var (
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrAmountTooLarge    = errors.New("amount too large")
)

// ValidateAmountCent 验证金额（必须为正数且不超过上限）
func ValidateAmountCent(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w, got %s", ErrAmountNotPositive, FormatCents(amount))
	}
	if amount >= MaxAmountCent {
		return fmt.Errorf("%w, got %s", ErrAmountTooLarge, FormatCents(amount))
	}
	return nil
}

// ValidateDate 验证日期格式（必须为 YYYY-MM-DD）
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateMonth 验证月份格式（必须为 YYYY-MM）
func ValidateMonth(month string) error {
	if month == "" {
		return fmt.Errorf("month is empty")
	}
	if _, err := time.Parse(MonthLayout, month); err != nil {
		return fmt.Errorf("invalid month format, expected YYYY-MM")
	}
	return nil
}

// ValidateName 验证名称（不能为空且长度合理）
func ValidateName(field, name string, maxLen int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len([]rune(name)) > maxLen {
		return fmt.Errorf("%s too long, max %d characters", field, maxLen)
	}
	return nil
}
