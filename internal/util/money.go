package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseCents converts a decimal string such as "1500" or "1500.50" into minor units.
// Amounts are rounded half away from zero to two decimals.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := d.Mul(hundred).Round(0)
	if cents.Abs().GreaterThan(decimal.NewFromInt(1 << 53)) {
		return 0, fmt.Errorf("amount out of range %q", s)
	}
	return cents.IntPart(), nil
}

// FormatCents renders minor units as a two-decimal string ("1500.00").
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Amount accepts both JSON numbers and strings, e.g. 1500, 1500.5 or "1500.50".
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number or numeric string")
	}
	*a = Amount(n.String())
	return nil
}

// Cents parses the amount into minor units.
func (a Amount) Cents() (int64, error) {
	return ParseCents(string(a))
}

// IsSet reports whether the field was present and non-empty.
func (a Amount) IsSet() bool {
	return strings.TrimSpace(string(a)) != ""
}
