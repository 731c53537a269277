package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts are stored as BIGINT micros (10^-6) to avoid floating point
// errors; API payloads carry decimal strings ("250.00"). These helpers
// convert at the boundary.

// FromDecimal converts a decimal.Decimal to int64 micros.
func FromDecimal(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(1_000_000)).IntPart()
}

// MicrosToString renders micros as a fixed two-decimal string.
func MicrosToString(micros int64) string {
	return decimal.NewFromInt(micros).Div(decimal.NewFromInt(1_000_000)).StringFixed(2)
}

// ParseAmount parses a decimal string ("250.00") into micros.
// Rejects malformed and non-positive values.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", d)
	}
	return FromDecimal(d), nil
}
