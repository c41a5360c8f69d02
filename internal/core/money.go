// Package core provides money parsing and handling utilities.
//
// Amounts are decimals in the domain and integer minor units (cents) in
// storage, so sums computed by the store stay exact.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// maxAmount is the largest amount whose cents fit an int64.
	maxAmount = decimal.New(math.MaxInt64, -2)
)

// FitsMinor reports whether d converts to cents without overflowing.
func FitsMinor(d decimal.Decimal) bool {
	return d.Abs().Round(2).LessThanOrEqual(maxAmount)
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv >= maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseAmount parses a user supplied positive amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return decimal.Zero, err
	}
	return FromMinor(cents), nil
}

// ToMinor converts an amount to cents, rounding half away from zero. Callers
// check FitsMinor first; validated domain values always fit.
func ToMinor(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromMinor converts cents back to a decimal amount.
func FromMinor(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Percent returns part/whole*100 rounded to two places, or zero when whole
// is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// Trend returns the percentage change from prev to cur rounded to two places.
// A zero baseline yields exactly zero.
func Trend(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(2)
}
