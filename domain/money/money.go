// Package money provides integer minor-currency-unit arithmetic.
// All amounts in the system are int64 cents (or the currency's smallest
// denomination); fractional intermediates are rounded half-up exactly once,
// here, so that no two call sites can disagree on rounding.
package money

import "math"

// RoundHalfUp rounds a fractional amount to the nearest integer minor unit.
// Halves round away from zero: 0.5 -> 1, -0.5 -> -1.
// This is a PURE function.
func RoundHalfUp(v float64) int64 {
	if v >= 0 {
		return int64(math.Floor(v + 0.5))
	}
	return int64(math.Ceil(v - 0.5))
}

// Percent returns pct percent of amount, rounded half-up.
// This is a PURE function.
func Percent(amount int64, pct float64) int64 {
	return RoundHalfUp(float64(amount) * pct / 100)
}

// Clamp limits v to [min, max]. A nil bound is ignored.
// This is a PURE function.
func Clamp(v int64, min, max *int64) int64 {
	if min != nil && v < *min {
		v = *min
	}
	if max != nil && v > *max {
		v = *max
	}
	return v
}

// FormatAmount formats minor units as a dollar-style string.
// This is a PURE function.
func FormatAmount(cents int64) string {
	if cents < 0 {
		return "-" + FormatAmount(-cents)
	}
	units := cents / 100
	remainder := cents % 100
	if remainder == 0 {
		return "$" + formatNumber(units)
	}
	return "$" + formatNumber(units) + "." + padZero(remainder)
}

// formatNumber adds comma separators.
func formatNumber(n int64) string {
	if n < 1000 {
		return itoa(n)
	}
	return formatNumber(n/1000) + "," + padThree(n%1000)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func padZero(n int64) string {
	if n < 10 {
		return "0" + itoa(n)
	}
	return itoa(n)
}

func padThree(n int64) string {
	s := itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
