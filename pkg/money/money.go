// Package money provides decimal arithmetic helpers for balances and
// cash-flow figures. All amounts are shopspring decimals; float64 never
// carries money through the core.
package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundCents rounds an accumulated amount to cent precision using
// round-half-up. Rounding is applied to sums, never per item, so repeated
// additions do not introduce rounding drift.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ChangePercent computes the percentage change from previous to current,
// rounded to two decimal places.
//
// A zero previous value has no meaningful ratio: the result is 100 when the
// current value is positive and 0 otherwise.
func ChangePercent(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// Trend labels for a signed change amount.
const (
	TrendIncrease = "increase"
	TrendDecrease = "decrease"
	TrendNoChange = "no_change"
)

// TrendOf returns the trend label for a signed change amount.
func TrendOf(change decimal.Decimal) string {
	switch {
	case change.IsPositive():
		return TrendIncrease
	case change.IsNegative():
		return TrendDecrease
	default:
		return TrendNoChange
	}
}

// Sum adds the given amounts, returning decimal zero for an empty list.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
