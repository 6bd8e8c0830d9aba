// Package money holds the fixed-point rules shared by every balance mutation.
package money

import (
	"github.com/shopspring/decimal"
)

// Scale is the number of fraction digits stored for every amount.
const Scale int32 = 2

// rateScale is the precision of derived daily rates.
const rateScale int32 = 12

const daysPerYear = 365

// Normalize rounds an amount to the stored scale.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// HasValidScale reports whether d carries no more than Scale fraction digits.
func HasValidScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(Scale))
}

// IsPositive reports whether d is strictly greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// DailyRate derives the daily rate for an annual rate, rounded half-up to 12 places.
func DailyRate(annual decimal.Decimal) decimal.Decimal {
	return annual.DivRound(decimal.NewFromInt(daysPerYear), rateScale)
}

// Interest computes balance*rate rounded half-up to the currency's minor units.
func Interest(balance, dailyRate decimal.Decimal, minorUnits int32) decimal.Decimal {
	return balance.Mul(dailyRate).Round(minorUnits)
}

// String formats an amount with exactly Scale fraction digits.
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
