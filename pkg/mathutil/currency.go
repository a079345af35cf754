// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/shopspring/decimal"
)

// RoundCurrency rounds an amount to whole cents.
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(constants.DecimalPlaces)
}

// Ratio returns numerator/denominator as a float64, or 0 when the
// denominator is not positive.
func Ratio(numerator, denominator decimal.Decimal) float64 {
	if !denominator.IsPositive() {
		return 0
	}
	f, _ := numerator.Div(denominator).Float64()
	return f
}

// ApplyPercentage applies a percentage to an amount.
func ApplyPercentage(amount decimal.Decimal, percentage float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(percentage)).Div(decimal.NewFromFloat(constants.PercentageMultiplier))
}

// Sum adds up the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
