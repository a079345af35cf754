// Package format renders amounts and ratios for people.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	return Decimal(decimal.NewFromFloat(amount))
}

// Decimal formats a decimal amount like Currency without passing through float64.
func Decimal(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-$" + groupThousands(rounded.Abs().StringFixed(2))
	}
	return "$" + groupThousands(rounded.StringFixed(2))
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-" + groupThousands(rounded.Abs().StringFixed(2))
	}
	return groupThousands(rounded.StringFixed(2))
}

// Percent renders a ratio such as 0.0525 as "5.25%". Non-finite ratios
// render as "N/A".
func Percent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// groupThousands inserts separators into the integer part of a non-negative
// fixed-point string.
func groupThousands(fixed string) string {
	intPart, decPart, _ := strings.Cut(fixed, ".")
	if decPart == "" {
		decPart = "00"
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
