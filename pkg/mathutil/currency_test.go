package mathutil

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundCurrency(t *testing.T) {
	got := RoundCurrency(decimal.RequireFromString("1234.5678"))
	if !got.Equal(decimal.RequireFromString("1234.57")) {
		t.Errorf("RoundCurrency() = %s, expected 1234.57", got)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name        string
		numerator   string
		denominator string
		expected    float64
	}{
		{"Simple ratio", "50000", "200000", 0.25},
		{"Negative numerator", "-300", "250000", -300.0 / 250000.0},
		{"Zero denominator", "100", "0", 0},
		{"Negative denominator", "100", "-5", 0},
		{"Zero numerator", "0", "10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Ratio(decimal.RequireFromString(tt.numerator), decimal.RequireFromString(tt.denominator))
			if math.IsNaN(result) || math.IsInf(result, 0) {
				t.Fatalf("Ratio() returned non-finite %v", result)
			}
			if !WithinTolerance(result, tt.expected, 1e-12) {
				t.Errorf("Ratio(%s, %s) = %v, expected %v", tt.numerator, tt.denominator, result, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	got := ApplyPercentage(decimal.NewFromInt(4000), 25)
	if !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("ApplyPercentage(4000, 25) = %s, expected 1000", got)
	}
	if !ApplyPercentage(decimal.NewFromInt(4000), 0).IsZero() {
		t.Error("ApplyPercentage with 0% should be zero")
	}
}

func TestSumAndMean(t *testing.T) {
	total := Sum(decimal.NewFromInt(1), decimal.RequireFromString("2.5"), decimal.NewFromInt(-1))
	if !total.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Sum() = %s, expected 2.5", total)
	}
	if !Sum().IsZero() {
		t.Error("Sum() of nothing should be zero")
	}

	if Mean(nil) != 0 {
		t.Error("Mean(nil) should be 0")
	}
	if got := Mean([]float64{0.1, 0.3, 0}); !WithinTolerance(got, 0.4/3, 1e-12) {
		t.Errorf("Mean() = %v", got)
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Equal values", 100.0, 100.0, 0.01, true},
		{"Within tolerance", 100.0, 100.005, 0.01, true},
		{"Outside tolerance", 100.0, 100.02, 0.01, false},
		{"Negative values", -100.0, -100.005, 0.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v", tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}
