package retirement

import (
	"testing"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/shopspring/decimal"
)

func BenchmarkProjectAndEvaluate(b *testing.B) {
	goals := model.RetirementGoals{
		CurrentAge:      25,
		RetirementAge:   67,
		MonthlySpend:    decimal.NewFromInt(6000),
		CurrentNetWorth: decimal.NewFromInt(40000),
		AnnualSavings:   decimal.NewFromInt(18000),
	}
	rates := []float64{0.03, 0.05, 0.07, 0.09, 0.11}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EvaluateGoal(Project(goals, rates), goals)
	}
}
