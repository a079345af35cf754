package retirement

import (
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// MonthlyAllocation is the monthly spend split into the goal's buckets.
type MonthlyAllocation struct {
	Mortgage               decimal.Decimal `json:"mortgage"`
	Cars                   decimal.Decimal `json:"cars"`
	HealthCare             decimal.Decimal `json:"healthCare"`
	FoodAndDrinks          decimal.Decimal `json:"foodAndDrinks"`
	TravelAndEntertainment decimal.Decimal `json:"travelAndEntertainment"`
	ReinvestedFunds        decimal.Decimal `json:"reinvestedFunds"`
	PercentTotal           float64         `json:"percentTotal"`
}

// Balanced reports whether the bucket percentages add up to 100.
func (a MonthlyAllocation) Balanced() bool {
	return mathutil.WithinTolerance(a.PercentTotal, 100, constants.AllocationTolerance)
}

// AllocateMonthlySpend splits goals.MonthlySpend across the allocation
// percentages, rounded to cents.
func AllocateMonthlySpend(goals model.RetirementGoals) MonthlyAllocation {
	split := func(pct float64) decimal.Decimal {
		return mathutil.RoundCurrency(mathutil.ApplyPercentage(goals.MonthlySpend, pct))
	}
	return MonthlyAllocation{
		Mortgage:               split(goals.Mortgage),
		Cars:                   split(goals.Cars),
		HealthCare:             split(goals.HealthCare),
		FoodAndDrinks:          split(goals.FoodAndDrinks),
		TravelAndEntertainment: split(goals.TravelAndEntertainment),
		ReinvestedFunds:        split(goals.ReinvestedFunds),
		PercentTotal:           goals.Allocation.Total(),
	}
}
