package retirement

import (
	"testing"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/shopspring/decimal"
)

func TestAllocateMonthlySpend(t *testing.T) {
	goals := model.RetirementGoals{
		MonthlySpend: dec(5000),
		Allocation: model.Allocation{
			Mortgage:               30,
			Cars:                   10,
			HealthCare:             15,
			FoodAndDrinks:          20,
			TravelAndEntertainment: 15,
			ReinvestedFunds:        10,
		},
	}

	a := AllocateMonthlySpend(goals)

	checks := map[string]struct {
		got      decimal.Decimal
		expected int64
	}{
		"mortgage":   {a.Mortgage, 1500},
		"cars":       {a.Cars, 500},
		"healthCare": {a.HealthCare, 750},
		"food":       {a.FoodAndDrinks, 1000},
		"travel":     {a.TravelAndEntertainment, 750},
		"reinvested": {a.ReinvestedFunds, 500},
	}
	for name, c := range checks {
		if !c.got.Equal(dec(c.expected)) {
			t.Errorf("%s = %s, expected %d", name, c.got, c.expected)
		}
	}
	if !a.Balanced() {
		t.Errorf("expected balanced allocation, total %v", a.PercentTotal)
	}
}

func TestAllocateMonthlySpendUnbalanced(t *testing.T) {
	goals := model.RetirementGoals{
		MonthlySpend: decimal.RequireFromString("1234.56"),
		Allocation:   model.Allocation{Mortgage: 33.3, Cars: 33.3},
	}

	a := AllocateMonthlySpend(goals)

	if a.Balanced() {
		t.Errorf("expected unbalanced allocation, total %v", a.PercentTotal)
	}
	if !a.Mortgage.Equal(decimal.RequireFromString("411.11")) {
		t.Errorf("Mortgage = %s, expected 411.11", a.Mortgage)
	}
}
