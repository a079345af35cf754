// Package retirement projects net-worth growth and evaluates retirement goals.
package retirement

import (
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/shopspring/decimal"
)

// YearValue is the projected net worth at the end of the year the user turns Year.
type YearValue struct {
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
}

// Projection is the net-worth trajectory at a single annual growth rate.
type Projection struct {
	Rate float64     `json:"rate"`
	Data []YearValue `json:"data"`
}

// Final returns the last projected value, if any.
func (p Projection) Final() (decimal.Decimal, bool) {
	if len(p.Data) == 0 {
		return decimal.Zero, false
	}
	return p.Data[len(p.Data)-1].Value, true
}

// Project compounds goals.CurrentNetWorth yearly at each rate, adding
// goals.AnnualSavings after growth, until the retirement age. Empty rates
// fall back to constants.DefaultGrowthRates.
func Project(goals model.RetirementGoals, rates []float64) []Projection {
	if len(rates) == 0 {
		rates = constants.DefaultGrowthRates()
	}

	years := goals.RetirementAge - goals.CurrentAge
	projections := make([]Projection, 0, len(rates))
	for _, rate := range rates {
		projections = append(projections, Projection{
			Rate: rate,
			Data: compound(goals.CurrentNetWorth, goals.AnnualSavings, rate, goals.CurrentAge, years),
		})
	}
	return projections
}

func compound(start, savings decimal.Decimal, rate float64, startAge, years int) []YearValue {
	data := make([]YearValue, 0, max(years, 0))
	growth := decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate))
	value := start
	for i := 1; i <= years; i++ {
		value = value.Mul(growth).Add(savings)
		data = append(data, YearValue{Year: startAge + i, Value: value})
	}
	return data
}
