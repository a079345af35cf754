package retirement

import (
	"encoding/json"
	"strconv"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/shopspring/decimal"
)

// notApplicable is how a missing intersection age is rendered.
const notApplicable = "N/A"

// IntersectionAge is the first projected age at which the savings target is
// reached. The zero value means the target is never reached.
type IntersectionAge struct {
	Age   int
	Valid bool
}

// String returns the age or "N/A".
func (a IntersectionAge) String() string {
	if !a.Valid {
		return notApplicable
	}
	return strconv.Itoa(a.Age)
}

// MarshalJSON renders the age as a number, or "N/A" when unset.
func (a IntersectionAge) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal(notApplicable)
	}
	return json.Marshal(a.Age)
}

// UnmarshalJSON accepts a number or "N/A".
func (a *IntersectionAge) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == notApplicable {
			*a = IntersectionAge{}
			return nil
		}
		age, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*a = IntersectionAge{Age: age, Valid: true}
		return nil
	}
	var age int
	if err := json.Unmarshal(data, &age); err != nil {
		return err
	}
	*a = IntersectionAge{Age: age, Valid: true}
	return nil
}

// Evaluation is the outcome of checking a projection against the savings target.
type Evaluation struct {
	RequiredSavings   decimal.Decimal `json:"requiredSavings"`
	TotalAtRetirement decimal.Decimal `json:"totalAtRetirement"`
	IntersectionAge   IntersectionAge `json:"intersectionAge"`
	GoalMet           bool            `json:"goalMet"`
	Shortfall         decimal.Decimal `json:"shortfall"`
}

// RetirementYears is the number of years retirement savings must cover.
func RetirementYears(retirementAge int) int {
	return max(constants.MinimumRetirementYears, constants.LifeExpectancy-retirementAge)
}

// RequiredSavings is the nest egg needed to fund goals.MonthlySpend for the
// whole retirement.
func RequiredSavings(goals model.RetirementGoals) decimal.Decimal {
	return goals.MonthlySpend.
		Mul(decimal.NewFromInt(constants.MonthsPerYear)).
		Mul(decimal.NewFromInt(int64(RetirementYears(goals.RetirementAge))))
}

// ReferenceProjection returns the projection at constants.ReferenceGrowthRate,
// or the first projection when that rate was not projected.
func ReferenceProjection(projections []Projection) (Projection, bool) {
	for _, p := range projections {
		if p.Rate == constants.ReferenceGrowthRate {
			return p, true
		}
	}
	if len(projections) > 0 {
		return projections[0], true
	}
	return Projection{}, false
}

// EvaluateGoal checks the reference projection against the required savings.
func EvaluateGoal(projections []Projection, goals model.RetirementGoals) Evaluation {
	e := Evaluation{
		RequiredSavings:   RequiredSavings(goals),
		TotalAtRetirement: goals.CurrentNetWorth,
		Shortfall:         decimal.Zero,
	}

	reference, _ := ReferenceProjection(projections)
	if final, ok := reference.Final(); ok {
		e.TotalAtRetirement = final
	}

	for _, point := range reference.Data {
		if point.Value.GreaterThanOrEqual(e.RequiredSavings) {
			e.IntersectionAge = IntersectionAge{Age: point.Year, Valid: true}
			break
		}
	}

	e.GoalMet = e.IntersectionAge.Valid
	if !e.GoalMet {
		e.Shortfall = e.RequiredSavings.Sub(e.TotalAtRetirement)
	}
	return e
}
