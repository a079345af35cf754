package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation splits monthly retirement spend into percentage buckets. By
// convention the buckets sum to 100, but nothing depends on it.
type Allocation struct {
	Mortgage               float64 `json:"mortgage" yaml:"mortgage" validate:"gte=0,lte=100"`
	Cars                   float64 `json:"cars" yaml:"cars" validate:"gte=0,lte=100"`
	HealthCare             float64 `json:"healthCare" yaml:"healthCare" validate:"gte=0,lte=100"`
	FoodAndDrinks          float64 `json:"foodAndDrinks" yaml:"foodAndDrinks" validate:"gte=0,lte=100"`
	TravelAndEntertainment float64 `json:"travelAndEntertainment" yaml:"travelAndEntertainment" validate:"gte=0,lte=100"`
	ReinvestedFunds        float64 `json:"reinvestedFunds" yaml:"reinvestedFunds" validate:"gte=0,lte=100"`
}

// Total returns the sum of all buckets.
func (a Allocation) Total() float64 {
	return a.Mortgage + a.Cars + a.HealthCare + a.FoodAndDrinks + a.TravelAndEntertainment + a.ReinvestedFunds
}

// RetirementGoals are a user's retirement planning inputs.
type RetirementGoals struct {
	UserID          uuid.UUID       `json:"userId" yaml:"-"`
	CurrentAge      int             `json:"currentAge" yaml:"currentAge" validate:"gte=0,lte=120"`
	RetirementAge   int             `json:"retirementAge" yaml:"retirementAge" validate:"gte=0,lte=120"`
	MonthlySpend    decimal.Decimal `json:"monthlySpend" yaml:"monthlySpend" validate:"gte=0"`
	Allocation      `yaml:",inline"`
	CurrentNetWorth decimal.Decimal `json:"currentNetWorth" yaml:"currentNetWorth" validate:"gte=0"`
	AnnualSavings   decimal.Decimal `json:"annualSavings" yaml:"annualSavings" validate:"gte=0"`
	UpdatedAt       time.Time       `json:"updatedAt" yaml:"-"`
}
