// Package property computes investment metrics for real-estate records.
//
// Every function here is pure: the trailing-twelve-month window is anchored
// at an explicit asOf time and numeric degeneracies (no purchase price, no
// income, zero value) resolve to zero rather than to an error.
package property

import (
	"time"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Metrics holds the derived investment figures for one property.
type Metrics struct {
	Appreciation            float64         `json:"appreciation"`
	AnnualGrossRent         decimal.Decimal `json:"annualGrossRent"`
	AnnualOperatingExpenses decimal.Decimal `json:"annualOperatingExpenses"`
	NOI                     decimal.Decimal `json:"noi"`
	CapRate                 float64         `json:"capRate"`
	MonthlyDebtService      decimal.Decimal `json:"monthlyDebtService"`
	AnnualDebtService       decimal.Decimal `json:"annualDebtService"`
	CashFlow                decimal.Decimal `json:"cashFlow"`
	CoCReturn               float64         `json:"cocReturn"`
}

// ComputeMetrics derives the metrics for p over the twelve months ending at asOf.
func ComputeMetrics(p model.Property, asOf time.Time) Metrics {
	m := Metrics{
		Appreciation: Appreciation(p.Value, p.PurchasePrice),
	}

	if !p.PropertyType.IsRental() {
		return m
	}

	window := datetime.TrailingYear(asOf)
	m.AnnualGrossRent = AnnualGrossRent(p, window)
	if !m.AnnualGrossRent.IsPositive() {
		return m
	}

	m.AnnualOperatingExpenses = AnnualOperatingExpenses(p.Expenses, window)
	m.NOI = m.AnnualGrossRent.Sub(m.AnnualOperatingExpenses)
	m.CapRate = mathutil.Ratio(m.NOI, p.Value)
	m.MonthlyDebtService = MonthlyDebtService(p.Expenses)
	m.AnnualDebtService = m.MonthlyDebtService.Mul(decimal.NewFromInt(constants.MonthsPerYear))
	m.CashFlow = m.NOI.Sub(m.AnnualDebtService)
	m.CoCReturn = mathutil.Ratio(m.CashFlow, p.PurchasePrice)
	return m
}

// Appreciation is the fractional gain of value over purchase price, or 0
// without a purchase price.
func Appreciation(value, purchasePrice decimal.Decimal) float64 {
	return mathutil.Ratio(value.Sub(purchasePrice), purchasePrice)
}

// AnnualGrossRent sums the income inside window according to the property
// type. Long-term rent counts only when collected.
func AnnualGrossRent(p model.Property, window datetime.Window) decimal.Decimal {
	var amounts []decimal.Decimal
	switch p.PropertyType {
	case model.LongTermRental:
		for _, entry := range p.RentCollected {
			if entry.Collected && window.ContainsMonth(entry.Month) {
				amounts = append(amounts, entry.Amount)
			}
		}
	case model.ShortTermRental:
		for _, income := range p.ShortTermIncome {
			if window.Contains(income.Date) {
				amounts = append(amounts, income.Amount)
			}
		}
	}
	return mathutil.Sum(amounts...)
}

// AnnualOperatingExpenses sums the non-mortgage expenses inside window.
func AnnualOperatingExpenses(expenses []model.Expense, window datetime.Window) decimal.Decimal {
	var amounts []decimal.Decimal
	for _, e := range expenses {
		if e.Category != model.CategoryMortgage && window.Contains(e.Date) {
			amounts = append(amounts, e.Amount)
		}
	}
	return mathutil.Sum(amounts...)
}

// MonthlyDebtService is the amount of the latest positive mortgage expense.
// On a date tie the later entry in the slice wins.
func MonthlyDebtService(expenses []model.Expense) decimal.Decimal {
	var latest *model.Expense
	for i := range expenses {
		e := &expenses[i]
		if e.Category != model.CategoryMortgage || !e.Amount.IsPositive() {
			continue
		}
		if latest == nil || !e.Date.Before(latest.Date) {
			latest = e
		}
	}
	if latest == nil {
		return decimal.Zero
	}
	return latest.Amount
}
