// Package output renders property metrics and retirement projections as
// pretty tables or CSV.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/property"
	"github.com/iwvelando/finance-dashboard/internal/retirement"
	"github.com/iwvelando/finance-dashboard/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PropertyReport pairs a property with its computed metrics.
type PropertyReport struct {
	Property model.Property
	Metrics  property.Metrics
}

// ProjectionReport is everything the project command prints.
type ProjectionReport struct {
	Projections []retirement.Projection
	Evaluation  retirement.Evaluation
	Allocation  retirement.MonthlyAllocation
	Warnings    []string
}

// PrettyProperties outputs a human-readable table of property metrics
// followed by the portfolio summary.
func PrettyProperties(w io.Writer, reports []PropertyReport, summary property.Summary) {
	p := message.NewPrinter(language.English)
	for _, r := range reports {
		m := r.Metrics
		_, _ = p.Fprintf(w, "--- %s (%s) ---\n", r.Property.Name, r.Property.PropertyType)
		_, _ = p.Fprintf(w, "Value              | %s\n", format.Decimal(r.Property.Value))
		_, _ = p.Fprintf(w, "Appreciation       | %s\n", format.Percent(m.Appreciation))
		_, _ = p.Fprintf(w, "Gross Rent         | %s\n", format.Decimal(m.AnnualGrossRent))
		_, _ = p.Fprintf(w, "Operating Expenses | %s\n", format.Decimal(m.AnnualOperatingExpenses))
		_, _ = p.Fprintf(w, "NOI                | %s\n", format.Decimal(m.NOI))
		_, _ = p.Fprintf(w, "Cap Rate           | %s\n", format.Percent(m.CapRate))
		_, _ = p.Fprintf(w, "Debt Service       | %s/mo, %s/yr\n", format.Decimal(m.MonthlyDebtService), format.Decimal(m.AnnualDebtService))
		_, _ = p.Fprintf(w, "Cash Flow          | %s\n", format.Decimal(m.CashFlow))
		_, _ = p.Fprintf(w, "Cash-on-Cash       | %s\n\n", format.Percent(m.CoCReturn))
	}
	_, _ = p.Fprintf(w, "--- Portfolio: %d properties, %d rentals ---\n", summary.Properties, summary.Rentals)
	_, _ = p.Fprintf(w, "Total NOI          | %s\n", format.Decimal(summary.TotalNOI))
	_, _ = p.Fprintf(w, "Average Cap Rate   | %s\n", format.Percent(summary.AverageCapRate))
	_, _ = p.Fprintf(w, "Average CoC Return | %s\n", format.Percent(summary.AverageCoCReturn))
}

// CsvProperties outputs one row of metrics per property.
func CsvProperties(w io.Writer, reports []PropertyReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"name", "type", "value", "appreciation", "annual gross rent", "annual operating expenses",
		"noi", "cap rate", "monthly debt service", "annual debt service", "cash flow", "coc return",
	}); err != nil {
		return err
	}
	for _, r := range reports {
		m := r.Metrics
		if err := cw.Write([]string{
			r.Property.Name,
			string(r.Property.PropertyType),
			r.Property.Value.StringFixed(2),
			ratio(m.Appreciation),
			m.AnnualGrossRent.StringFixed(2),
			m.AnnualOperatingExpenses.StringFixed(2),
			m.NOI.StringFixed(2),
			ratio(m.CapRate),
			m.MonthlyDebtService.StringFixed(2),
			m.AnnualDebtService.StringFixed(2),
			m.CashFlow.StringFixed(2),
			ratio(m.CoCReturn),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrettyProjection outputs one column per growth rate, then the goal
// evaluation and spending allocation.
func PrettyProjection(w io.Writer, report ProjectionReport) {
	p := message.NewPrinter(language.English)

	_, _ = p.Fprintf(w, "Age ")
	for _, proj := range report.Projections {
		_, _ = p.Fprintf(w, "| %16s ", format.Percent(proj.Rate))
	}
	_, _ = p.Fprintf(w, "\n")
	for i, age := range projectionAges(report.Projections) {
		_, _ = p.Fprintf(w, "%3d ", age)
		for _, proj := range report.Projections {
			_, _ = p.Fprintf(w, "| %16s ", format.Decimal(proj.Data[i].Value))
		}
		_, _ = p.Fprintf(w, "\n")
	}

	e := report.Evaluation
	_, _ = p.Fprintf(w, "\nRequired Savings    | %s\n", format.Decimal(e.RequiredSavings))
	_, _ = p.Fprintf(w, "Total at Retirement | %s\n", format.Decimal(e.TotalAtRetirement))
	_, _ = p.Fprintf(w, "Intersection Age    | %s\n", e.IntersectionAge)
	if e.GoalMet {
		_, _ = p.Fprintf(w, "Goal                | met\n")
	} else {
		_, _ = p.Fprintf(w, "Goal                | short by %s\n", format.Decimal(e.Shortfall))
	}

	a := report.Allocation
	_, _ = p.Fprintf(w, "\nMonthly Allocation\n")
	_, _ = p.Fprintf(w, "Mortgage            | %s\n", format.Decimal(a.Mortgage))
	_, _ = p.Fprintf(w, "Cars                | %s\n", format.Decimal(a.Cars))
	_, _ = p.Fprintf(w, "Health Care         | %s\n", format.Decimal(a.HealthCare))
	_, _ = p.Fprintf(w, "Food and Drinks     | %s\n", format.Decimal(a.FoodAndDrinks))
	_, _ = p.Fprintf(w, "Travel and Leisure  | %s\n", format.Decimal(a.TravelAndEntertainment))
	_, _ = p.Fprintf(w, "Reinvested Funds    | %s\n", format.Decimal(a.ReinvestedFunds))

	for _, warning := range report.Warnings {
		_, _ = p.Fprintf(w, "warning: %s\n", warning)
	}
}

// CsvProjection outputs one row per age with a value column per growth rate.
func CsvProjection(w io.Writer, projections []retirement.Projection) error {
	cw := csv.NewWriter(w)
	header := []string{"age"}
	for _, proj := range projections {
		header = append(header, fmt.Sprintf("value (%s)", format.Percent(proj.Rate)))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, age := range projectionAges(projections) {
		row := []string{strconv.Itoa(age)}
		for _, proj := range projections {
			row = append(row, proj.Data[i].Value.StringFixed(2))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// projectionAges returns the ages of the first projection. All projections
// of the same goals share a timeline.
func projectionAges(projections []retirement.Projection) []int {
	if len(projections) == 0 {
		return nil
	}
	ages := make([]int, 0, len(projections[0].Data))
	for _, point := range projections[0].Data {
		ages = append(ages, point.Year)
	}
	return ages
}

func ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
