package property

import (
	"time"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Summary aggregates metrics across a user's properties.
type Summary struct {
	TotalNOI         decimal.Decimal `json:"totalNOI"`
	AverageCapRate   float64         `json:"averageCapRate"`
	AverageCoCReturn float64         `json:"averageCoCReturn"`
	Properties       int             `json:"properties"`
	Rentals          int             `json:"rentals"`
}

// SummarizePortfolio computes every property's metrics at asOf and averages
// the cap rate and cash-on-cash return over the rental properties.
// Rentals without income still count towards the averages.
func SummarizePortfolio(properties []model.Property, asOf time.Time) Summary {
	s := Summary{TotalNOI: decimal.Zero, Properties: len(properties)}

	var capRates, cocReturns []float64
	for _, p := range properties {
		m := ComputeMetrics(p, asOf)
		s.TotalNOI = s.TotalNOI.Add(m.NOI)
		if !p.PropertyType.IsRental() {
			continue
		}
		capRates = append(capRates, m.CapRate)
		cocReturns = append(cocReturns, m.CoCReturn)
	}

	s.Rentals = len(capRates)
	s.AverageCapRate = mathutil.Mean(capRates)
	s.AverageCoCReturn = mathutil.Mean(cocReturns)
	return s
}
