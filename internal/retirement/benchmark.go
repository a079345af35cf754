package retirement

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Bracket is an inclusive age range with its average net worth. MaxAge 0
// leaves the bracket open-ended.
type Bracket struct {
	MinAge  int             `json:"minAge" mapstructure:"minAge" yaml:"minAge"`
	MaxAge  int             `json:"maxAge" mapstructure:"maxAge" yaml:"maxAge"`
	Average decimal.Decimal `json:"average" mapstructure:"average" yaml:"average"`
}

// Contains reports whether age falls in the bracket.
func (b Bracket) Contains(age int) bool {
	return age >= b.MinAge && (b.MaxAge == 0 || age <= b.MaxAge)
}

// Label renders the bracket as "30-39" or "70+".
func (b Bracket) Label() string {
	if b.MaxAge == 0 {
		return fmt.Sprintf("%d+", b.MinAge)
	}
	return fmt.Sprintf("%d-%d", b.MinAge, b.MaxAge)
}

// BenchmarkTable is an ordered set of peer net-worth brackets.
type BenchmarkTable struct {
	brackets []Bracket
}

// NewBenchmarkTable orders brackets by minimum age and rejects overlapping or
// inverted ranges.
func NewBenchmarkTable(brackets []Bracket) (BenchmarkTable, error) {
	sorted := append([]Bracket(nil), brackets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinAge < sorted[j].MinAge })

	for i, b := range sorted {
		if b.MinAge < 0 {
			return BenchmarkTable{}, fmt.Errorf("bracket %s: negative minimum age", b.Label())
		}
		if b.MaxAge != 0 && b.MaxAge < b.MinAge {
			return BenchmarkTable{}, fmt.Errorf("bracket %s: maximum age below minimum", b.Label())
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MaxAge == 0 || prev.MaxAge >= b.MinAge {
			return BenchmarkTable{}, fmt.Errorf("bracket %s overlaps %s", b.Label(), prev.Label())
		}
	}
	return BenchmarkTable{brackets: sorted}, nil
}

// DefaultBenchmarks returns the built-in peer net-worth table.
func DefaultBenchmarks() BenchmarkTable {
	return BenchmarkTable{brackets: []Bracket{
		{MinAge: 18, MaxAge: 29, Average: decimal.NewFromInt(281550)},
		{MinAge: 30, MaxAge: 39, Average: decimal.NewFromInt(711400)},
		{MinAge: 40, MaxAge: 49, Average: decimal.NewFromInt(1304600)},
		{MinAge: 50, MaxAge: 59, Average: decimal.NewFromInt(1740600)},
		{MinAge: 60, MaxAge: 69, Average: decimal.NewFromInt(2138900)},
		{MinAge: 70, Average: decimal.NewFromInt(2312300)},
	}}
}

// Brackets returns a copy of the table's brackets.
func (t BenchmarkTable) Brackets() []Bracket {
	return append([]Bracket(nil), t.brackets...)
}

// PeerComparison pairs a user's net worth with the average for their age.
type PeerComparison struct {
	UserNetWorth    decimal.Decimal `json:"userNetWorth"`
	AgeGroupAverage decimal.Decimal `json:"ageGroupAverage"`
	Bracket         string          `json:"bracket,omitempty"`
}

// Compare looks up userAge. An age outside every bracket compares against 0.
func (t BenchmarkTable) Compare(userNetWorth decimal.Decimal, userAge int) PeerComparison {
	c := PeerComparison{UserNetWorth: userNetWorth, AgeGroupAverage: decimal.Zero}
	for _, b := range t.brackets {
		if b.Contains(userAge) {
			c.AgeGroupAverage = b.Average
			c.Bracket = b.Label()
			break
		}
	}
	return c
}
