package retirement

import (
	"testing"
)

func TestDefaultBenchmarksCompare(t *testing.T) {
	table := DefaultBenchmarks()

	tests := []struct {
		name     string
		age      int
		expected int64
		bracket  string
	}{
		{name: "Upper edge of first bracket", age: 29, expected: 281550, bracket: "18-29"},
		{name: "Lower edge of second bracket", age: 30, expected: 711400, bracket: "30-39"},
		{name: "Forties", age: 45, expected: 1304600, bracket: "40-49"},
		{name: "Open-ended", age: 95, expected: 2312300, bracket: "70+"},
		{name: "Too young", age: 17, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := table.Compare(dec(50000), tt.age)
			if !c.AgeGroupAverage.Equal(dec(tt.expected)) {
				t.Errorf("Compare(%d) average = %s, expected %d", tt.age, c.AgeGroupAverage, tt.expected)
			}
			if c.Bracket != tt.bracket {
				t.Errorf("Compare(%d) bracket = %q, expected %q", tt.age, c.Bracket, tt.bracket)
			}
			if !c.UserNetWorth.Equal(dec(50000)) {
				t.Errorf("UserNetWorth = %s, expected 50000", c.UserNetWorth)
			}
		})
	}
}

func TestNewBenchmarkTable(t *testing.T) {
	tests := []struct {
		name     string
		brackets []Bracket
		wantErr  bool
	}{
		{
			name:     "Unordered input is sorted",
			brackets: []Bracket{{MinAge: 40, Average: dec(3)}, {MinAge: 20, MaxAge: 39, Average: dec(2)}},
		},
		{
			name:     "Overlap",
			brackets: []Bracket{{MinAge: 20, MaxAge: 40}, {MinAge: 40, MaxAge: 50}},
			wantErr:  true,
		},
		{
			name:     "Open bracket before another",
			brackets: []Bracket{{MinAge: 20}, {MinAge: 40, MaxAge: 50}},
			wantErr:  true,
		},
		{
			name:     "Inverted",
			brackets: []Bracket{{MinAge: 50, MaxAge: 40}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewBenchmarkTable(tt.brackets)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			brackets := table.Brackets()
			if brackets[0].MinAge != 20 {
				t.Errorf("expected brackets sorted by minimum age, got %+v", brackets)
			}
			if c := table.Compare(dec(0), 41); !c.AgeGroupAverage.Equal(dec(3)) {
				t.Errorf("Compare(41) = %s, expected 3", c.AgeGroupAverage)
			}
		})
	}
}

func TestEmptyBenchmarkTable(t *testing.T) {
	var table BenchmarkTable
	if c := table.Compare(dec(100), 35); !c.AgeGroupAverage.IsZero() {
		t.Errorf("expected zero average from empty table, got %s", c.AgeGroupAverage)
	}
}
