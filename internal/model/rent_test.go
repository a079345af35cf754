package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

func TestRentLedgerJSONIsMonthOrdered(t *testing.T) {
	input := `{"2024-06": {"amount": "1500", "collected": false}, "2023-12": {"amount": 1200, "collected": true}}`

	var ledger RentLedger
	if err := json.Unmarshal([]byte(input), &ledger); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ledger))
	}
	if ledger[0].Month.String() != "2023-12" || ledger[1].Month.String() != "2024-06" {
		t.Errorf("entries not ordered by month: %v, %v", ledger[0].Month, ledger[1].Month)
	}
	if !ledger[0].Amount.Equal(decimal.NewFromInt(1200)) || !ledger[0].Collected {
		t.Errorf("unexpected first entry %+v", ledger[0])
	}

	out, err := json.Marshal(ledger)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	expected := `{"2023-12":{"amount":"1200","collected":true},"2024-06":{"amount":"1500","collected":false}}`
	if string(out) != expected {
		t.Errorf("Marshal = %s, expected %s", out, expected)
	}
}

func TestRentLedgerRejectsMalformedMonth(t *testing.T) {
	var ledger RentLedger
	err := json.Unmarshal([]byte(`{"June 2024": {"amount": 10, "collected": true}}`), &ledger)
	if err == nil {
		t.Fatal("expected malformed month key to be rejected")
	}
	if !strings.Contains(err.Error(), "rentCollected") {
		t.Errorf("expected error to name the field, got %v", err)
	}
}

func TestRentLedgerNullAndEmpty(t *testing.T) {
	var ledger RentLedger
	if err := json.Unmarshal([]byte(`null`), &ledger); err != nil {
		t.Fatalf("null: %v", err)
	}
	if ledger != nil {
		t.Errorf("expected nil ledger, got %v", ledger)
	}

	out, err := json.Marshal(RentLedger(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "{}" {
		t.Errorf("empty ledger should marshal to {}, got %s", out)
	}
}

func TestNewRentLedgerKeepsLastEntryForMonth(t *testing.T) {
	june := datetime.MustParseYearMonth("2024-06")
	may := datetime.MustParseYearMonth("2024-05")
	ledger := NewRentLedger(
		RentEntry{Month: june, Amount: decimal.NewFromInt(1000)},
		RentEntry{Month: may, Amount: decimal.NewFromInt(900), Collected: true},
		RentEntry{Month: june, Amount: decimal.NewFromInt(1100), Collected: true},
	)
	if len(ledger) != 2 || ledger[0].Month != may {
		t.Fatalf("unexpected ledger %+v", ledger)
	}
	entry, ok := ledger.Get(june)
	if !ok || !entry.Collected || !entry.Amount.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestPropertyFromYAML(t *testing.T) {
	doc := `
name: Duplex
value: 250000
purchasePrice: 200000
propertyType: Long-Term Rental
rentCollected:
  "2024-06":
    amount: 1200
    collected: true
expenses:
  - category: Insurance
    amount: 1500.50
    date: 2024-06-15
`
	var p Property
	if err := yaml.Unmarshal([]byte(doc), &p); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if p.PropertyType != LongTermRental {
		t.Errorf("PropertyType = %q", p.PropertyType)
	}
	if !p.Value.Equal(decimal.NewFromInt(250000)) {
		t.Errorf("Value = %s", p.Value)
	}
	entry, ok := p.RentCollected.Get(datetime.MustParseYearMonth("2024-06"))
	if !ok || !entry.Collected {
		t.Errorf("rent entry not decoded: %+v", p.RentCollected)
	}
	if len(p.Expenses) != 1 || p.Expenses[0].Date.Format(datetime.DateLayout) != "2024-06-15" {
		t.Fatalf("expenses not decoded: %+v", p.Expenses)
	}

	p.NormalizeCategories()
	if p.Expenses[0].Category != CategoryInsurance {
		t.Errorf("category not normalized: %q", p.Expenses[0].Category)
	}

	out, err := yaml.Marshal(p.RentCollected)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	if !strings.HasPrefix(string(out), "\"2024-06\":") && !strings.HasPrefix(string(out), "2024-06:") {
		t.Errorf("unexpected yaml ledger %q", out)
	}
}

func TestPropertyTypeIsRental(t *testing.T) {
	tests := []struct {
		pt       PropertyType
		expected bool
	}{
		{LongTermRental, true},
		{ShortTermRental, true},
		{PrimaryResidence, false},
		{PropertyType("Vacation Home"), false},
	}
	for _, tt := range tests {
		if got := tt.pt.IsRental(); got != tt.expected {
			t.Errorf("%q.IsRental() = %v, expected %v", tt.pt, got, tt.expected)
		}
	}
}
