package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RentEntry records the rent due for one month and whether it was collected.
type RentEntry struct {
	Month     datetime.YearMonth `json:"-" yaml:"-"`
	Amount    decimal.Decimal    `json:"amount" yaml:"amount" validate:"gte=0"`
	Collected bool               `json:"collected" yaml:"collected"`
}

// RentLedger is a month-ordered rent history. On the wire it is an object
// keyed by "YYYY-MM".
type RentLedger []RentEntry

type rentValue struct {
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Collected bool            `json:"collected" yaml:"collected"`
}

// NewRentLedger builds a ledger from entries, keeping the last entry for a
// repeated month.
func NewRentLedger(entries ...RentEntry) RentLedger {
	byMonth := make(map[datetime.YearMonth]RentEntry, len(entries))
	for _, e := range entries {
		byMonth[e.Month] = e
	}
	ledger := make(RentLedger, 0, len(byMonth))
	for _, e := range byMonth {
		ledger = append(ledger, e)
	}
	sort.Slice(ledger, func(i, j int) bool {
		return ledger[i].Month.Before(ledger[j].Month)
	})
	return ledger
}

// Get returns the entry for month, if any.
func (l RentLedger) Get(month datetime.YearMonth) (RentEntry, bool) {
	for _, e := range l {
		if e.Month == month {
			return e, true
		}
	}
	return RentEntry{}, false
}

func fromMonthMap(raw map[string]rentValue) (RentLedger, error) {
	entries := make([]RentEntry, 0, len(raw))
	for key, v := range raw {
		month, err := datetime.ParseYearMonth(key)
		if err != nil {
			return nil, fmt.Errorf("rentCollected: %w", err)
		}
		entries = append(entries, RentEntry{Month: month, Amount: v.Amount, Collected: v.Collected})
	}
	return NewRentLedger(entries...), nil
}

// MarshalJSON writes the ledger as an object in month order.
func (l RentLedger) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Month.String())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(rentValue{Amount: e.Amount, Collected: e.Collected})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by "YYYY-MM", rejecting malformed keys.
func (l *RentLedger) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	var raw map[string]rentValue
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ledger, err := fromMonthMap(raw)
	if err != nil {
		return err
	}
	*l = ledger
	return nil
}

// UnmarshalYAML reads a mapping keyed by "YYYY-MM".
func (l *RentLedger) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]rentValue
	if err := node.Decode(&raw); err != nil {
		return err
	}
	ledger, err := fromMonthMap(raw)
	if err != nil {
		return err
	}
	*l = ledger
	return nil
}

// MarshalYAML writes the ledger as a mapping in month order.
func (l RentLedger) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, e := range l {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: e.Month.String(),
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(map[string]interface{}{
			"amount":    e.Amount.String(),
			"collected": e.Collected,
		}); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}
