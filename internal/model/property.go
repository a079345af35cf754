// Package model defines the records exchanged between storage, the HTTP layer
// and the calculation engines.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyType selects which income rules apply to a property.
type PropertyType string

// Supported property types.
const (
	PrimaryResidence PropertyType = "Primary Residence"
	LongTermRental   PropertyType = "Long-Term Rental"
	ShortTermRental  PropertyType = "Short-Term Rental"
)

// IsRental reports whether the type models rental income.
func (t PropertyType) IsRental() bool {
	return t == LongTermRental || t == ShortTermRental
}

// ExpenseCategory is a lower-cased expense classification.
type ExpenseCategory string

// Known expense categories. CategoryMortgage is debt service; every other
// category is an operating expense.
const (
	CategoryMortgage    ExpenseCategory = "mortgage"
	CategoryInsurance   ExpenseCategory = "insurance"
	CategoryTaxes       ExpenseCategory = "taxes"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryRepairs     ExpenseCategory = "repairs"
	CategoryUtilities   ExpenseCategory = "utilities"
	CategoryManagement  ExpenseCategory = "management"
	CategoryHOA         ExpenseCategory = "hoa"
	CategoryOther       ExpenseCategory = "other"
)

// NormalizeCategory trims and lower-cases a category.
func NormalizeCategory(c ExpenseCategory) ExpenseCategory {
	return ExpenseCategory(strings.ToLower(strings.TrimSpace(string(c))))
}

// Expense is a single property expense.
type Expense struct {
	Category ExpenseCategory `json:"category" yaml:"category" validate:"required,oneof=mortgage insurance taxes maintenance repairs utilities management hoa other"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount" validate:"gte=0"`
	Date     time.Time       `json:"date" yaml:"date" validate:"required"`
}

// IncomeEntry is a short-term rental payout.
type IncomeEntry struct {
	Date   time.Time       `json:"date" yaml:"date" validate:"required"`
	Amount decimal.Decimal `json:"amount" yaml:"amount" validate:"gte=0"`
	Notes  string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Property is a stored real-estate record.
type Property struct {
	ID              uuid.UUID       `json:"id" yaml:"id,omitempty"`
	UserID          uuid.UUID       `json:"userId" yaml:"userId,omitempty"`
	Name            string          `json:"name" yaml:"name" validate:"required,max=200"`
	Address         string          `json:"address,omitempty" yaml:"address,omitempty" validate:"max=500"`
	Value           decimal.Decimal `json:"value" yaml:"value" validate:"gte=0"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice" yaml:"purchasePrice" validate:"gte=0"`
	PropertyType    PropertyType    `json:"propertyType" yaml:"propertyType" validate:"required,oneof='Primary Residence' 'Long-Term Rental' 'Short-Term Rental'"`
	RentCollected   RentLedger      `json:"rentCollected" yaml:"rentCollected" validate:"dive"`
	ShortTermIncome []IncomeEntry   `json:"shortTermIncome" yaml:"shortTermIncome" validate:"dive"`
	Expenses        []Expense       `json:"expenses" yaml:"expenses" validate:"dive"`
	CreatedAt       time.Time       `json:"createdAt" yaml:"-"`
	UpdatedAt       time.Time       `json:"updatedAt" yaml:"-"`
}

// NormalizeCategories lower-cases every expense category in place.
func (p *Property) NormalizeCategories() {
	for i := range p.Expenses {
		p.Expenses[i].Category = NormalizeCategory(p.Expenses[i].Category)
	}
}
