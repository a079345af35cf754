// Package validation checks records at the input boundary, before they reach
// storage or the calculation engines.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Struct validates s against its validate tags. Failures are returned as an
// *apperr.ValidationError keyed by field path.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating %T: %w", s, err)
	}

	out := &apperr.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fieldPath(fe)] = message(fe)
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// Property lower-cases expense categories and validates the record.
func Property(p *model.Property) error {
	p.NormalizeCategories()
	return Struct(p)
}

// Goals validates retirement goals and returns non-fatal warnings about
// inputs that are legal but likely mistaken.
func Goals(g model.RetirementGoals) ([]string, error) {
	if err := Struct(g); err != nil {
		return nil, err
	}
	return GoalWarnings(g), nil
}

// GoalWarnings reports the goal inconsistencies that are accepted but worth
// surfacing to the user. It does not check field constraints, so it also
// applies to goals whose net worth came from a negative snapshot.
func GoalWarnings(g model.RetirementGoals) []string {
	var warnings []string
	if g.RetirementAge <= g.CurrentAge {
		warnings = append(warnings, fmt.Sprintf("retirement age %d is not after current age %d - projections will be empty",
			g.RetirementAge, g.CurrentAge))
	}
	if total := g.Allocation.Total(); !mathutil.WithinTolerance(total, 100, constants.AllocationTolerance) {
		warnings = append(warnings, fmt.Sprintf("allocation percentages sum to %g, expected 100", total))
	}
	return warnings
}

// Snapshot validates a manually entered net-worth snapshot.
func Snapshot(s model.NetWorthSnapshot) error {
	return Struct(s)
}
