package datetime

import (
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

// Window is the half-open interval (Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingYear returns the twelve-month lookback window ending at asOf.
func TrailingYear(asOf time.Time) Window {
	return Window{
		Start: asOf.AddDate(-constants.TrailingWindowYears, 0, 0),
		End:   asOf,
	}
}

// Contains reports whether t lies after Start and no later than End.
func (w Window) Contains(t time.Time) bool {
	return t.After(w.Start) && !t.After(w.End)
}

// ContainsMonth reports whether the first day of ym, taken in End's
// location, lies inside the window.
func (w Window) ContainsMonth(ym YearMonth) bool {
	return w.Contains(time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, w.End.Location()))
}
