package datetime

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// YearMonth identifies a calendar month. The zero value is invalid.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a "YYYY-MM" key.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseYearMonth is ParseYearMonth for known-good literals.
func MustParseYearMonth(s string) YearMonth {
	ym, err := ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return ym
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// FirstDay returns midnight UTC on the first day of the month.
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether ym is the zero value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalText implements encoding.TextMarshaler, which also makes YearMonth
// usable as a JSON object key.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ym *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// Value implements driver.Valuer.
func (ym YearMonth) Value() (driver.Value, error) {
	return ym.String(), nil
}

// Scan implements sql.Scanner.
func (ym *YearMonth) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return ym.UnmarshalText([]byte(v))
	case []byte:
		return ym.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into YearMonth", src)
	}
}
