package types

import (
	"fmt"
	"time"
)

// Month is a month in a specific year.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a date lies.
func MonthOf(d Date) Month {
	year, month, _ := time.Time(d).Date()
	return NewMonth(year, month)
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, err
	}

	return NewMonth(t.Year(), t.Month()), nil
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// UnmarshalParam implements gin's binding.BindUnmarshaler so that months can
// be used in query strings.
func (m *Month) UnmarshalParam(p string) error {
	if p == "" {
		*m = Month{}
		return nil
	}

	month, err := ParseMonth(p)
	if err != nil {
		return err
	}

	*m = month
	return nil
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// First returns the first day of the month.
func (m Month) First() Date {
	return Date(m)
}

// Last returns the last day of the month.
func (m Month) Last() Date {
	return Date(time.Time(m).AddDate(0, 1, -1))
}

// Contains reports whether the date is in the month.
func (m Month) Contains(d Date) bool {
	return MonthOf(d) == m
}
