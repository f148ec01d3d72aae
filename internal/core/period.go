package core

import (
	"fmt"
	"time"
)

// Period is the (month, year) granularity of financial reports.
type Period struct {
	Month int `json:"month"` // 1-12
	Year  int `json:"year"`
}

// PeriodOf returns the calendar period containing t, in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Previous returns the period immediately before p, rolling January back to
// December of the previous year.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// Validate reports whether p names a real calendar month.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return Validationf("invalid month %d", p.Month)
	}
	if p.Year < 1 {
		return Validationf("invalid year %d", p.Year)
	}
	return nil
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Clock yields the current time. Services take a Clock so period selection is
// deterministic under test.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
