package domain

import (
	"fmt"
	"time"
)

// Period identifies one calendar month, stored as YYYYMM (e.g. 202307).
// Integer ordering matches chronological ordering, which the derivation
// engine's prior-period lookup relies on.
type Period int

// ParsePeriod parses a YYYYMM token from a source file name.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("200601", s)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: expected YYYYMM: %w", s, err)
	}
	return Period(t.Year()*100 + int(t.Month())), nil
}

// String returns the YYYYMM form.
func (p Period) String() string {
	return fmt.Sprintf("%06d", int(p))
}

// Label returns the human-readable YYYY-MM form used in reports.
func (p Period) Label() string {
	return fmt.Sprintf("%04d-%02d", int(p)/100, int(p)%100)
}

// Time returns the first day of the month in UTC.
func (p Period) Time() time.Time {
	return time.Date(int(p)/100, time.Month(int(p)%100), 1, 0, 0, 0, 0, time.UTC)
}

// Valid reports whether the period encodes a real calendar month.
func (p Period) Valid() bool {
	m := int(p) % 100
	return int(p)/100 >= 1 && m >= 1 && m <= 12
}
