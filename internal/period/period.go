package period

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Period identifies one reference month as "YYYY-MM".
type Period string

// monthAbbr holds the Portuguese month abbreviations used in statement
// column headers ("Jan/25").
var monthAbbr = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// Format returns the period for a year and month, like "2025-01".
func Format(year, month int) Period {
	return Period(fmt.Sprintf("%04d-%02d", year, month))
}

// FromTime returns the period containing t.
func FromTime(t time.Time) Period {
	return Format(t.Year(), int(t.Month()))
}

// Parse parses "2025-01" into a Period, validating both parts.
func Parse(s string) (Period, error) {
	year, month, err := split(s)
	if err != nil {
		return "", err
	}
	return Format(year, month), nil
}

// Year returns the period's year.
func (p Period) Year() int {
	year, _, _ := split(string(p))
	return year
}

// Month returns the period's month (1..12).
func (p Period) Month() int {
	_, month, _ := split(string(p))
	return month
}

// Header returns the statement column header for the period.
// "2025-01" -> "Jan/25"
func (p Period) Header() string {
	year, month, err := split(string(p))
	if err != nil {
		return string(p)
	}
	return fmt.Sprintf("%s/%02d", monthAbbr[month-1], year%100)
}

// Time returns midnight on the first day of the period.
func (p Period) Time() time.Time {
	year, month, err := split(string(p))
	if err != nil {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether p sorts before q. Periods compare correctly as
// strings because of the fixed-width formatting.
func (p Period) Before(q Period) bool {
	return string(p) < string(q)
}

func (p Period) String() string {
	return string(p)
}

func split(s string) (year, month int, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid period format: %q", s)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in period %q: %w", s, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in period %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in period %q", s)
	}

	return year, month, nil
}

// Sort orders periods ascending in place.
func Sort(periods []Period) {
	slices.Sort(periods)
}
