package recurring

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for every expanded date.
const DateLayout = "2006-01-02"

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the month containing t, read in t's location.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// MinYear is the earliest year ParseYearMonth accepts.
const MinYear = 1900

// ParseYearMonth parses "YYYY-MM". A trailing "-DD" is tolerated and ignored
// since classifiers sometimes return a full date where a month was asked for.
// Years before MinYear are rejected.
func ParseYearMonth(s string) (YearMonth, bool) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) < 2 || len(parts) > 3 || len(parts[0]) != 4 || !digits(parts[0]) || !digits(parts[1]) {
		return YearMonth{}, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < MinYear {
		return YearMonth{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return YearMonth{}, false
	}

	return YearMonth{Year: year, Month: time.Month(month)}, true
}

func digits(s string) bool {
	if s == "" || len(s) > 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsZero reports whether ym is the zero value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// String formats ym as "YYYY-MM".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Next returns the following month, rolling the year over after December.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// AddMonths returns ym shifted by n months (n may be negative).
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.Year*12 + int(ym.Month-1) + n
	return YearMonth{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// MonthsUntil counts the months from ym to other, inclusive of both ends.
// Returns 0 when other is before ym.
func (ym YearMonth) MonthsUntil(other YearMonth) int {
	n := (other.Year*12 + int(other.Month)) - (ym.Year*12 + int(ym.Month)) + 1
	return max(n, 0)
}

// DaysIn returns the number of days in the month, leap years included.
func (ym YearMonth) DaysIn() int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstDay returns midnight UTC on the first day of the month.
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns midnight UTC on the last day of the month.
func (ym YearMonth) LastDay() time.Time {
	return time.Date(ym.Year, ym.Month, ym.DaysIn(), 0, 0, 0, 0, time.UTC)
}

// Date returns the ISO date for day in ym, or false when the day does not exist in that month.
func (ym YearMonth) Date(day int) (string, bool) {
	if day < 1 || day > ym.DaysIn() {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", ym.Year, int(ym.Month), day), true
}

// ParseDate parses a strict ISO calendar date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
