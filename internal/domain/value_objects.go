package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the ISO calendar date layout used for every stored date.
const DateLayout = "2006-01-02"

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if utf8.RuneCountInString(s) > 255 {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// ParseISODate validates s as a calendar date and returns its canonical form.
func ParseISODate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DateLayout), nil
}

// NormalizeDates validates every date and returns them sorted without duplicates.
func NormalizeDates(dates []string) ([]string, error) {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		iso, err := ParseISODate(d)
		if err != nil {
			return nil, err
		}
		out = append(out, iso)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// ValidateDays checks that every entry is a possible day of month.
func ValidateDays(days []int) error {
	for _, d := range days {
		if d < 1 || d > 31 {
			return fmt.Errorf("%w: %d", ErrInvalidDays, d)
		}
	}
	return nil
}
