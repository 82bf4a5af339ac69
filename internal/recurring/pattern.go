package recurring

import (
	"encoding/json"
	"time"
)

// Kind classifies how an event's dates are laid out on the calendar.
type Kind string

const (
	// KindNone is a single fixed date.
	KindNone Kind = "NONE"
	// KindExplicitDays is a set of non-consecutive days inside one month ("13 y 14").
	KindExplicitDays Kind = "EXPLICIT_DAYS"
	// KindWeekdayRecurring repeats on one or more weekdays ("todos los viernes").
	KindWeekdayRecurring Kind = "WEEKDAY_RECURRING"
	// KindContinuousRange is an unbroken run of days inside one month ("del 12 al 18").
	KindContinuousRange Kind = "CONTINUOUS_RANGE"
	// KindMonthly repeats every month of a window, by weekday or by day number.
	KindMonthly Kind = "MONTHLY"
	// KindSeasonal is a tour or season spanning several months.
	KindSeasonal Kind = "SEASONAL"
)

// Recurring reports whether the kind produces dates from a month window.
func (k Kind) Recurring() bool {
	switch k {
	case KindWeekdayRecurring, KindContinuousRange, KindMonthly, KindSeasonal:
		return true
	default:
		return false
	}
}

// Pattern is a normalized recurrence description. Which fields are meaningful
// depends on Kind:
//
//   - KindNone: PrimaryDate only.
//   - KindExplicitDays: Days inside MonthStart (MonthStart == MonthEnd).
//   - KindWeekdayRecurring, KindSeasonal: Weekdays across MonthStart..MonthEnd.
//   - KindContinuousRange: Days (a contiguous run) inside MonthStart.
//   - KindMonthly: Weekdays or Days across MonthStart..MonthEnd.
//
// Weekdays and Days are sorted and duplicate free. A recurring pattern may carry
// both when the classifier left fields from another branch; expansion then
// prefers Weekdays.
type Pattern struct {
	Kind        Kind
	PrimaryDate string
	Weekdays    []time.Weekday
	Days        []int
	MonthStart  YearMonth
	MonthEnd    YearMonth
}

// Empty reports whether the pattern has nothing to expand.
func (p Pattern) Empty() bool {
	return len(p.Weekdays) == 0 && len(p.Days) == 0
}

// StartDay and EndDay describe a continuous range. Both return 0 for other kinds.
func (p Pattern) StartDay() int {
	if p.Kind != KindContinuousRange || len(p.Days) == 0 {
		return 0
	}
	return p.Days[0]
}

func (p Pattern) EndDay() int {
	if p.Kind != KindContinuousRange || len(p.Days) == 0 {
		return 0
	}
	return p.Days[len(p.Days)-1]
}

// MarshalJSON renders the pattern for storage alongside an analysis.
func (p Pattern) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind        Kind     `json:"kind"`
		PrimaryDate string   `json:"primary_date,omitempty"`
		Weekdays    []string `json:"weekdays,omitempty"`
		Days        []int    `json:"days,omitempty"`
		MonthStart  string   `json:"month_start,omitempty"`
		MonthEnd    string   `json:"month_end,omitempty"`
	}

	w := wire{Kind: p.Kind, PrimaryDate: p.PrimaryDate, Days: p.Days}
	for _, wd := range p.Weekdays {
		w.Weekdays = append(w.Weekdays, wd.String())
	}
	if !p.MonthStart.IsZero() {
		w.MonthStart = p.MonthStart.String()
	}
	if !p.MonthEnd.IsZero() {
		w.MonthEnd = p.MonthEnd.String()
	}
	return json.Marshal(w)
}
