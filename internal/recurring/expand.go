package recurring

import (
	"slices"
	"time"
)

// Expand enumerates the calendar dates a pattern denotes as ascending,
// duplicate-free ISO dates. Single-date patterns and patterns without
// parameters expand to an empty list.
//
// Recurring patterns walk MonthStart..MonthEnd. Weekday matching is tried first;
// day numbers are used only when weekday matching yields nothing.
func Expand(p Pattern) []string {
	switch {
	case p.Kind == KindExplicitDays:
		return expandExplicit(p.MonthStart, p.Days)
	case p.Kind.Recurring():
		return expandWindow(p)
	default:
		return []string{}
	}
}

// ExpandExplicitDays expands day numbers inside the month of baseDate, for events
// that happen on several discrete days without recurring. Returns an empty list
// when baseDate is not an ISO date.
func ExpandExplicitDays(baseDate string, days []int) []string {
	base, ok := ParseDate(baseDate)
	if !ok {
		return []string{}
	}
	return expandExplicit(YearMonthOf(base), uniqueDays(days))
}

func expandExplicit(month YearMonth, days []int) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if date, ok := month.Date(d); ok {
			out = append(out, date)
		}
	}
	return sortedUnique(out)
}

func expandWindow(p Pattern) []string {
	if p.MonthStart.IsZero() || p.MonthEnd.Before(p.MonthStart) {
		return []string{}
	}
	start, end := p.MonthStart.FirstDay(), p.MonthEnd.LastDay()

	var found []time.Time
	if len(p.Weekdays) > 0 {
		found = WeekdayCalculator{Weekdays: p.Weekdays}.OccurrencesBetween(start, end)
	}
	if len(found) == 0 && len(p.Days) > 0 {
		found = MonthDayCalculator{Days: p.Days}.OccurrencesBetween(start, end)
	}

	out := make([]string, 0, len(found))
	for _, t := range found {
		out = append(out, t.Format(DateLayout))
	}
	return sortedUnique(out)
}

// sortedUnique sorts ISO dates, which order correctly as strings, and drops repeats.
func sortedUnique(dates []string) []string {
	slices.Sort(dates)
	return slices.Compact(dates)
}
