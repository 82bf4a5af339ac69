package recurring

import (
	"slices"
	"strings"
)

// DefaultMaxWindowMonths bounds how many months a recurring pattern may span.
// Expansion cost is linear in the days of the window, so the window is always capped.
const DefaultMaxWindowMonths = 12

var (
	seasonalHints = []string{"temporada", "gira", "tour", "season"}
	monthlyHints  = []string{"mensual", "cada mes", "todos los meses", "monthly", "every month"}
)

// Normalizer turns classifier guesses into patterns.
// The zero value is ready to use.
type Normalizer struct {
	// MaxWindowMonths caps MonthStart..MonthEnd. Zero means DefaultMaxWindowMonths.
	MaxWindowMonths int
}

// Normalize classifies g with the default Normalizer.
func Normalize(g Guess, reference YearMonth) Pattern {
	return Normalizer{}.Normalize(g, reference)
}

// Normalize classifies g into a Pattern. Rules apply in order, first match wins:
//
//  1. not recurring with two or more day numbers: explicit days in the month of the
//     primary date (single date when the primary date is unusable).
//  2. not recurring: single date.
//  3. recurring with at least one recognized weekday: weekday based.
//  4. recurring with day numbers: day-of-month based.
//  5. anything else: a recurring pattern with nothing to expand.
//
// Missing month bounds default to reference. Normalize never fails; unusable
// input narrows to a single date or an empty pattern.
func (n Normalizer) Normalize(g Guess, reference YearMonth) Pattern {
	primary := normalizeDate(g.PrimaryDate)
	days := uniqueDays(g.SpecificDays)

	if !g.IsRecurring {
		if len(days) >= 2 {
			if p, ok := explicitDays(primary, days); ok {
				return p
			}
		}
		return Pattern{Kind: KindNone, PrimaryDate: primary}
	}

	start, end := n.window(g, reference)
	weekdays := ParseWeekdays(g.Weekdays)
	hint := lowerSpanish.String(g.PatternDescription)

	switch {
	case len(weekdays) > 0:
		kind := KindWeekdayRecurring
		switch {
		case containsAny(hint, seasonalHints):
			kind = KindSeasonal
		case containsAny(hint, monthlyHints):
			kind = KindMonthly
		}
		return Pattern{
			Kind:        kind,
			PrimaryDate: primary,
			Weekdays:    weekdays,
			Days:        days,
			MonthStart:  start,
			MonthEnd:    end,
		}

	case len(days) > 0:
		kind := KindMonthly
		if start == end && len(days) >= 2 && contiguous(days) {
			kind = KindContinuousRange
		}
		return Pattern{
			Kind:        kind,
			PrimaryDate: primary,
			Days:        days,
			MonthStart:  start,
			MonthEnd:    end,
		}

	default:
		return Pattern{
			Kind:        KindMonthly,
			PrimaryDate: primary,
			MonthStart:  start,
			MonthEnd:    end,
		}
	}
}

func (n Normalizer) maxWindow() int {
	if n.MaxWindowMonths <= 0 {
		return DefaultMaxWindowMonths
	}
	return n.MaxWindowMonths
}

// window resolves MonthStart..MonthEnd. An inverted window collapses to its start
// month, and an oversized one is cut to maxWindow months.
func (n Normalizer) window(g Guess, reference YearMonth) (YearMonth, YearMonth) {
	start, hasStart := ParseYearMonth(g.MonthStart)
	end, hasEnd := ParseYearMonth(g.MonthEnd)

	switch {
	case !hasStart && !hasEnd:
		start, end = reference, reference
	case !hasStart:
		start = reference
		if end.Before(start) {
			start = end
		}
	case !hasEnd:
		end = start
	}

	if end.Before(start) {
		end = start
	}
	if limit := n.maxWindow(); start.MonthsUntil(end) > limit {
		end = start.AddMonths(limit - 1)
	}
	return start, end
}

// explicitDays anchors days to the month of primary, dropping days that month lacks.
func explicitDays(primary string, days []int) (Pattern, bool) {
	anchor, ok := ParseDate(primary)
	if !ok {
		return Pattern{}, false
	}
	month := YearMonthOf(anchor)

	kept := make([]int, 0, len(days))
	for _, d := range days {
		if d <= month.DaysIn() {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return Pattern{}, false
	}

	return Pattern{
		Kind:        KindExplicitDays,
		PrimaryDate: primary,
		Days:        kept,
		MonthStart:  month,
		MonthEnd:    month,
	}, true
}

// normalizeDate returns s in canonical ISO form, or "" when it is not a date.
func normalizeDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

func uniqueDays(days []int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d >= 1 && d <= 31 {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// contiguous reports whether sorted, unique days form a single run.
func contiguous(days []int) bool {
	return days[len(days)-1]-days[0] == len(days)-1
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
