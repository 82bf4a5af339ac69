package recurring

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ym(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

func TestExpand_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		want    []string
	}{
		{
			name: "fridays of february 2026",
			pattern: Pattern{
				Kind:       KindWeekdayRecurring,
				Weekdays:   []time.Weekday{time.Friday},
				MonthStart: ym(2026, time.February),
				MonthEnd:   ym(2026, time.February),
			},
			want: []string{"2026-02-06", "2026-02-13", "2026-02-20", "2026-02-27"},
		},
		{
			name: "fridays and saturdays across two months",
			pattern: Pattern{
				Kind:       KindWeekdayRecurring,
				Weekdays:   []time.Weekday{time.Friday, time.Saturday},
				MonthStart: ym(2026, time.February),
				MonthEnd:   ym(2026, time.March),
			},
			want: []string{
				"2026-02-06", "2026-02-07", "2026-02-13", "2026-02-14",
				"2026-02-20", "2026-02-21", "2026-02-27", "2026-02-28",
				"2026-03-06", "2026-03-07", "2026-03-13", "2026-03-14",
				"2026-03-20", "2026-03-21", "2026-03-27", "2026-03-28",
			},
		},
		{
			name: "day 31 skipped in april",
			pattern: Pattern{
				Kind:       KindMonthly,
				Days:       []int{15, 31},
				MonthStart: ym(2026, time.March),
				MonthEnd:   ym(2026, time.May),
			},
			want: []string{"2026-03-15", "2026-03-31", "2026-04-15", "2026-05-15", "2026-05-31"},
		},
		{
			name: "leap february keeps day 29",
			pattern: Pattern{
				Kind:       KindMonthly,
				Days:       []int{29},
				MonthStart: ym(2028, time.January),
				MonthEnd:   ym(2028, time.March),
			},
			want: []string{"2028-01-29", "2028-02-29", "2028-03-29"},
		},
		{
			name: "year rollover",
			pattern: Pattern{
				Kind:       KindSeasonal,
				Weekdays:   []time.Weekday{time.Sunday},
				MonthStart: ym(2025, time.December),
				MonthEnd:   ym(2026, time.January),
			},
			want: []string{
				"2025-12-07", "2025-12-14", "2025-12-21", "2025-12-28",
				"2026-01-04", "2026-01-11", "2026-01-18", "2026-01-25",
			},
		},
		{
			name: "weekdays win over leftover days",
			pattern: Pattern{
				Kind:       KindMonthly,
				Weekdays:   []time.Weekday{time.Monday},
				Days:       []int{1, 2},
				MonthStart: ym(2026, time.June),
				MonthEnd:   ym(2026, time.June),
			},
			want: []string{"2026-06-01", "2026-06-08", "2026-06-15", "2026-06-22", "2026-06-29"},
		},
		{
			name: "continuous range",
			pattern: Pattern{
				Kind:       KindContinuousRange,
				Days:       []int{12, 13, 14},
				MonthStart: ym(2026, time.July),
				MonthEnd:   ym(2026, time.July),
			},
			want: []string{"2026-07-12", "2026-07-13", "2026-07-14"},
		},
		{
			name: "explicit days",
			pattern: Pattern{
				Kind:       KindExplicitDays,
				Days:       []int{13, 14},
				MonthStart: ym(2026, time.February),
				MonthEnd:   ym(2026, time.February),
			},
			want: []string{"2026-02-13", "2026-02-14"},
		},
		{
			name:    "single date expands to nothing",
			pattern: Pattern{Kind: KindNone, PrimaryDate: "2026-05-01"},
			want:    []string{},
		},
		{
			name: "recurring without parameters",
			pattern: Pattern{
				Kind:       KindMonthly,
				MonthStart: ym(2026, time.May),
				MonthEnd:   ym(2026, time.May),
			},
			want: []string{},
		},
		{
			name: "missing window",
			pattern: Pattern{
				Kind:     KindWeekdayRecurring,
				Weekdays: []time.Weekday{time.Friday},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.pattern))
		})
	}
}

func TestExpandExplicitDays(t *testing.T) {
	t.Run("sorted and unique within the base month", func(t *testing.T) {
		got := ExpandExplicitDays("2026-02-13", []int{14, 13, 14})
		assert.Equal(t, []string{"2026-02-13", "2026-02-14"}, got)
	})

	t.Run("days the month lacks are skipped", func(t *testing.T) {
		got := ExpandExplicitDays("2026-02-01", []int{28, 30, 31})
		assert.Equal(t, []string{"2026-02-28"}, got)
	})

	t.Run("bad base date", func(t *testing.T) {
		assert.Empty(t, ExpandExplicitDays("13/02/2026", []int{13, 14}))
		assert.Empty(t, ExpandExplicitDays("", []int{13, 14}))
	})
}

func TestGetCalculator(t *testing.T) {
	assert.IsType(t, WeekdayCalculator{}, GetCalculator(Pattern{Weekdays: []time.Weekday{time.Monday}, Days: []int{3}}))
	assert.IsType(t, MonthDayCalculator{}, GetCalculator(Pattern{Days: []int{3}}))
	assert.Nil(t, GetCalculator(Pattern{}))
}

func TestCalculators_EmptyRange(t *testing.T) {
	start := ym(2026, time.March).FirstDay()
	end := ym(2026, time.February).LastDay()

	assert.Empty(t, WeekdayCalculator{Weekdays: []time.Weekday{time.Friday}}.OccurrencesBetween(start, end))
	assert.Empty(t, MonthDayCalculator{Days: []int{1}}.OccurrencesBetween(start, end))
	assert.Empty(t, MonthDayCalculator{Days: []int{0, -1, 40}}.OccurrencesBetween(start, start.AddDate(0, 1, 0)))
}

// bruteForceWeekdays walks every day of the window, independent of rrule.
func bruteForceWeekdays(p Pattern) []string {
	want := map[time.Weekday]bool{}
	for _, wd := range p.Weekdays {
		want[wd] = true
	}
	out := []string{}
	for d := p.MonthStart.FirstDay(); !d.After(p.MonthEnd.LastDay()); d = d.AddDate(0, 0, 1) {
		if want[d.Weekday()] {
			out = append(out, d.Format(DateLayout))
		}
	}
	return out
}

func bruteForceDays(p Pattern) []string {
	out := []string{}
	for m := p.MonthStart; !p.MonthEnd.Before(m); m = m.Next() {
		for day := 1; day <= m.DaysIn(); day++ {
			for _, d := range p.Days {
				if d == day {
					date, _ := m.Date(day)
					out = append(out, date)
					break
				}
			}
		}
	}
	return out
}

func randomPattern(r *rand.Rand) Pattern {
	start := ym(2020+r.IntN(10), time.Month(1+r.IntN(12)))
	p := Pattern{
		Kind:       KindMonthly,
		MonthStart: start,
		MonthEnd:   start.AddMonths(r.IntN(DefaultMaxWindowMonths)),
	}
	if r.IntN(2) == 0 {
		for range 1 + r.IntN(3) {
			p.Weekdays = append(p.Weekdays, time.Weekday(r.IntN(7)))
		}
	} else {
		for range 1 + r.IntN(4) {
			p.Days = append(p.Days, 1+r.IntN(31))
		}
	}
	return p
}

func TestExpand_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(2026, 2))

	for i := range 300 {
		p := randomPattern(r)
		got := Expand(p)

		for j := 1; j < len(got); j++ {
			require.Less(t, got[j-1], got[j], "case %d: not strictly ascending: %+v", i, p)
		}
		for _, d := range got {
			parsed, ok := ParseDate(d)
			require.True(t, ok, "case %d: bad date %q", i, d)
			require.Equal(t, d, parsed.Format(DateLayout))
		}

		var want []string
		if len(p.Weekdays) > 0 {
			want = bruteForceWeekdays(p)
		} else {
			want = bruteForceDays(p)
		}
		require.Equal(t, want, got, "case %d: %+v", i, p)
		require.Equal(t, got, Expand(p), "case %d: expansion is not deterministic", i)
	}
}
