package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveExpiration(t *testing.T) {
	tests := []struct {
		name        string
		primary     string
		isRecurring bool
		dates       []string
		want        string
		wantOK      bool
	}{
		{"no primary date", "", true, []string{"2026-02-10"}, "", false},
		{"single event", "2026-05-01", false, nil, "2026-05-01", true},
		{"single event ignores dates", "2026-05-01", false, []string{"2026-06-01"}, "2026-05-01", true},
		{"recurring without dates", "2026-02-10", true, nil, "2026-02-10", true},
		{"recurring uses last date", "2026-02-10", true, []string{"2026-02-10", "2026-02-15", "2026-02-20"}, "2026-02-20", true},
		{"primary after dates", "2026-03-01", true, []string{"2026-02-10", "2026-02-15"}, "2026-03-01", true},
		{"unsorted dates", "2026-02-01", true, []string{"2026-02-20", "2026-02-03"}, "2026-02-20", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EffectiveExpiration(tt.primary, tt.isRecurring, tt.dates)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsCurrent(t *testing.T) {
	weekly := DateInfo{
		PrimaryDate:    "2026-02-06",
		IsRecurring:    true,
		RecurringDates: []string{"2026-02-06", "2026-02-13", "2026-02-20", "2026-02-27"},
	}

	assert.True(t, IsCurrent(weekly, "2026-02-14"), "listed until the last occurrence")
	assert.True(t, IsCurrent(weekly, "2026-02-27"), "listed on the last day")
	assert.False(t, IsCurrent(weekly, "2026-02-28"))

	single := DateInfo{PrimaryDate: "2026-02-06"}
	assert.True(t, IsCurrent(single, "2026-02-06"))
	assert.False(t, IsCurrent(single, "2026-02-07"))

	assert.True(t, IsCurrent(DateInfo{}, "2099-01-01"), "undated events never expire")
}

func TestExpiration_NeverBeforePrimaryDate(t *testing.T) {
	start := YearMonth{2026, time.January}
	for offset := range 12 {
		month := start.AddMonths(offset)
		dates := Expand(Pattern{
			Kind:       KindWeekdayRecurring,
			Weekdays:   []time.Weekday{time.Weekday(offset % 7)},
			MonthStart: month,
			MonthEnd:   month.AddMonths(2),
		})
		require.NotEmpty(t, dates)

		for _, primary := range dates {
			exp, ok := EffectiveExpiration(primary, true, dates)
			require.True(t, ok)
			assert.GreaterOrEqual(t, exp, primary)
			assert.Equal(t, dates[len(dates)-1], exp)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("weekday recurring", func(t *testing.T) {
		res := Resolve(Guess{IsRecurring: true, Weekdays: WeekdayNames{"viernes"}, MonthStart: "2026-02"}, feb2026)
		assert.True(t, res.IsRecurring)
		assert.Equal(t, "2026-02-06", res.PrimaryDate, "first occurrence stands in for a missing date")
		assert.Equal(t, "2026-02-27", res.Expiration)
		assert.Len(t, res.RecurringDates, 4)
	})

	t.Run("explicit days", func(t *testing.T) {
		res := Resolve(Guess{SpecificDays: DayNumbers{13, 14}, PrimaryDate: "2026-02-13"}, feb2026)
		assert.Equal(t, KindExplicitDays, res.Pattern.Kind)
		assert.True(t, res.IsRecurring)
		assert.Equal(t, "2026-02-14", res.Expiration)
	})

	t.Run("single date", func(t *testing.T) {
		res := Resolve(Guess{PrimaryDate: "2026-05-01"}, feb2026)
		assert.False(t, res.IsRecurring)
		assert.Empty(t, res.RecurringDates)
		assert.Equal(t, "2026-05-01", res.Expiration)
	})

	t.Run("nothing usable", func(t *testing.T) {
		res := Resolve(Guess{IsRecurring: true}, feb2026)
		assert.False(t, res.IsRecurring)
		assert.Empty(t, res.PrimaryDate)
		assert.Empty(t, res.Expiration)
	})
}
