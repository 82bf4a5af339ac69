package recurring

import (
	"time"

	"github.com/teambition/rrule-go"
)

// rruleWeekdays maps time.Weekday (Sunday = 0) onto rrule weekdays.
var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Calculator enumerates the occurrence days of a recurrence rule.
type Calculator interface {
	// OccurrencesBetween returns every occurrence from start to end, both inclusive,
	// as midnight UTC times in ascending order. Both bounds must be midnight UTC.
	OccurrencesBetween(start, end time.Time) []time.Time
}

// WeekdayCalculator matches every day whose weekday is in Weekdays.
type WeekdayCalculator struct {
	Weekdays []time.Weekday
}

func (c WeekdayCalculator) OccurrencesBetween(start, end time.Time) []time.Time {
	if len(c.Weekdays) == 0 || end.Before(start) {
		return nil
	}

	byDay := make([]rrule.Weekday, 0, len(c.Weekdays))
	for _, wd := range c.Weekdays {
		if wd >= time.Sunday && wd <= time.Saturday {
			byDay = append(byDay, rruleWeekdays[wd])
		}
	}

	return occurrences(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Until:     end,
		Byweekday: byDay,
	})
}

// MonthDayCalculator matches the listed day numbers in every month. Months that
// lack a day (31 in April, 30 in February) skip it.
type MonthDayCalculator struct {
	Days []int
}

func (c MonthDayCalculator) OccurrencesBetween(start, end time.Time) []time.Time {
	if len(c.Days) == 0 || end.Before(start) {
		return nil
	}

	byMonthDay := make([]int, 0, len(c.Days))
	for _, d := range c.Days {
		// rrule reads negative days from the month end; only positive days are meaningful here.
		if d >= 1 && d <= 31 {
			byMonthDay = append(byMonthDay, d)
		}
	}

	return occurrences(rrule.ROption{
		Freq:       rrule.MONTHLY,
		Dtstart:    start,
		Until:      end,
		Bymonthday: byMonthDay,
	})
}

func occurrences(opt rrule.ROption) []time.Time {
	if len(opt.Byweekday) == 0 && len(opt.Bymonthday) == 0 {
		return nil
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}
	return r.All()
}

// GetCalculator returns the calculator for a pattern, or nil when the pattern
// has nothing to expand. Weekdays take precedence over day numbers.
func GetCalculator(p Pattern) Calculator {
	switch {
	case len(p.Weekdays) > 0:
		return WeekdayCalculator{Weekdays: p.Weekdays}
	case len(p.Days) > 0:
		return MonthDayCalculator{Days: p.Days}
	default:
		return nil
	}
}
