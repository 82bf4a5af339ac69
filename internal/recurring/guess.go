package recurring

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Guess is the untrusted pattern description produced by the flyer classifier.
// Every field is optional. Decoding is lenient: a field with an unexpected shape
// is left at its zero value instead of failing the whole object.
type Guess struct {
	IsRecurring        bool
	PatternDescription string
	Weekdays           WeekdayNames
	SpecificDays       DayNumbers
	MonthStart         string
	MonthEnd           string
	PrimaryDate        string
}

// guessKeys lists accepted wire names per field; the first is canonical.
var guessKeys = struct {
	recurring, description, weekdays, days, monthStart, monthEnd, date []string
}{
	recurring:   []string{"is_recurring", "isRecurring", "recurring"},
	description: []string{"pattern_description", "patternDescription", "recurrence_pattern", "recurrencePattern"},
	weekdays:    []string{"weekdays", "weekday_names", "weekdayNames", "recurring_days", "recurringDays", "weekday"},
	days:        []string{"specific_days", "specificDays", "days"},
	monthStart:  []string{"month_start", "monthStart", "start_month", "startMonth"},
	monthEnd:    []string{"month_end", "monthEnd", "end_month", "endMonth"},
	date:        []string{"date", "primary_date", "primaryDate", "event_date", "eventDate"},
}

// UnmarshalJSON decodes a guess field by field. It only returns nil.
func (g *Guess) UnmarshalJSON(data []byte) error {
	*g = Guess{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	if raw, ok := lookup(fields, guessKeys.recurring); ok {
		var f Flag
		_ = f.UnmarshalJSON(raw)
		g.IsRecurring = bool(f)
	}
	if raw, ok := lookup(fields, guessKeys.description); ok {
		g.PatternDescription = looseString(raw)
	}
	if raw, ok := lookup(fields, guessKeys.weekdays); ok {
		_ = g.Weekdays.UnmarshalJSON(raw)
	}
	if raw, ok := lookup(fields, guessKeys.days); ok {
		_ = g.SpecificDays.UnmarshalJSON(raw)
	}
	if raw, ok := lookup(fields, guessKeys.monthStart); ok {
		g.MonthStart = looseString(raw)
	}
	if raw, ok := lookup(fields, guessKeys.monthEnd); ok {
		g.MonthEnd = looseString(raw)
	}
	if raw, ok := lookup(fields, guessKeys.date); ok {
		g.PrimaryDate = looseString(raw)
	}
	return nil
}

// MarshalJSON writes the canonical wire names.
func (g Guess) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IsRecurring        bool     `json:"is_recurring"`
		PatternDescription string   `json:"pattern_description,omitempty"`
		Weekdays           []string `json:"weekdays,omitempty"`
		SpecificDays       []int    `json:"specific_days,omitempty"`
		MonthStart         string   `json:"month_start,omitempty"`
		MonthEnd           string   `json:"month_end,omitempty"`
		PrimaryDate        string   `json:"date,omitempty"`
	}{
		IsRecurring:        g.IsRecurring,
		PatternDescription: g.PatternDescription,
		Weekdays:           g.Weekdays,
		SpecificDays:       g.SpecificDays,
		MonthStart:         g.MonthStart,
		MonthEnd:           g.MonthEnd,
		PrimaryDate:        g.PrimaryDate,
	})
}

func lookup(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := fields[k]; ok && string(raw) != "null" {
			return raw, true
		}
	}
	return nil, false
}

// looseString returns a JSON string's value, or "" for any other JSON type.
func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Flag is a boolean that also accepts "true"/"false", "si"/"no" and 0/1.
type Flag bool

// UnmarshalJSON never fails; anything unrecognized is false.
func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = false

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n == 1
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "si", "sí", "1":
			*f = true
		}
	}
	return nil
}

// DayNumbers holds day-of-month numbers from a guess. Integers, integral floats
// and numeric strings are kept; everything else, including non-positive numbers,
// is dropped silently.
type DayNumbers []int

// UnmarshalJSON never fails. A bare number decodes as a one-element list.
func (d *DayNumbers) UnmarshalJSON(data []byte) error {
	*d = nil

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = []json.RawMessage{data}
	}

	for _, item := range raw {
		if n, ok := looseDay(item); ok {
			*d = append(*d, n)
		}
	}
	return nil
}

func looseDay(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}
	if f != math.Trunc(f) || f < 1 || f > 31 {
		return 0, false
	}
	return int(f), true
}
