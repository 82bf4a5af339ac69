package recurring

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// weekdayIndex maps Spanish weekday names to time.Weekday (Sunday = 0).
// Accented and unaccented spellings of miércoles and sábado are equivalent.
var weekdayIndex = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
}

var lowerSpanish = cases.Lower(language.Spanish)

// ParseWeekday resolves a Spanish weekday name. Case, surrounding whitespace and
// Unicode composition form are ignored; unknown names return false.
func ParseWeekday(name string) (time.Weekday, bool) {
	key := lowerSpanish.String(norm.NFC.String(strings.TrimSpace(name)))
	wd, ok := weekdayIndex[key]
	return wd, ok
}

// ParseWeekdays resolves every recognizable name, dropping the rest.
// The result is sorted Sunday-first and has no duplicates.
func ParseWeekdays(names []string) []time.Weekday {
	var out []time.Weekday
	for _, name := range names {
		if wd, ok := ParseWeekday(name); ok {
			out = append(out, wd)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// WeekdayNames holds the weekday field of a pattern guess. On the wire it may be
// a single string, a list of strings, or null; all decode to a plain list.
type WeekdayNames []string

// UnmarshalJSON never fails: values of any other shape decode to an empty list.
func (w *WeekdayNames) UnmarshalJSON(data []byte) error {
	*w = nil

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*w = splitWeekdayList(single)
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			*w = append(*w, splitWeekdayList(s)...)
		}
	}
	return nil
}

// splitWeekdayList breaks "viernes y sábado" or "viernes, sábado" into names.
func splitWeekdayList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" || strings.EqualFold(f, "y") || strings.EqualFold(f, "e") {
			continue
		}
		out = append(out, f)
	}
	return out
}
