package recurring

import "slices"

// DateInfo is the part of an event that decides its visibility.
type DateInfo struct {
	PrimaryDate    string
	IsRecurring    bool
	RecurringDates []string
}

// EffectiveExpiration returns the date after which an event stops being current.
//
// Without a primary date there is no expiration (ok is false). Single events, and
// recurring events with no expanded dates, expire on their primary date. Recurring
// events expire on the latest of the primary date and all expanded dates.
func EffectiveExpiration(primaryDate string, isRecurring bool, dates []string) (string, bool) {
	if primaryDate == "" {
		return "", false
	}
	if !isRecurring || len(dates) == 0 {
		return primaryDate, true
	}
	// ISO dates order lexicographically.
	return max(primaryDate, slices.Max(dates)), true
}

// Expiration is EffectiveExpiration applied to info.
func (info DateInfo) Expiration() (string, bool) {
	return EffectiveExpiration(info.PrimaryDate, info.IsRecurring, info.RecurringDates)
}

// IsCurrent reports whether an event should still be listed on today (ISO date).
// Events without an expiration are always current.
func IsCurrent(info DateInfo, today string) bool {
	exp, ok := info.Expiration()
	if !ok {
		return true
	}
	return exp >= today
}
