package domain

import (
	"time"

	"github.com/flyerhub/flyerd/internal/recurring"
)

// Event is a published event, created by hand or from an analyzed flyer.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartTime   string // free text as printed on the flyer, e.g. "20:00"

	// PrimaryDate is the first (or only) date, empty when unknown.
	PrimaryDate string

	// IsRecurring marks events whose visibility follows RecurringDates.
	// Non-recurring multi-day events are stored recurring as well so they
	// stay listed until their last day.
	IsRecurring    bool
	RecurringDates []string
	PatternKind    recurring.Kind

	ImageURL   string
	AnalysisID *string
	Source     Source

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time
}

// DateInfo returns the fields that decide visibility.
func (e *Event) DateInfo() recurring.DateInfo {
	return recurring.DateInfo{
		PrimaryDate:    e.PrimaryDate,
		IsRecurring:    e.IsRecurring,
		RecurringDates: e.RecurringDates,
	}
}

// ExpiresOn returns the effective expiration date, or nil when the event never expires.
func (e *Event) ExpiresOn() *string {
	exp, ok := e.DateInfo().Expiration()
	if !ok {
		return nil
	}
	return &exp
}

// IsCurrent reports whether the event is still listed on today (ISO date).
func (e *Event) IsCurrent(today string) bool {
	return recurring.IsCurrent(e.DateInfo(), today)
}

// Occurrences returns every date the event takes place on.
func (e *Event) Occurrences() []string {
	if e.IsRecurring && len(e.RecurringDates) > 0 {
		return e.RecurringDates
	}
	if e.PrimaryDate != "" {
		return []string{e.PrimaryDate}
	}
	return nil
}

// Archived reports whether the sweeper has retired the event.
func (e *Event) Archived() bool {
	return e.ArchivedAt != nil
}

// ListEventsParams contains parameters for listing events.
type ListEventsParams struct {
	// Today is the reference date (YYYY-MM-DD) for expiration filtering.
	Today string

	IncludeExpired  bool
	IncludeArchived bool

	Limit  int
	Offset int
}

// PagedEvents contains events matching a ListEventsParams query.
type PagedEvents struct {
	Events     []*Event
	TotalCount int
	HasMore    bool

	// NextOffset is where the following page starts.
	NextOffset int
}
