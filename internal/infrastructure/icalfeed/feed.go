// Package icalfeed renders events as an iCalendar feed.
package icalfeed

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/flyerhub/flyerd/internal/domain"
)

const (
	productID    = "-//flyerhub//flyerd//ES"
	calendarName = "Flyer events"
)

// Render returns an iCalendar document with one all-day VEVENT per occurrence.
// Events without any date are skipped.
func Render(events []*domain.Event, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(calendarName)
	cal.SetXWRCalName(calendarName)

	stamp := now.UTC()
	for _, e := range events {
		for _, date := range e.Occurrences() {
			day, err := time.Parse(domain.DateLayout, date)
			if err != nil {
				continue
			}

			vevent := cal.AddEvent(e.ID + "-" + date)
			vevent.SetDtStampTime(stamp)
			vevent.SetCreatedTime(e.CreatedAt.UTC())
			vevent.SetModifiedAt(e.UpdatedAt.UTC())
			vevent.SetAllDayStartAt(day)
			vevent.SetAllDayEndAt(day.AddDate(0, 0, 1))
			vevent.SetSummary(e.Title)
			if desc := description(e); desc != "" {
				vevent.SetDescription(desc)
			}
			if e.Location != "" {
				vevent.SetLocation(e.Location)
			}
			if strings.HasPrefix(e.ImageURL, "http://") || strings.HasPrefix(e.ImageURL, "https://") {
				vevent.SetURL(e.ImageURL)
			}
		}
	}

	return cal.Serialize()
}

func description(e *domain.Event) string {
	switch {
	case e.StartTime == "":
		return e.Description
	case e.Description == "":
		return e.StartTime
	default:
		return e.StartTime + "\n" + e.Description
	}
}
