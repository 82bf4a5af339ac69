package handler

import (
	"encoding/json"
	"time"

	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/infrastructure/http/response"
	"github.com/flyerhub/flyerd/internal/recurring"
)

// CreateEventRequest is the body of POST /v1/events.
type CreateEventRequest struct {
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	Location       *string  `json:"location"`
	StartTime      *string  `json:"start_time"`
	PrimaryDate    *string  `json:"primary_date"`
	IsRecurring    *bool    `json:"is_recurring"`
	RecurringDates []string `json:"recurring_dates"`
	SpecificDays   []int    `json:"specific_days"`
	ImageURL       *string  `json:"image_url"`
}

// valueOr returns *p, or def when the optional field was omitted.
func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// AnalyzeURLRequest is the JSON body of POST /v1/analyses.
type AnalyzeURLRequest struct {
	ImageURL    string `json:"image_url"`
	CreateEvent *bool  `json:"create_event"`
}

// Event is the API representation of domain.Event.
type Event struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Location       string     `json:"location,omitempty"`
	StartTime      string     `json:"start_time,omitempty"`
	PrimaryDate    string     `json:"primary_date,omitempty"`
	IsRecurring    bool       `json:"is_recurring"`
	RecurringDates []string   `json:"recurring_dates"`
	PatternKind    string     `json:"pattern_kind,omitempty"`
	ExpiresOn      *string    `json:"expires_on"`
	ImageURL       string     `json:"image_url,omitempty"`
	AnalysisID     *string    `json:"analysis_id"`
	Source         string     `json:"source"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
}

// Analysis is the API representation of domain.Analysis.
type Analysis struct {
	ID             string                 `json:"id"`
	ImageURL       string                 `json:"image_url,omitempty"`
	Source         string                 `json:"source,omitempty"`
	Model          string                 `json:"model,omitempty"`
	Extracted      domain.ExtractedFields `json:"extracted"`
	Guess          recurring.Guess        `json:"guess"`
	PatternKind    string                 `json:"pattern_kind"`
	Pattern        json.RawMessage        `json:"pattern,omitempty"`
	PrimaryDate    string                 `json:"primary_date,omitempty"`
	IsRecurring    bool                   `json:"is_recurring"`
	RecurringDates []string               `json:"recurring_dates"`
	ExpiresOn      *string                `json:"expires_on"`
	EventID        *string                `json:"event_id"`
	CreatedAt      time.Time              `json:"created_at"`
}

// AnalyzeResponse is returned by POST /v1/analyses.
// EventError is set when the analysis was stored but the requested event
// could not be created from it.
type AnalyzeResponse struct {
	Analysis   Analysis              `json:"analysis"`
	Event      *Event                `json:"event,omitempty"`
	EventError *response.ErrorDetail `json:"event_error,omitempty"`
}

// ListEventsResponse is returned by GET /v1/events.
type ListEventsResponse struct {
	Events        []Event `json:"events"`
	TotalCount    int     `json:"total_count"`
	NextPageToken *string `json:"next_page_token,omitempty"`
}

// nonNilDates keeps recurring_dates an array in JSON.
func nonNilDates(dates []string) []string {
	if dates == nil {
		return []string{}
	}
	return dates
}

// MapEventToDTO converts a domain event to its API representation.
func MapEventToDTO(e *domain.Event) Event {
	return Event{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Location:       e.Location,
		StartTime:      e.StartTime,
		PrimaryDate:    e.PrimaryDate,
		IsRecurring:    e.IsRecurring,
		RecurringDates: nonNilDates(e.RecurringDates),
		PatternKind:    string(e.PatternKind),
		ExpiresOn:      e.ExpiresOn(),
		ImageURL:       e.ImageURL,
		AnalysisID:     e.AnalysisID,
		Source:         string(e.Source),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		ArchivedAt:     e.ArchivedAt,
	}
}

// MapEventsToDTO converts a page of domain events.
func MapEventsToDTO(events []*domain.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, MapEventToDTO(e))
	}
	return out
}

// MapAnalysisToDTO converts a domain analysis to its API representation.
func MapAnalysisToDTO(a *domain.Analysis) Analysis {
	return Analysis{
		ID:             a.ID,
		ImageURL:       a.ImageURL,
		Source:         string(a.Source),
		Model:          a.Model,
		Extracted:      a.Extracted,
		Guess:          a.Guess,
		PatternKind:    string(a.PatternKind),
		Pattern:        a.Pattern,
		PrimaryDate:    a.PrimaryDate,
		IsRecurring:    a.IsRecurring,
		RecurringDates: nonNilDates(a.RecurringDates),
		ExpiresOn:      a.ExpiresOn,
		EventID:        a.EventID,
		CreatedAt:      a.CreatedAt,
	}
}
