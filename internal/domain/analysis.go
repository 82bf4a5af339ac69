package domain

import (
	"encoding/json"
	"time"

	"github.com/flyerhub/flyerd/internal/recurring"
)

// ExtractedFields are the descriptive fields the vision model read off a flyer.
type ExtractedFields struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
}

// Analysis is the stored outcome of running one flyer image through the vision
// model and resolving its dates on the server.
type Analysis struct {
	ID       string
	ImageURL string
	ImageKey string
	Source   Source
	Model    string

	// RawResponse is the model reply verbatim.
	RawResponse string
	Extracted   ExtractedFields
	Guess       recurring.Guess

	PatternKind    recurring.Kind
	Pattern        json.RawMessage // normalized pattern, see recurring.Pattern.MarshalJSON
	PrimaryDate    string
	IsRecurring    bool
	RecurringDates []string
	ExpiresOn      *string

	// EventID is set when an event was created from this analysis.
	EventID *string

	CreatedAt time.Time
}
