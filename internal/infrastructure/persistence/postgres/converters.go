package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/recurring"
)

// rowScanner is implemented by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// nullableText maps an empty string to NULL.
func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// textOrEmpty converts a nullable column back to the domain's empty-string convention.
func textOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// datesToDB never returns nil; the column is NOT NULL.
func datesToDB(dates []string) []string {
	if dates == nil {
		return []string{}
	}
	return dates
}

func datesFromDB(dates []string) []string {
	if len(dates) == 0 {
		return nil
	}
	return dates
}

// utcPtr normalizes a nullable timestamp to UTC.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

const eventColumns = `id, title, description, location, start_time, primary_date, is_recurring,
	recurring_dates, pattern_kind, image_url, analysis_id, source, created_at, updated_at, archived_at`

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		e           domain.Event
		primaryDate *string
		dates       []string
		kind        string
		source      string
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &primaryDate, &e.IsRecurring,
		&dates, &kind, &e.ImageURL, &e.AnalysisID, &source, &e.CreatedAt, &e.UpdatedAt, &e.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}

	e.PrimaryDate = textOrEmpty(primaryDate)
	e.RecurringDates = datesFromDB(dates)
	e.PatternKind = recurring.Kind(kind)
	e.Source = domain.Source(source)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	e.ArchivedAt = utcPtr(e.ArchivedAt)
	return &e, nil
}

const analysisColumns = `id, image_url, image_key, source, model, raw_response, extracted, guess,
	pattern_kind, pattern, primary_date, is_recurring, recurring_dates, expires_on, event_id, created_at`

// analysisJSON holds the encoded JSONB columns of an analysis.
type analysisJSON struct {
	extracted []byte
	guess     []byte
	pattern   []byte
}

func encodeAnalysisJSON(a *domain.Analysis) (analysisJSON, error) {
	extracted, err := json.Marshal(a.Extracted)
	if err != nil {
		return analysisJSON{}, fmt.Errorf("failed to encode extracted fields: %w", err)
	}
	guess, err := json.Marshal(a.Guess)
	if err != nil {
		return analysisJSON{}, fmt.Errorf("failed to encode guess: %w", err)
	}
	pattern := []byte(a.Pattern)
	if len(pattern) == 0 {
		pattern = []byte("{}")
	}
	return analysisJSON{extracted: extracted, guess: guess, pattern: pattern}, nil
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var (
		a           domain.Analysis
		source      string
		extracted   []byte
		guess       []byte
		kind        string
		pattern     []byte
		primaryDate *string
		dates       []string
	)
	err := row.Scan(
		&a.ID, &a.ImageURL, &a.ImageKey, &source, &a.Model, &a.RawResponse, &extracted, &guess,
		&kind, &pattern, &primaryDate, &a.IsRecurring, &dates, &a.ExpiresOn, &a.EventID, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(extracted, &a.Extracted); err != nil {
		return nil, fmt.Errorf("failed to decode extracted fields: %w", err)
	}
	// Guess decoding is lenient and never fails.
	_ = json.Unmarshal(guess, &a.Guess)

	a.Source = domain.Source(source)
	a.PatternKind = recurring.Kind(kind)
	a.Pattern = json.RawMessage(pattern)
	a.PrimaryDate = textOrEmpty(primaryDate)
	a.RecurringDates = datesFromDB(dates)
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
