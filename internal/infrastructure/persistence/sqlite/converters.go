package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/recurring"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func encodeDates(dates []string) (string, error) {
	if dates == nil {
		dates = []string{}
	}
	b, err := json.Marshal(dates)
	if err != nil {
		return "", fmt.Errorf("failed to encode dates: %w", err)
	}
	return string(b), nil
}

func decodeDates(s string) ([]string, error) {
	var dates []string
	if err := json.Unmarshal([]byte(s), &dates); err != nil {
		return nil, fmt.Errorf("failed to decode dates: %w", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}
	return dates, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const eventColumns = `id, title, description, location, start_time, primary_date, is_recurring,
	recurring_dates, pattern_kind, image_url, analysis_id, source, created_at, updated_at, archived_at`

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		e                    domain.Event
		primaryDate          sql.NullString
		dates                string
		kind, source         string
		analysisID           sql.NullString
		createdAt, updatedAt string
		archivedAt           sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &primaryDate, &e.IsRecurring,
		&dates, &kind, &e.ImageURL, &analysisID, &source, &createdAt, &updatedAt, &archivedAt,
	)
	if err != nil {
		return nil, err
	}

	e.PrimaryDate = primaryDate.String
	if e.RecurringDates, err = decodeDates(dates); err != nil {
		return nil, err
	}
	e.PatternKind = recurring.Kind(kind)
	e.Source = domain.Source(source)
	e.AnalysisID = stringPtr(analysisID)
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if archivedAt.Valid {
		at, err := parseTime(archivedAt.String)
		if err != nil {
			return nil, err
		}
		e.ArchivedAt = &at
	}
	return &e, nil
}

const analysisColumns = `id, image_url, image_key, source, model, raw_response, extracted, guess,
	pattern_kind, pattern, primary_date, is_recurring, recurring_dates, expires_on, event_id, created_at`

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var (
		a                      domain.Analysis
		source, kind           string
		extracted, guess       string
		pattern, dates         string
		primaryDate, expiresOn sql.NullString
		eventID                sql.NullString
		createdAt              string
	)
	err := row.Scan(
		&a.ID, &a.ImageURL, &a.ImageKey, &source, &a.Model, &a.RawResponse, &extracted, &guess,
		&kind, &pattern, &primaryDate, &a.IsRecurring, &dates, &expiresOn, &eventID, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(extracted), &a.Extracted); err != nil {
		return nil, fmt.Errorf("failed to decode extracted fields: %w", err)
	}
	// Guess decoding is lenient and never fails.
	_ = json.Unmarshal([]byte(guess), &a.Guess)

	a.Source = domain.Source(source)
	a.PatternKind = recurring.Kind(kind)
	a.Pattern = json.RawMessage(pattern)
	a.PrimaryDate = primaryDate.String
	if a.RecurringDates, err = decodeDates(dates); err != nil {
		return nil, err
	}
	a.ExpiresOn = stringPtr(expiresOn)
	a.EventID = stringPtr(eventID)
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}
