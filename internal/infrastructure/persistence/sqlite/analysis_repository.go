package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/flyerhub/flyerd/internal/domain"
)

// CreateAnalysis stores the outcome of one flyer analysis.
func (s *Store) CreateAnalysis(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	if _, err := uuid.Parse(a.ID); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	extracted, err := json.Marshal(a.Extracted)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extracted fields: %w", err)
	}
	guess, err := json.Marshal(a.Guess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode guess: %w", err)
	}
	pattern := string(a.Pattern)
	if pattern == "" {
		pattern = "{}"
	}
	dates, err := encodeDates(a.RecurringDates)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (
			id, image_url, image_key, source, model, raw_response, extracted, guess,
			pattern_kind, pattern, primary_date, is_recurring, recurring_dates, expires_on, event_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ImageURL, a.ImageKey, string(a.Source), a.Model, a.RawResponse, string(extracted), string(guess),
		string(a.PatternKind), pattern, nullableText(a.PrimaryDate), a.IsRecurring, dates,
		a.ExpiresOn, a.EventID, formatTime(a.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis: %w", err)
	}

	created := *a
	return &created, nil
}

// FindAnalysisByID retrieves an analysis by its ID.
func (s *Store) FindAnalysisByID(ctx context.Context, id string) (*domain.Analysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, id)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAnalysisNotFound, id)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// AttachEvent links an analysis to the event created from it.
func (s *Store) AttachEvent(ctx context.Context, analysisID, eventID string) error {
	if _, err := uuid.Parse(analysisID); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	if _, err := uuid.Parse(eventID); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE analyses SET event_id = ? WHERE id = ?`, eventID, analysisID)
	if err != nil {
		return fmt.Errorf("failed to attach event: %w", err)
	}
	return checkRowsAffected(res, domain.ErrAnalysisNotFound, analysisID)
}
