package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flyerhub/flyerd/internal/domain"
)

// CreateAnalysis stores the outcome of one flyer analysis.
func (s *Store) CreateAnalysis(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	if _, err := uuid.Parse(a.ID); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	enc, err := encodeAnalysisJSON(a)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO analyses (
			id, image_url, image_key, source, model, raw_response, extracted, guess,
			pattern_kind, pattern, primary_date, is_recurring, recurring_dates, expires_on, event_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		a.ID, a.ImageURL, a.ImageKey, string(a.Source), a.Model, a.RawResponse, enc.extracted, enc.guess,
		string(a.PatternKind), enc.pattern, nullableText(a.PrimaryDate), a.IsRecurring, datesToDB(a.RecurringDates),
		a.ExpiresOn, a.EventID, a.CreatedAt,
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

	row := s.db.QueryRow(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	tag, err := s.db.Exec(ctx, `UPDATE analyses SET event_id = $2 WHERE id = $1`, analysisID, eventID)
	if err != nil {
		return fmt.Errorf("failed to attach event: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), domain.ErrAnalysisNotFound, analysisID)
}
