package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flyerhub/flyerd/internal/domain"
)

func checkRowsAffected(res sql.Result, notFound error, entityID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, entityID)
	}
	return nil
}

// CreateEvent inserts a new event together with its effective expiration.
func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if _, err := uuid.Parse(e.ID); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	dates, err := encodeDates(e.RecurringDates)
	if err != nil {
		return nil, err
	}

	var analysisID sql.NullString
	if e.AnalysisID != nil {
		analysisID = sql.NullString{String: *e.AnalysisID, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (
			id, title, description, location, start_time, primary_date, is_recurring,
			recurring_dates, pattern_kind, image_url, analysis_id, source, expires_on,
			created_at, updated_at, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, e.Location, e.StartTime, nullableText(e.PrimaryDate), e.IsRecurring,
		dates, string(e.PatternKind), e.ImageURL, analysisID, string(e.Source), e.ExpiresOn(),
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt), formatTimePtr(e.ArchivedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", translateError(err))
	}

	created := *e
	return &created, nil
}

// FindEventByID retrieves an event by its ID.
func (s *Store) FindEventByID(ctx context.Context, id string) (*domain.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEventNotFound, id)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// DeleteEvent removes an event and detaches it from the analysis it came from.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	return s.executeInTransaction(ctx, "delete_event", nil, func(tx *Store) error {
		if _, err := tx.db.ExecContext(ctx, `UPDATE analyses SET event_id = NULL WHERE event_id = ?`, id); err != nil {
			return fmt.Errorf("failed to detach analyses: %w", err)
		}

		res, err := tx.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return checkRowsAffected(res, domain.ErrEventNotFound, id)
	})
}

// ListEvents returns a page of events and the total count.
func (s *Store) ListEvents(ctx context.Context, params domain.ListEventsParams) (*domain.PagedEvents, error) {
	const filter = `
		WHERE (? OR archived_at IS NULL)
		  AND (? OR expires_on IS NULL OR expires_on >= ?)`
	args := []any{params.IncludeArchived, params.IncludeExpired, params.Today}

	result := &domain.PagedEvents{Events: []*domain.Event{}}

	err := s.executeInTransaction(ctx, "list_events", nil, func(tx *Store) error {
		if err := tx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+filter, args...).Scan(&result.TotalCount); err != nil {
			return fmt.Errorf("failed to count events: %w", err)
		}

		rows, err := tx.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events`+filter+`
			ORDER BY primary_date IS NULL, primary_date, created_at, id
			LIMIT ? OFFSET ?`,
			append(args, params.Limit, params.Offset)...)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				return fmt.Errorf("failed to scan event: %w", err)
			}
			result.Events = append(result.Events, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	result.HasMore = params.Offset+len(result.Events) < result.TotalCount
	return result, nil
}

// FindExpiredEvents returns non-archived events that expired before today, oldest first.
func (s *Store) FindExpiredEvents(ctx context.Context, today string, limit int) ([]*domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events
		WHERE archived_at IS NULL AND expires_on IS NOT NULL AND expires_on < ?
		ORDER BY expires_on, id
		LIMIT ?`, today, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired events: %w", err)
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expired events: %w", err)
	}
	return events, nil
}

// ArchiveEvents stamps archived_at on the given events. Already archived events are left alone.
func (s *Store) ArchiveEvents(ctx context.Context, ids []string, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	stamp := formatTime(at)
	args := make([]any, 0, len(ids)+2)
	args = append(args, stamp, stamp)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")

	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET archived_at = ?, updated_at = ?
		WHERE archived_at IS NULL AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to archive events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}
