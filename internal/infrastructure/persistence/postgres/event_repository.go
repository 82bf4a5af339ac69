package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flyerhub/flyerd/internal/domain"
)

// checkRowsAffected validates that an UPDATE/DELETE operation affected at least one row.
func checkRowsAffected(rowsAffected int64, notFound error, entityID string) error {
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", notFound, entityID)
	}
	return nil
}

// CreateEvent inserts a new event together with its effective expiration.
func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if _, err := uuid.Parse(e.ID); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO events (
			id, title, description, location, start_time, primary_date, is_recurring,
			recurring_dates, pattern_kind, image_url, analysis_id, source, expires_on,
			created_at, updated_at, archived_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		e.ID, e.Title, e.Description, e.Location, e.StartTime, nullableText(e.PrimaryDate), e.IsRecurring,
		datesToDB(e.RecurringDates), string(e.PatternKind), e.ImageURL, e.AnalysisID, string(e.Source), e.ExpiresOn(),
		e.CreatedAt, e.UpdatedAt, e.ArchivedAt,
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

	row := s.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	return s.inTx(ctx, "delete_event", pgx.TxOptions{}, func(tx *Store) error {
		if _, err := tx.db.Exec(ctx, `UPDATE analyses SET event_id = NULL WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("failed to detach analyses: %w", err)
		}

		tag, err := tx.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return checkRowsAffected(tag.RowsAffected(), domain.ErrEventNotFound, id)
	})
}

// ListEvents returns a page of events and the total count under one snapshot.
func (s *Store) ListEvents(ctx context.Context, params domain.ListEventsParams) (*domain.PagedEvents, error) {
	const filter = `
		WHERE ($1 OR archived_at IS NULL)
		  AND ($2 OR expires_on IS NULL OR expires_on >= $3)`
	args := []any{params.IncludeArchived, params.IncludeExpired, params.Today}

	result := &domain.PagedEvents{Events: []*domain.Event{}}

	// REPEATABLE READ keeps the count consistent with the page.
	err := s.inTx(ctx, "list_events", pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, func(tx *Store) error {
		if err := tx.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`+filter, args...).Scan(&result.TotalCount); err != nil {
			return fmt.Errorf("failed to count events: %w", err)
		}

		rows, err := tx.db.Query(ctx, `SELECT `+eventColumns+` FROM events`+filter+`
			ORDER BY primary_date IS NULL, primary_date, created_at, id
			LIMIT $4 OFFSET $5`,
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
	rows, err := s.db.Query(ctx, `SELECT `+eventColumns+` FROM events
		WHERE archived_at IS NULL AND expires_on IS NOT NULL AND expires_on < $1
		ORDER BY expires_on, id
		LIMIT $2`, today, limit)
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

	tag, err := s.db.Exec(ctx, `
		UPDATE events SET archived_at = $2, updated_at = $2
		WHERE id = ANY($1::text[]::uuid[]) AND archived_at IS NULL`,
		ids, at.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to archive events: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
