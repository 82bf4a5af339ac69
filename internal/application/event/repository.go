package event

import (
	"context"
	"time"

	"github.com/flyerhub/flyerd/internal/domain"
)

// Repository defines storage operations for events.
type Repository interface {
	// CreateEvent persists a new event, including its effective expiration.
	CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error)

	// FindEventByID retrieves an event by its ID.
	// Returns domain.ErrEventNotFound if the event doesn't exist.
	FindEventByID(ctx context.Context, id string) (*domain.Event, error)

	// DeleteEvent removes an event.
	// Returns domain.ErrEventNotFound if the event doesn't exist.
	DeleteEvent(ctx context.Context, id string) error

	// ListEvents returns events ordered by primary date, then creation time.
	// Unless IncludeExpired is set, events expiring before params.Today are skipped.
	ListEvents(ctx context.Context, params domain.ListEventsParams) (*domain.PagedEvents, error)

	// FindExpiredEvents returns up to limit non-archived events whose expiration is before today.
	FindExpiredEvents(ctx context.Context, today string, limit int) ([]*domain.Event, error)

	// ArchiveEvents marks the given events archived and returns how many changed.
	ArchiveEvents(ctx context.Context, ids []string, at time.Time) (int, error)
}
