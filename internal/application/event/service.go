package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/recurring"
)

// Default configuration values.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200

	// feedLimit caps how many events the calendar feed renders.
	feedLimit = 2000
)

// Config holds configuration for the Service.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int

	// Location is the timezone "today" is computed in.
	Location *time.Location
}

// CreateEventInput describes a new event.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartTime   string
	PrimaryDate string

	IsRecurring    bool
	RecurringDates []string

	// SpecificDays lists day numbers of a non-recurring event held on several
	// days of the primary date's month ("13 y 14 de febrero").
	SpecificDays []int
	PatternKind  recurring.Kind

	ImageURL   string
	AnalysisID *string
	Source     domain.Source
}

// ListEventsInput holds listing options coming from callers.
type ListEventsInput struct {
	IncludeExpired bool
	Limit          int
	Offset         int
}

// Service provides business logic for events.
type Service struct {
	repo   Repository
	config Config
	now    func() time.Time
}

// Option is a functional option for configuring Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new event service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, config Config, opts ...Option) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	s := &Service{
		repo:   repo,
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current date in the configured timezone.
func (s *Service) Today() string {
	return s.now().In(s.config.Location).Format(domain.DateLayout)
}

// CreateEvent validates and stores a new event.
//
// A non-recurring event with two or more specific days is expanded inside the
// primary date's month and stored with its dates so it stays listed until the
// last one. Recurring dates supplied by the caller are validated, sorted and
// deduplicated.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	title, err := domain.NewTitle(input.Title)
	if err != nil {
		return nil, err
	}

	primary := ""
	if input.PrimaryDate != "" {
		if primary, err = domain.ParseISODate(input.PrimaryDate); err != nil {
			return nil, err
		}
	}

	if err := domain.ValidateDays(input.SpecificDays); err != nil {
		return nil, err
	}

	isRecurring := input.IsRecurring
	kind := input.PatternKind
	var dates []string

	switch {
	case isRecurring:
		if dates, err = domain.NormalizeDates(input.RecurringDates); err != nil {
			return nil, err
		}
		if primary == "" && len(dates) > 0 {
			primary = dates[0]
		}
		if kind == "" {
			kind = recurring.KindWeekdayRecurring
		}

	case primary != "" && len(input.SpecificDays) > 0:
		if expanded := recurring.ExpandExplicitDays(primary, input.SpecificDays); len(expanded) >= 2 {
			dates = expanded
			isRecurring = true
			kind = recurring.KindExplicitDays
		} else {
			kind = recurring.KindNone
		}

	default:
		kind = recurring.KindNone
	}

	source := input.Source
	if source == "" {
		source = domain.SourceManual
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.now().UTC()
	event := &domain.Event{
		ID:             id.String(),
		Title:          title.String(),
		Description:    input.Description,
		Location:       input.Location,
		StartTime:      input.StartTime,
		PrimaryDate:    primary,
		IsRecurring:    isRecurring,
		RecurringDates: dates,
		PatternKind:    kind,
		ImageURL:       input.ImageURL,
		AnalysisID:     input.AnalysisID,
		Source:         source,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return created, nil
}

// GetEvent retrieves an event by ID.
func (s *Service) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	return s.repo.FindEventByID(ctx, id)
}

// DeleteEvent removes an event by ID.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// ListCurrentEvents lists events that are still current today in the configured
// timezone. Archived events are never listed; expired ones only on request.
func (s *Service) ListCurrentEvents(ctx context.Context, input ListEventsInput) (*domain.PagedEvents, error) {
	params := domain.ListEventsParams{
		Today:          s.Today(),
		IncludeExpired: input.IncludeExpired,
		Limit:          input.Limit,
		Offset:         max(input.Offset, 0),
	}
	if params.Limit <= 0 {
		params.Limit = s.config.DefaultPageSize
	}
	params.Limit = min(params.Limit, s.config.MaxPageSize)

	result, err := s.repo.ListEvents(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	result.NextOffset = params.Offset + len(result.Events)

	if !params.IncludeExpired {
		current := result.Events[:0]
		for _, e := range result.Events {
			if e.IsCurrent(params.Today) {
				current = append(current, e)
			}
		}
		result.Events = current
	}

	return result, nil
}

// FeedEvents returns every current event for the calendar feed.
func (s *Service) FeedEvents(ctx context.Context) ([]*domain.Event, error) {
	result, err := s.repo.ListEvents(ctx, domain.ListEventsParams{
		Today: s.Today(),
		Limit: feedLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list feed events: %w", err)
	}
	return result.Events, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}
