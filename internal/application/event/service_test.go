package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/recurring"
)

// fakeRepo records calls; unset funcs panic so tests notice unexpected use.
type fakeRepo struct {
	createFn      func(ctx context.Context, e *domain.Event) (*domain.Event, error)
	findFn        func(ctx context.Context, id string) (*domain.Event, error)
	deleteFn      func(ctx context.Context, id string) error
	listFn        func(ctx context.Context, params domain.ListEventsParams) (*domain.PagedEvents, error)
	findExpiredFn func(ctx context.Context, today string, limit int) ([]*domain.Event, error)
	archiveFn     func(ctx context.Context, ids []string, at time.Time) (int, error)
}

func (f *fakeRepo) CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if f.createFn == nil {
		return e, nil
	}
	return f.createFn(ctx, e)
}

func (f *fakeRepo) FindEventByID(ctx context.Context, id string) (*domain.Event, error) {
	return f.findFn(ctx, id)
}

func (f *fakeRepo) DeleteEvent(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeRepo) ListEvents(ctx context.Context, params domain.ListEventsParams) (*domain.PagedEvents, error) {
	return f.listFn(ctx, params)
}

func (f *fakeRepo) FindExpiredEvents(ctx context.Context, today string, limit int) ([]*domain.Event, error) {
	return f.findExpiredFn(ctx, today, limit)
}

func (f *fakeRepo) ArchiveEvents(ctx context.Context, ids []string, at time.Time) (int, error) {
	return f.archiveFn(ctx, ids, at)
}

// fixedClock returns 2026-02-14 03:00 UTC, which is still 2026-02-13 in Mexico City.
func fixedClock() time.Time {
	return time.Date(2026, 2, 14, 3, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	return NewService(repo, Config{Location: loc}, WithClock(fixedClock))
}

func TestService_Today(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})
	assert.Equal(t, "2026-02-13", svc.Today())

	utc := NewService(&fakeRepo{}, Config{}, WithClock(fixedClock))
	assert.Equal(t, "2026-02-14", utc.Today())
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("single date", func(t *testing.T) {
		svc := newTestService(t, &fakeRepo{})
		e, err := svc.CreateEvent(ctx, CreateEventInput{Title: " Concierto ", PrimaryDate: "2026-05-01"})
		require.NoError(t, err)

		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "Concierto", e.Title)
		assert.False(t, e.IsRecurring)
		assert.Empty(t, e.RecurringDates)
		assert.Equal(t, recurring.KindNone, e.PatternKind)
		assert.Equal(t, domain.SourceManual, e.Source)
		assert.Equal(t, fixedClock(), e.CreatedAt)
	})

	t.Run("explicit days expand within the primary month", func(t *testing.T) {
		svc := newTestService(t, &fakeRepo{})
		e, err := svc.CreateEvent(ctx, CreateEventInput{
			Title:        "Feria",
			PrimaryDate:  "2026-02-13",
			SpecificDays: []int{14, 13},
		})
		require.NoError(t, err)

		assert.True(t, e.IsRecurring)
		assert.Equal(t, recurring.KindExplicitDays, e.PatternKind)
		assert.Equal(t, []string{"2026-02-13", "2026-02-14"}, e.RecurringDates)
		require.NotNil(t, e.ExpiresOn())
		assert.Equal(t, "2026-02-14", *e.ExpiresOn())
	})

	t.Run("single specific day stays a single event", func(t *testing.T) {
		svc := newTestService(t, &fakeRepo{})
		e, err := svc.CreateEvent(ctx, CreateEventInput{Title: "Feria", PrimaryDate: "2026-02-13", SpecificDays: []int{13}})
		require.NoError(t, err)
		assert.False(t, e.IsRecurring)
		assert.Empty(t, e.RecurringDates)
	})

	t.Run("recurring dates are normalized", func(t *testing.T) {
		svc := newTestService(t, &fakeRepo{})
		e, err := svc.CreateEvent(ctx, CreateEventInput{
			Title:          "Salsa",
			IsRecurring:    true,
			RecurringDates: []string{"2026-02-20", "2026-02-06", "2026-02-13", "2026-02-06"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"2026-02-06", "2026-02-13", "2026-02-20"}, e.RecurringDates)
		assert.Equal(t, "2026-02-06", e.PrimaryDate)
		assert.Equal(t, recurring.KindWeekdayRecurring, e.PatternKind)
	})

	t.Run("validation", func(t *testing.T) {
		svc := newTestService(t, &fakeRepo{})

		_, err := svc.CreateEvent(ctx, CreateEventInput{Title: ""})
		assert.ErrorIs(t, err, domain.ErrTitleRequired)

		_, err = svc.CreateEvent(ctx, CreateEventInput{Title: "x", PrimaryDate: "mañana"})
		assert.ErrorIs(t, err, domain.ErrInvalidDate)

		_, err = svc.CreateEvent(ctx, CreateEventInput{Title: "x", IsRecurring: true, RecurringDates: []string{"2026-02-31"}})
		assert.ErrorIs(t, err, domain.ErrInvalidDate)

		_, err = svc.CreateEvent(ctx, CreateEventInput{Title: "x", PrimaryDate: "2026-02-13", SpecificDays: []int{13, 40}})
		assert.ErrorIs(t, err, domain.ErrInvalidDays)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		svc := newTestService(t, &fakeRepo{createFn: func(context.Context, *domain.Event) (*domain.Event, error) {
			return nil, boom
		}})
		_, err := svc.CreateEvent(ctx, CreateEventInput{Title: "x"})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to create event")
	})
}

func TestGetAndDeleteEvent_InvalidID(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.GetEvent(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	assert.ErrorIs(t, svc.DeleteEvent(context.Background(), ""), domain.ErrInvalidID)
}

func TestDeleteEvent_NotFound(t *testing.T) {
	svc := newTestService(t, &fakeRepo{deleteFn: func(context.Context, string) error {
		return domain.ErrEventNotFound
	}})

	err := svc.DeleteEvent(context.Background(), "01939a6e-8f00-7000-8000-000000000001")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestListCurrentEvents(t *testing.T) {
	weekly := &domain.Event{
		ID:             "weekly",
		PrimaryDate:    "2026-02-06",
		IsRecurring:    true,
		RecurringDates: []string{"2026-02-06", "2026-02-13", "2026-02-20"},
	}
	past := &domain.Event{ID: "past", PrimaryDate: "2026-02-12"}
	undated := &domain.Event{ID: "undated"}

	var captured domain.ListEventsParams
	repo := &fakeRepo{listFn: func(_ context.Context, params domain.ListEventsParams) (*domain.PagedEvents, error) {
		captured = params
		return &domain.PagedEvents{Events: []*domain.Event{weekly, past, undated}, TotalCount: 3}, nil
	}}
	svc := newTestService(t, repo)

	t.Run("filters expired with today in the configured zone", func(t *testing.T) {
		result, err := svc.ListCurrentEvents(context.Background(), ListEventsInput{Limit: 1000, Offset: -4})
		require.NoError(t, err)

		assert.Equal(t, "2026-02-13", captured.Today)
		assert.Equal(t, MaxPageSize, captured.Limit)
		assert.Equal(t, 0, captured.Offset)

		ids := make([]string, 0, len(result.Events))
		for _, e := range result.Events {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{"weekly", "undated"}, ids)
		assert.Equal(t, 3, result.NextOffset, "next page starts after every row read, filtered or not")
	})

	t.Run("include expired", func(t *testing.T) {
		result, err := svc.ListCurrentEvents(context.Background(), ListEventsInput{IncludeExpired: true})
		require.NoError(t, err)

		assert.True(t, captured.IncludeExpired)
		assert.Equal(t, DefaultPageSize, captured.Limit)
		assert.Len(t, result.Events, 3)
	})
}
