// Package compliance holds the repository contract every persistence backend must honor.
package compliance

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/application/flyer"
	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/recurring"
)

// Store is what a persistence backend provides.
type Store interface {
	event.Repository
	flyer.Repository
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func newEvent(t *testing.T, title, primary string, dates ...string) *domain.Event {
	t.Helper()
	return &domain.Event{
		ID:             newID(t),
		Title:          title,
		PrimaryDate:    primary,
		IsRecurring:    len(dates) > 0,
		RecurringDates: dates,
		PatternKind:    recurring.KindNone,
		Source:         domain.SourceManual,
		CreatedAt:      baseTime,
		UpdatedAt:      baseTime,
	}
}

func titles(events []*domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Title)
	}
	return out
}

// RunRepositoryComplianceTest runs the shared repository contract against a backend.
// setup returns an empty store and a cleanup function.
func RunRepositoryComplianceTest(t *testing.T, setup func(t *testing.T) (Store, func())) {
	t.Run("CreateAndFindEvent", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		e := newEvent(t, "Noche de salsa", "2026-03-06", "2026-03-06", "2026-03-13", "2026-03-20")
		e.Description = "Clases y baile"
		e.Location = "Centro"
		e.StartTime = "20:00"
		e.PatternKind = recurring.KindWeekdayRecurring
		e.ImageURL = "/images/flyers/x.png"

		created, err := store.CreateEvent(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, e.ID, created.ID)

		found, err := store.FindEventByID(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.Title, found.Title)
		assert.Equal(t, e.Description, found.Description)
		assert.Equal(t, e.Location, found.Location)
		assert.Equal(t, e.StartTime, found.StartTime)
		assert.Equal(t, "2026-03-06", found.PrimaryDate)
		assert.True(t, found.IsRecurring)
		assert.Equal(t, []string{"2026-03-06", "2026-03-13", "2026-03-20"}, found.RecurringDates)
		assert.Equal(t, recurring.KindWeekdayRecurring, found.PatternKind)
		assert.Equal(t, e.ImageURL, found.ImageURL)
		assert.Equal(t, domain.SourceManual, found.Source)
		assert.Nil(t, found.AnalysisID)
		assert.Nil(t, found.ArchivedAt)
		assert.WithinDuration(t, baseTime, found.CreatedAt, time.Millisecond)
		assert.Equal(t, time.UTC, found.CreatedAt.Location())
	})

	t.Run("EventWithoutDates", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		e := newEvent(t, "Sin fecha", "")
		_, err := store.CreateEvent(ctx, e)
		require.NoError(t, err)

		found, err := store.FindEventByID(ctx, e.ID)
		require.NoError(t, err)
		assert.Empty(t, found.PrimaryDate)
		assert.False(t, found.IsRecurring)
		assert.Empty(t, found.RecurringDates)
		assert.Nil(t, found.ExpiresOn())
	})

	t.Run("FindEventErrors", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		_, err := store.FindEventByID(ctx, newID(t))
		assert.ErrorIs(t, err, domain.ErrEventNotFound)

		_, err = store.FindEventByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("DeleteEvent", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		e := newEvent(t, "Borrar", "2026-03-10")
		_, err := store.CreateEvent(ctx, e)
		require.NoError(t, err)

		require.NoError(t, store.DeleteEvent(ctx, e.ID))

		_, err = store.FindEventByID(ctx, e.ID)
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
		assert.ErrorIs(t, store.DeleteEvent(ctx, e.ID), domain.ErrEventNotFound)
	})

	t.Run("ListEventsFiltersExpired", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		fixtures := []*domain.Event{
			newEvent(t, "past", "2026-03-01"),
			newEvent(t, "today", "2026-03-10"),
			newEvent(t, "future", "2026-04-01"),
			newEvent(t, "undated", ""),
			newEvent(t, "recurring-current", "2026-03-02", "2026-03-02", "2026-03-20"),
			newEvent(t, "recurring-past", "2026-02-01", "2026-02-01", "2026-02-08"),
		}
		for _, e := range fixtures {
			_, err := store.CreateEvent(ctx, e)
			require.NoError(t, err)
		}

		page, err := store.ListEvents(ctx, domain.ListEventsParams{Today: "2026-03-10", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"recurring-current", "today", "future", "undated"}, titles(page.Events))
		assert.Equal(t, 4, page.TotalCount)
		assert.False(t, page.HasMore)

		all, err := store.ListEvents(ctx, domain.ListEventsParams{Today: "2026-03-10", IncludeExpired: true, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 6, all.TotalCount)
		assert.Equal(t, []string{"recurring-past", "past", "recurring-current", "today", "future", "undated"}, titles(all.Events))
	})

	t.Run("ListEventsPagination", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		for i, date := range []string{"2026-05-01", "2026-05-02", "2026-05-03", "2026-05-04", "2026-05-05"} {
			e := newEvent(t, date, date)
			e.CreatedAt = baseTime.Add(time.Duration(i) * time.Minute)
			_, err := store.CreateEvent(ctx, e)
			require.NoError(t, err)
		}

		first, err := store.ListEvents(ctx, domain.ListEventsParams{Today: "2026-03-10", Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-05-01", "2026-05-02"}, titles(first.Events))
		assert.Equal(t, 5, first.TotalCount)
		assert.True(t, first.HasMore)

		last, err := store.ListEvents(ctx, domain.ListEventsParams{Today: "2026-03-10", Limit: 2, Offset: 4})
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-05-05"}, titles(last.Events))
		assert.False(t, last.HasMore)

		beyond, err := store.ListEvents(ctx, domain.ListEventsParams{Today: "2026-03-10", Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, beyond.Events)
		assert.NotNil(t, beyond.Events)
	})

	t.Run("ListEventsSameDateByCreation", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		later := newEvent(t, "later", "2026-05-01")
		later.CreatedAt = baseTime.Add(time.Hour)
		earlier := newEvent(t, "earlier", "2026-05-01")
		for _, e := range []*domain.Event{later, earlier} {
			_, err := store.CreateEvent(ctx, e)
			require.NoError(t, err)
		}

		page, err := store.ListEvents(ctx, domain.ListEventsParams{Today: "2026-03-10", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"earlier", "later"}, titles(page.Events))
	})

	t.Run("ExpiredEventsAndArchival", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		old := newEvent(t, "old", "2026-01-15")
		older := newEvent(t, "older", "2025-12-31", "2025-12-01", "2025-12-31")
		current := newEvent(t, "current", "2026-03-10")
		undated := newEvent(t, "undated", "")
		for _, e := range []*domain.Event{old, older, current, undated} {
			_, err := store.CreateEvent(ctx, e)
			require.NoError(t, err)
		}

		expired, err := store.FindExpiredEvents(ctx, "2026-03-10", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"older", "old"}, titles(expired))

		limited, err := store.FindExpiredEvents(ctx, "2026-03-10", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"older"}, titles(limited))

		at := baseTime.Add(24 * time.Hour)
		n, err := store.ArchiveEvents(ctx, []string{old.ID, older.ID}, at)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = store.ArchiveEvents(ctx, []string{old.ID}, at)
		require.NoError(t, err)
		assert.Equal(t, 0, n, "archiving twice changes nothing")

		n, err = store.ArchiveEvents(ctx, nil, at)
		require.NoError(t, err)
		assert.Zero(t, n)

		expired, err = store.FindExpiredEvents(ctx, "2026-03-10", 10)
		require.NoError(t, err)
		assert.Empty(t, expired)

		found, err := store.FindEventByID(ctx, old.ID)
		require.NoError(t, err)
		require.NotNil(t, found.ArchivedAt)
		assert.WithinDuration(t, at, *found.ArchivedAt, time.Millisecond)

		page, err := store.ListEvents(ctx, domain.ListEventsParams{Today: "2026-03-10", IncludeExpired: true, Limit: 10})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"current", "undated"}, titles(page.Events))

		withArchived, err := store.ListEvents(ctx, domain.ListEventsParams{
			Today: "2026-03-10", IncludeExpired: true, IncludeArchived: true, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, withArchived.TotalCount)
	})

	t.Run("AnalysisRoundTrip", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		pattern, err := json.Marshal(recurring.Pattern{
			Kind:       recurring.KindWeekdayRecurring,
			Weekdays:   []time.Weekday{time.Friday},
			MonthStart: recurring.YearMonth{Year: 2026, Month: time.March},
			MonthEnd:   recurring.YearMonth{Year: 2026, Month: time.March},
		})
		require.NoError(t, err)
		expires := "2026-03-27"

		a := &domain.Analysis{
			ID:          newID(t),
			ImageURL:    "/images/flyers/a.png",
			ImageKey:    "flyers/a.png",
			Source:      domain.SourceUpload,
			Model:       "gpt-4o-mini",
			RawResponse: `{"title":"Viernes de jazz"}`,
			Extracted:   domain.ExtractedFields{Title: "Viernes de jazz", Time: "21:00"},
			Guess: recurring.Guess{
				IsRecurring:        true,
				PatternDescription: "todos los viernes",
				Weekdays:           recurring.WeekdayNames{"viernes"},
			},
			PatternKind:    recurring.KindWeekdayRecurring,
			Pattern:        pattern,
			PrimaryDate:    "2026-03-06",
			IsRecurring:    true,
			RecurringDates: []string{"2026-03-06", "2026-03-13", "2026-03-20", "2026-03-27"},
			ExpiresOn:      &expires,
			CreatedAt:      baseTime,
		}

		_, err = store.CreateAnalysis(ctx, a)
		require.NoError(t, err)

		found, err := store.FindAnalysisByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ImageURL, found.ImageURL)
		assert.Equal(t, a.ImageKey, found.ImageKey)
		assert.Equal(t, a.Source, found.Source)
		assert.Equal(t, a.Model, found.Model)
		assert.Equal(t, a.RawResponse, found.RawResponse)
		assert.Equal(t, a.Extracted, found.Extracted)
		assert.Equal(t, a.Guess, found.Guess)
		assert.Equal(t, a.PatternKind, found.PatternKind)
		assert.JSONEq(t, string(pattern), string(found.Pattern))
		assert.Equal(t, a.PrimaryDate, found.PrimaryDate)
		assert.True(t, found.IsRecurring)
		assert.Equal(t, a.RecurringDates, found.RecurringDates)
		require.NotNil(t, found.ExpiresOn)
		assert.Equal(t, expires, *found.ExpiresOn)
		assert.Nil(t, found.EventID)
		assert.WithinDuration(t, baseTime, found.CreatedAt, time.Millisecond)
	})

	t.Run("AnalysisErrors", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		_, err := store.FindAnalysisByID(ctx, newID(t))
		assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)

		_, err = store.FindAnalysisByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrInvalidID)

		err = store.AttachEvent(ctx, newID(t), newID(t))
		assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
	})

	t.Run("CreateEventWithUnknownAnalysis", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		e := newEvent(t, "orphan", "2026-03-01")
		missing := newID(t)
		e.AnalysisID = &missing

		_, err := store.CreateEvent(ctx, e)
		assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
	})

	t.Run("AttachAndDetachEvent", func(t *testing.T) {
		store, teardown := setup(t)
		defer teardown()
		ctx := context.Background()

		a := &domain.Analysis{
			ID:          newID(t),
			ImageURL:    "https://example.com/flyer.jpg",
			Source:      domain.SourceURL,
			PatternKind: recurring.KindNone,
			PrimaryDate: "2026-03-14",
			CreatedAt:   baseTime,
		}
		_, err := store.CreateAnalysis(ctx, a)
		require.NoError(t, err)

		e := newEvent(t, "Concierto", "2026-03-14")
		e.AnalysisID = &a.ID
		e.Source = domain.SourceURL
		_, err = store.CreateEvent(ctx, e)
		require.NoError(t, err)

		require.NoError(t, store.AttachEvent(ctx, a.ID, e.ID))

		found, err := store.FindAnalysisByID(ctx, a.ID)
		require.NoError(t, err)
		require.NotNil(t, found.EventID)
		assert.Equal(t, e.ID, *found.EventID)

		foundEvent, err := store.FindEventByID(ctx, e.ID)
		require.NoError(t, err)
		require.NotNil(t, foundEvent.AnalysisID)
		assert.Equal(t, a.ID, *foundEvent.AnalysisID)

		require.NoError(t, store.DeleteEvent(ctx, e.ID))

		found, err = store.FindAnalysisByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Nil(t, found.EventID, "deleting the event detaches the analysis")
	})
}
