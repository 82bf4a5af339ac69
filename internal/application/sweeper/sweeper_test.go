package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerhub/flyerd/internal/domain"
)

type mockRepository struct {
	findExpiredFunc func(ctx context.Context, today string, limit int) ([]*domain.Event, error)
	archiveFunc     func(ctx context.Context, ids []string, at time.Time) (int, error)
}

func (m *mockRepository) FindExpiredEvents(ctx context.Context, today string, limit int) ([]*domain.Event, error) {
	if m.findExpiredFunc != nil {
		return m.findExpiredFunc(ctx, today, limit)
	}
	return nil, nil
}

func (m *mockRepository) ArchiveEvents(ctx context.Context, ids []string, at time.Time) (int, error) {
	if m.archiveFunc != nil {
		return m.archiveFunc(ctx, ids, at)
	}
	return len(ids), nil
}

func clock() time.Time {
	return time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New(&mockRepository{}, "every hour please")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sweep schedule")
}

func TestRunOnce_ArchivesOnlyExpired(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	var gotToday string
	var archived []string
	repo := &mockRepository{
		findExpiredFunc: func(_ context.Context, today string, _ int) ([]*domain.Event, error) {
			gotToday = today
			return []*domain.Event{
				{ID: "ended", PrimaryDate: "2026-02-20"},
				{ID: "still-recurring", PrimaryDate: "2026-02-06", IsRecurring: true, RecurringDates: []string{"2026-02-06", "2026-03-06"}},
				{ID: "last-day-today", PrimaryDate: "2026-02-28"},
			}, nil
		},
		archiveFunc: func(_ context.Context, ids []string, at time.Time) (int, error) {
			archived = append(archived, ids...)
			assert.Equal(t, clock(), at)
			return len(ids), nil
		},
	}

	s, err := New(repo, "@every 1h", WithLocation(loc), WithClock(clock))
	require.NoError(t, err)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	// 02:00 UTC on March 1st is still February 28th in Mexico City.
	assert.Equal(t, "2026-02-28", gotToday)
	assert.Equal(t, []string{"ended"}, archived)
	assert.Equal(t, 1, n)
}

func TestRunOnce_Batches(t *testing.T) {
	pending := 5
	repo := &mockRepository{
		findExpiredFunc: func(_ context.Context, _ string, limit int) ([]*domain.Event, error) {
			n := min(limit, pending)
			out := make([]*domain.Event, n)
			for i := range out {
				out[i] = &domain.Event{ID: "e", PrimaryDate: "2026-01-01"}
			}
			return out, nil
		},
		archiveFunc: func(_ context.Context, ids []string, _ time.Time) (int, error) {
			pending -= len(ids)
			return len(ids), nil
		},
	}

	s, err := New(repo, "@every 1h", WithBatchSize(2), WithClock(clock))
	require.NoError(t, err)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 0, pending)
}

func TestRunOnce_Errors(t *testing.T) {
	boom := errors.New("db down")

	s, err := New(&mockRepository{findExpiredFunc: func(context.Context, string, int) ([]*domain.Event, error) {
		return nil, boom
	}}, "@daily")
	require.NoError(t, err)
	_, err = s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)

	s, err = New(&mockRepository{
		findExpiredFunc: func(context.Context, string, int) ([]*domain.Event, error) {
			return []*domain.Event{{ID: "x", PrimaryDate: "2000-01-01"}}, nil
		},
		archiveFunc: func(context.Context, []string, time.Time) (int, error) { return 0, boom },
	}, "@daily")
	require.NoError(t, err)
	_, err = s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to archive events")
}

func TestStart_RunsOnStartAndStops(t *testing.T) {
	var calls atomic.Int32
	repo := &mockRepository{findExpiredFunc: func(context.Context, string, int) ([]*domain.Event, error) {
		calls.Add(1)
		return nil, nil
	}}

	s, err := New(repo, "@every 1h", WithRunOnStart(true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
