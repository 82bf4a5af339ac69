package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flyerhub/flyerd/internal/domain"
)

// Repository is the storage the sweeper needs.
type Repository interface {
	FindExpiredEvents(ctx context.Context, today string, limit int) ([]*domain.Event, error)
	ArchiveEvents(ctx context.Context, ids []string, at time.Time) (int, error)
}

// Sweeper archives events once their last occurrence has passed.
type Sweeper struct {
	repo             Repository
	schedule         cron.Schedule
	spec             string
	location         *time.Location
	operationTimeout time.Duration
	batchSize        int
	runOnStart       bool
	now              func() time.Time
}

// Option is a functional option for configuring Sweeper.
type Option func(*Sweeper)

// WithLocation sets the timezone "today" is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Sweeper) {
		s.location = loc
	}
}

// WithOperationTimeout sets the timeout for one sweep.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *Sweeper) {
		s.operationTimeout = d
	}
}

// WithBatchSize sets how many events are archived per storage round trip.
func WithBatchSize(n int) Option {
	return func(s *Sweeper) {
		s.batchSize = n
	}
}

// WithRunOnStart runs a sweep as soon as Start is called.
func WithRunOnStart(enabled bool) Option {
	return func(s *Sweeper) {
		s.runOnStart = enabled
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// New creates a Sweeper running on the given cron spec ("@every 1h", "0 3 * * *").
func New(repo Repository, spec string, opts ...Option) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	s := &Sweeper{
		repo:             repo,
		schedule:         schedule,
		spec:             spec,
		location:         time.UTC,
		operationTimeout: 30 * time.Second,
		batchSize:        500,
		runOnStart:       true,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.batchSize <= 0 {
		s.batchSize = 500
	}

	return s, nil
}

// Start runs sweeps on schedule until ctx is cancelled, then waits for a running
// sweep to finish. Overlapping runs are skipped.
func (s *Sweeper) Start(ctx context.Context) error {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(s.runScheduled))

	slog.InfoContext(ctx, "Event sweeper started", "schedule", s.spec, "timezone", s.location.String())

	if s.runOnStart {
		s.runScheduled()
	}

	c.Start()
	<-ctx.Done()

	slog.InfoContext(ctx, "Shutdown requested, waiting for running sweep...")
	<-c.Stop().Done()
	slog.InfoContext(ctx, "Event sweeper stopped gracefully")
	return nil
}

func (s *Sweeper) runScheduled() {
	opCtx, cancel := context.WithTimeout(context.Background(), s.operationTimeout)
	defer cancel()

	if _, err := s.RunOnce(opCtx); err != nil {
		slog.ErrorContext(opCtx, "Error sweeping expired events", "error", err)
	}
}

// RunOnce archives every event whose effective expiration is before today and
// returns how many were archived.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	today := now.In(s.location).Format(domain.DateLayout)
	total := 0

	for {
		candidates, err := s.repo.FindExpiredEvents(ctx, today, s.batchSize)
		if err != nil {
			return total, fmt.Errorf("failed to find expired events: %w", err)
		}

		ids := make([]string, 0, len(candidates))
		for _, e := range candidates {
			if !e.IsCurrent(today) {
				ids = append(ids, e.ID)
			}
		}
		if len(ids) == 0 {
			break
		}

		archived, err := s.repo.ArchiveEvents(ctx, ids, now.UTC())
		if err != nil {
			return total, fmt.Errorf("failed to archive events: %w", err)
		}
		total += archived

		if len(candidates) < s.batchSize || archived == 0 {
			break
		}
	}

	if total > 0 {
		slog.InfoContext(ctx, "Archived expired events", "count", total, "today", today)
	}
	return total, nil
}

// cronLogger routes robfig/cron logs to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
