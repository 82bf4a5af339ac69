package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/application/flyer"
	"github.com/flyerhub/flyerd/internal/application/sweeper"
)

// Store keeps events and analyses in PostgreSQL. It serves the event, flyer
// and sweeper repositories.
type Store struct {
	pool *pgxpool.Pool
	db   querier
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ event.Repository   = (*Store)(nil)
	_ flyer.Repository   = (*Store)(nil)
	_ sweeper.Repository = (*Store)(nil)
)

// NewStore wraps an open pool. Migrations are the caller's job.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		db:   pool,
	}
}

// Pool exposes the pool for tests and maintenance queries.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// inTx runs fn against a transaction-bound Store. pgx.BeginTxFunc commits when
// fn returns nil and rolls back on error or panic.
func (s *Store) inTx(ctx context.Context, operation string, opts pgx.TxOptions, fn func(tx *Store) error) error {
	start := time.Now()

	err := pgx.BeginTxFunc(ctx, s.pool, opts, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, db: tx})
	})
	if err != nil {
		slog.WarnContext(ctx, "Transaction rolled back",
			"operation", operation,
			"error", err)
		return err
	}

	slog.DebugContext(ctx, "Transaction committed",
		"operation", operation,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
