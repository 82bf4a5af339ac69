package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/application/flyer"
	"github.com/flyerhub/flyerd/internal/application/sweeper"
)

// Store is the SQLite implementation of the repository interfaces. It backs
// local development and single-node deployments.
type Store struct {
	conn *sql.DB
	db   querier
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ event.Repository   = (*Store)(nil)
	_ flyer.Repository   = (*Store)(nil)
	_ sweeper.Repository = (*Store)(nil)
)

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{conn: db, db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.conn
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// executeInTransaction runs fn inside a transaction, committing when it returns nil.
func (s *Store) executeInTransaction(ctx context.Context, operationName string, opts *sql.TxOptions, fn func(txStore *Store) error) (err error) {
	start := time.Now().UTC()

	tx, err := s.conn.BeginTx(ctx, opts)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction",
			"operation", operationName,
			"error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "rollback failed",
					"operation", operationName,
					"original_error", err,
					"rollback_error", rbErr)
			}
			return
		}
		if err = tx.Commit(); err != nil {
			slog.ErrorContext(ctx, "transaction commit failed",
				"operation", operationName,
				"error", err)
			return
		}
		slog.DebugContext(ctx, "transaction completed",
			"operation", operationName,
			"duration_ms", time.Since(start).Milliseconds())
	}()

	err = fn(&Store{conn: s.conn, db: tx})
	return
}
