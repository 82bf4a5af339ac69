package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flyerhub/flyerd/internal/domain"
)

// translateError maps PostgreSQL error codes onto domain errors.
// Errors it does not recognize are returned unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		// events.analysis_id is the only foreign key.
		return fmt.Errorf("%w: %s", domain.ErrAnalysisNotFound, pgErr.Detail)
	case pgerrcode.InvalidTextRepresentation:
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}
	return err
}
