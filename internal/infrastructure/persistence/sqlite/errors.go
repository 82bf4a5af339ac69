package sqlite

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/flyerhub/flyerd/internal/domain"
)

// translateError maps SQLite extended result codes onto domain errors.
func translateError(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	if sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		// events.analysis_id is the only foreign key.
		return fmt.Errorf("%w: %w", domain.ErrAnalysisNotFound, err)
	}
	return err
}
