package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Expiration(t *testing.T) {
	t.Run("recurring event stays until its last date", func(t *testing.T) {
		e := &Event{
			PrimaryDate:    "2026-02-10",
			IsRecurring:    true,
			RecurringDates: []string{"2026-02-10", "2026-02-15", "2026-02-20"},
		}
		exp := e.ExpiresOn()
		require.NotNil(t, exp)
		assert.Equal(t, "2026-02-20", *exp)
		assert.True(t, e.IsCurrent("2026-02-20"))
		assert.False(t, e.IsCurrent("2026-02-21"))
		assert.Equal(t, e.RecurringDates, e.Occurrences())
	})

	t.Run("single event", func(t *testing.T) {
		e := &Event{PrimaryDate: "2026-05-01"}
		require.NotNil(t, e.ExpiresOn())
		assert.Equal(t, "2026-05-01", *e.ExpiresOn())
		assert.Equal(t, []string{"2026-05-01"}, e.Occurrences())
	})

	t.Run("undated event", func(t *testing.T) {
		e := &Event{}
		assert.Nil(t, e.ExpiresOn())
		assert.True(t, e.IsCurrent("2030-01-01"))
		assert.Empty(t, e.Occurrences())
	})
}
