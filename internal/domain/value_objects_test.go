package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTitle(t *testing.T) {
	title, err := NewTitle("  Noche de salsa  ")
	require.NoError(t, err)
	assert.Equal(t, "Noche de salsa", title.String())

	_, err = NewTitle("   ")
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = NewTitle(strings.Repeat("á", 255))
	assert.NoError(t, err, "length is counted in characters")

	_, err = NewTitle(strings.Repeat("a", 256))
	assert.ErrorIs(t, err, ErrTitleTooLong)
}

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate(" 2026-02-13 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-13", got)

	for _, bad := range []string{"", "2026-2-13", "13/02/2026", "2026-02-30"} {
		_, err := ParseISODate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestNormalizeDates(t *testing.T) {
	got, err := NormalizeDates([]string{"2026-02-20", "2026-02-06", "2026-02-20"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-06", "2026-02-20"}, got)

	_, err = NormalizeDates([]string{"2026-02-06", "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestValidateDays(t *testing.T) {
	assert.NoError(t, ValidateDays([]int{1, 31}))
	assert.ErrorIs(t, ValidateDays([]int{13, 0}), ErrInvalidDays)
	assert.ErrorIs(t, ValidateDays([]int{32}), ErrInvalidDays)
}
