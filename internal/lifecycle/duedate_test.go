package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveDueBareDate(t *testing.T) {
	due := ResolveDue("2024-10-10", "")
	require.NotNil(t, due)
	require.Equal(t, time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC), due.UTC())
}

func TestResolveDueRFC3339(t *testing.T) {
	due := ResolveDue("2024-10-10T18:30:00Z", "")
	require.NotNil(t, due)
	require.Equal(t, time.Date(2024, 10, 10, 18, 30, 0, 0, time.UTC), due.UTC())
}

func TestResolveDueTimeOverride(t *testing.T) {
	due := ResolveDue("2024-10-10T18:30:45Z", "09:15")
	require.NotNil(t, due)
	require.Equal(t, time.Date(2024, 10, 10, 9, 15, 0, 0, time.UTC), due.UTC())

	// invalid time of day is ignored, the date's own time wins
	due = ResolveDue("2024-10-10T18:30:00Z", "25:70")
	require.NotNil(t, due)
	require.Equal(t, 18, due.Hour())

	due = ResolveDue("2024-10-10", "14:00")
	require.NotNil(t, due)
	require.Equal(t, time.Date(2024, 10, 10, 14, 0, 0, 0, time.UTC), due.UTC())
}

func TestResolveDueUnparseable(t *testing.T) {
	require.Nil(t, ResolveDue("", "12:00"))
	require.Nil(t, ResolveDue("next tuesday", ""))
	require.Nil(t, ResolveDue("10.10.2024", "12:00"))
}

func TestShowTime(t *testing.T) {
	midnight := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 10, 10, 19, 0, 0, 0, time.UTC)

	require.False(t, ShowTime(midnight, ""))
	require.True(t, ShowTime(midnight, "00:00")) // explicit time always shows
	require.True(t, ShowTime(evening, ""))
}

func TestFormatDueLabel(t *testing.T) {
	due := time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)

	require.Equal(t, "10.10.2024 12:00", FormatDueLabel(due, "", true))
	require.Equal(t, "10.10.2024", FormatDueLabel(due, "", false))
	// Moscow is UTC+3
	require.Equal(t, "10.10.2024 15:00", FormatDueLabel(due, "Europe/Moscow", true))
	// invalid timezone falls back to the stored instant
	require.Equal(t, "10.10.2024 12:00", FormatDueLabel(due, "Mars/Olympus", true))
}
