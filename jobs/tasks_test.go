package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimesheetSweepPayloadResolve(t *testing.T) {
	t.Run("zero payload means previous month", func(t *testing.T) {
		now := time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC)
		year, month, err := TimesheetSweepPayload{}.Resolve(now)
		require.NoError(t, err)
		require.Equal(t, 2025, year)
		require.Equal(t, time.March, month)
	})

	t.Run("january rolls back into december", func(t *testing.T) {
		now := time.Date(2026, time.January, 1, 3, 0, 0, 0, time.UTC)
		year, month, err := TimesheetSweepPayload{}.Resolve(now)
		require.NoError(t, err)
		require.Equal(t, 2025, year)
		require.Equal(t, time.December, month)
	})

	t.Run("pinned period wins over now", func(t *testing.T) {
		now := time.Date(2026, time.January, 1, 3, 0, 0, 0, time.UTC)
		year, month, err := TimesheetSweepPayload{Year: 2025, Month: 7}.Resolve(now)
		require.NoError(t, err)
		require.Equal(t, 2025, year)
		require.Equal(t, time.July, month)
	})

	t.Run("month out of range", func(t *testing.T) {
		_, _, err := TimesheetSweepPayload{Year: 2025, Month: 13}.Resolve(time.Now())
		require.Error(t, err)
	})
}
