package scheduler

import (
	"strings"
	"testing"

	"apartment-portal/internal/config"
	"apartment-portal/internal/database"
	"apartment-portal/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNowRemindsBookedApartmentsOnly(t *testing.T) {
	store, err := database.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.InitSchema())
	require.NoError(t, store.Seed())

	recorder := notify.NewRecorder()
	reminder := NewRentReminder(store, recorder, config.DefaultConfig())

	require.NoError(t, reminder.RunNow())

	// Seed has exactly two booked apartments (101 and 102)
	events := recorder.Events()
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, notify.LevelInfo, e.Level)
		assert.Contains(t, e.Message, "Rent reminder")
	}
	assert.True(t, strings.Contains(events[0].Message, "John Doe") ||
		strings.Contains(events[1].Message, "John Doe"))
}

func TestParseDailyRunTime(t *testing.T) {
	reminder := NewRentReminder(nil, nil, config.DefaultConfig())

	assert.Equal(t, "0 9 * * *", reminder.parseDailyRunTime("09:00"))
	assert.Equal(t, "30 14 * * *", reminder.parseDailyRunTime("14:30"))
	assert.Equal(t, "0 9 * * *", reminder.parseDailyRunTime("not-a-time"))
}

func TestStartDisabledByDefault(t *testing.T) {
	reminder := NewRentReminder(nil, nil, config.DefaultConfig())
	require.NoError(t, reminder.Start())
	reminder.Stop()
}
