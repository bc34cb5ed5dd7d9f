package calendar

import (
	"testing"
	"time"

	"github.com/christopherklint97/studycal/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSchedule(t *testing.T, items []scheduler.WorkItem, start string, limit float64, days ...int) *scheduler.Schedule {
	t.Helper()
	w, err := scheduler.NewWeekdays(days...)
	require.NoError(t, err)
	s, err := scheduler.New(w, limit)
	require.NoError(t, err)
	d, err := scheduler.ParseDate(start)
	require.NoError(t, err)
	sched, err := s.Schedule(items, d)
	require.NoError(t, err)
	return sched
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{0, "00:00:00"},
		{1, "00:01:00"},
		{90.5, "01:30:30"},
		{59.999, "00:59:59"},
		{12.25, "00:12:15"},
		{600, "10:00:00"},
		{1500, "25:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.minutes), "minutes=%v", tt.minutes)
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("19:05")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 19, Minute: 5}, c)
	assert.Equal(t, "19:05", c.String())

	c, err = ParseClock(" 7:30 ")
	require.NoError(t, err)
	assert.Equal(t, "07:30", c.String())

	for _, bad := range []string{"", "25:00", "12:60", "noon", "12"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestMaterialize_OneEventPerDay(t *testing.T) {
	sched := buildSchedule(t, []scheduler.WorkItem{
		{Status: "Not Started", Title: "Intro", Minutes: 30},
		{Status: "Not Started", Title: "Setup", Minutes: 90.5},
		{Status: "Not Started", Title: "Wrap-up", Minutes: 20},
	}, "2024-01-01", 60, 0, 2)

	events, err := Materialize(sched, Options{
		StartTime:         Clock{Hour: 19},
		Timezone:          "America/Sao_Paulo",
		DailyLimitMinutes: 60,
		Label:             "Go Course",
		Footer:            "Tick each class off when done.",
	})
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "2024-01-01T19:00:00-03:00", events[0].StartTime.Format(time.RFC3339))
	assert.Equal(t, "2024-01-01T20:00:00-03:00", events[0].EndTime.Format(time.RFC3339))
	assert.Equal(t, "2024-01-03T19:00:00-03:00", events[1].StartTime.Format(time.RFC3339))
	assert.Equal(t, "2024-01-08T19:00:00-03:00", events[2].StartTime.Format(time.RFC3339))

	for _, e := range events {
		assert.Equal(t, "Go Course - Study Block", e.Summary)
		assert.NotEmpty(t, e.UID)
	}

	assert.Equal(t, "Intro (00:30:00)\nSetup (01:30:30)\n\nTick each class off when done.", events[0].Description)
	assert.Equal(t, "Setup (01:30:30)\n\nTick each class off when done.", events[1].Description)
	assert.Equal(t, "Setup (01:30:30)\nWrap-up (00:20:00)\n\nTick each class off when done.", events[2].Description)
}

func TestMaterialize_DefaultsAndStableUIDs(t *testing.T) {
	sched := buildSchedule(t, []scheduler.WorkItem{{Title: "A", Minutes: 10}}, "2024-05-06", 30, 0)
	opts := Options{StartTime: Clock{Hour: 8}, Timezone: "UTC", DailyLimitMinutes: 30}

	first, err := Materialize(sched, opts)
	require.NoError(t, err)
	second, err := Materialize(sched, opts)
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.Equal(t, "Study - Study Block", first[0].Summary)
	assert.Equal(t, "A (00:10:00)", first[0].Description)
	assert.Equal(t, first[0].UID, second[0].UID)

	opts.Label = "Other"
	third, err := Materialize(sched, opts)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].UID, third[0].UID)
}

func TestMaterialize_EndIsDurationBasedAcrossDST(t *testing.T) {
	// New York falls back at 02:00 on 2024-11-03.
	sched := buildSchedule(t, []scheduler.WorkItem{{Title: "Night owl", Minutes: 180}}, "2024-11-03", 180, 6)

	events, err := Materialize(sched, Options{
		StartTime:         Clock{Hour: 0, Minute: 30},
		Timezone:          "America/New_York",
		DailyLimitMinutes: 180,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, 180*time.Minute, e.EndTime.Sub(e.StartTime))
	assert.Equal(t, 2, e.EndTime.Hour(), "three elapsed hours end at 02:30 EST")
}

func TestMaterialize_StartInDSTGapDoesNotFail(t *testing.T) {
	// 02:30 does not exist in New York on 2024-03-10.
	sched := buildSchedule(t, []scheduler.WorkItem{{Title: "A", Minutes: 60}}, "2024-03-10", 120, 6)

	events, err := Materialize(sched, Options{
		StartTime:         Clock{Hour: 2, Minute: 30},
		Timezone:          "America/New_York",
		DailyLimitMinutes: 120,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2024-03-10", events[0].StartTime.Format("2006-01-02"))
	assert.Equal(t, 120*time.Minute, events[0].EndTime.Sub(events[0].StartTime))
}

func TestMaterialize_Errors(t *testing.T) {
	sched := buildSchedule(t, []scheduler.WorkItem{{Title: "A", Minutes: 10}}, "2024-01-01", 60, 0)

	_, err := Materialize(sched, Options{Timezone: "Mars/Olympus_Mons", DailyLimitMinutes: 60})
	assert.Error(t, err)

	_, err = Materialize(sched, Options{Timezone: "UTC", DailyLimitMinutes: 0})
	assert.ErrorIs(t, err, scheduler.ErrInvalidDailyLimit)
}

func TestSplitDescription(t *testing.T) {
	desc := Describe([]scheduler.Entry{
		{Title: "A", OriginalMinutes: 5},
		{Title: "B", OriginalMinutes: 61},
	}, "done?")

	assert.Equal(t, []string{"A (00:05:00)", "B (01:01:00)"}, SplitDescription(desc, "done?"))
	assert.Equal(t, []string{"A (00:05:00)", "B (01:01:00)", "done?"}, SplitDescription(desc, ""))
}
