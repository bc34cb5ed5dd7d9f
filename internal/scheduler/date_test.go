package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Weekday(t *testing.T) {
	monday := Date{Year: 2024, Month: time.January, Day: 1}
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, monday.AddDays(i).Weekday())
	}
	assert.Equal(t, 0, monday.AddDays(7).Weekday())
}

func TestDate_AddDaysCrossesBoundaries(t *testing.T) {
	d := Date{Year: 2023, Month: time.December, Day: 31}
	assert.Equal(t, "2024-01-01", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", Date{Year: 2024, Month: time.February, Day: 29}.AddDays(1).String())
	assert.Equal(t, "2023-12-30", d.AddDays(-1).String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)
	assert.False(t, d.IsZero())
	assert.True(t, Date{}.IsZero())

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = ParseDate("01/02/2024")
	assert.Error(t, err)
}

func TestDate_At(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	at := Date{Year: 2024, Month: time.March, Day: 4}.At(19, 30, loc)
	assert.Equal(t, 19, at.Hour())
	assert.Equal(t, 30, at.Minute())
	assert.Equal(t, "2024-03-04T19:30:00-03:00", at.Format(time.RFC3339))
	assert.Equal(t, "2024-03-04", DateOf(at).String())
}
