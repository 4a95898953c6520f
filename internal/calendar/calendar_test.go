package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeek(t *testing.T) {
	cal := Calendar{Location: time.UTC, FirstWeekday: time.Monday}

	// Wednesday 2025-03-12 18:30 UTC
	got := cal.StartOfWeek(time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)

	// Monday maps to itself
	got = cal.StartOfWeek(time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)

	// Sunday belongs to the week that started the previous Monday
	got = cal.StartOfWeek(time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestStartOfWeekSundayFirst(t *testing.T) {
	cal := Calendar{Location: time.UTC, FirstWeekday: time.Sunday}

	got := cal.StartOfWeek(time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestStartOfDayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	cal := Calendar{Location: loc, FirstWeekday: time.Monday}

	// 02:00 UTC on the 12th is still the 11th in UTC-5.
	got := cal.StartOfDay(time.Date(2025, 3, 12, 2, 0, 0, 0, time.UTC))
	assert.Equal(t, 11, got.Day())
	assert.Equal(t, 0, got.Hour())
}

func TestNew(t *testing.T) {
	cal, err := New("UTC", "sunday")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cal.Location)
	assert.Equal(t, time.Sunday, cal.FirstWeekday)

	_, err = New("Not/AZone", "")
	assert.Error(t, err)

	_, err = New("", "funday")
	assert.Error(t, err)
}

func TestParseWeekdayShortNames(t *testing.T) {
	wd, err := ParseWeekday("Mon")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)
}
