package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsNavigable_Boundaries(t *testing.T) {
	min := date(2024, time.March, 10)
	max := date(2024, time.April, 9)

	assert.True(t, IsNavigable(min, min, max))
	assert.True(t, IsNavigable(max, min, max))
	assert.False(t, IsNavigable(min.AddDate(0, 0, -1), min, max))
	assert.False(t, IsNavigable(max.AddDate(0, 0, 1), min, max))
}

func TestIsNavigable_IgnoresTimeOfDay(t *testing.T) {
	min := date(2024, time.March, 10).Add(18 * time.Hour)
	max := date(2024, time.March, 12).Add(6 * time.Hour)

	assert.True(t, IsNavigable(date(2024, time.March, 10).Add(time.Minute), min, max))
	assert.True(t, IsNavigable(date(2024, time.March, 12).Add(23*time.Hour), min, max))
	assert.False(t, IsNavigable(date(2024, time.March, 13), min, max))
}

func TestWindow_ShiftWeek(t *testing.T) {
	w := NewWindow(date(2024, time.March, 10).Add(15*time.Hour), 30)
	require.Equal(t, date(2024, time.March, 10), w.Min)
	require.Equal(t, date(2024, time.April, 9), w.Max)

	next, ok := w.ShiftWeek(date(2024, time.March, 12), 1)
	assert.True(t, ok)
	assert.Equal(t, date(2024, time.March, 19), next)

	// a week back would leave the window
	same, ok := w.ShiftWeek(date(2024, time.March, 12), -1)
	assert.False(t, ok)
	assert.Equal(t, date(2024, time.March, 12), same)

	_, ok = w.ShiftWeek(date(2024, time.April, 5), 1)
	assert.False(t, ok)
}

func TestWindow_WeekDays(t *testing.T) {
	w := NewWindow(date(2024, time.March, 12), 30)

	days := w.WeekDays(date(2024, time.March, 13), date(2024, time.March, 12))
	require.Len(t, days, 7)

	// the week starts on Sunday 10 March
	assert.Equal(t, date(2024, time.March, 10), days[0].Date)
	assert.True(t, days[0].Disabled)
	assert.True(t, days[1].Disabled)
	assert.False(t, days[2].Disabled)
	assert.True(t, days[2].Today)
	assert.True(t, days[3].Selected)
	assert.Equal(t, time.Saturday, days[6].Date.Weekday())
}
