package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() WeekGrid {
	now := time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC)
	return WeekGrid{
		Start:    now,
		Booked:   map[string][]int{"2024-03-11": {6, 7}, "2024-03-12": {20}},
		Selected: map[string][]int{"2024-03-11": {9}},
		Window:   booking.NewWindow(booking.Day(now), 3),
		Now:      now,
	}
}

func TestWeekImage_ProducesPNG(t *testing.T) {
	data, err := WeekImage(testGrid())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestWeekGrid_Cell(t *testing.T) {
	g := testGrid()
	day := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	booked := hourSet(g.Booked, "2024-03-11")
	selected := hourSet(g.Selected, "2024-03-11")

	assert.Equal(t, cellBooked, g.cell(day, 6, booked, selected))
	assert.Equal(t, cellSelected, g.cell(day, 9, booked, selected))
	assert.Equal(t, cellFree, g.cell(day, 10, booked, selected))

	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, cellPast, g.cell(today, 14, nil, nil))
	assert.Equal(t, cellFree, g.cell(today, 15, nil, nil))

	outside := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, cellPast, g.cell(outside, 12, nil, nil))
}
