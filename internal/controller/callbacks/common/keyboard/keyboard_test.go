package keyboard

import (
	"testing"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Grid(t *testing.T) {
	buttons := []models.InlineKeyboardButton{
		Button("1", "1"), Button("2", "2"), Button("3", "3"), Button("4", "4"),
	}
	kb := NewBuilder().Grid(buttons, 3).Build()

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 3)
	assert.Len(t, kb.InlineKeyboard[1], 1)
}

func TestPageRow(t *testing.T) {
	assert.Nil(t, PageRow("p:", 0, 1))

	first := PageRow("p:", 0, 3)
	require.Len(t, first, 2)
	assert.Equal(t, "p:1", first[1].CallbackData)

	middle := PageRow("p:", 1, 3)
	require.Len(t, middle, 3)
	assert.Equal(t, "p:0", middle[0].CallbackData)
	assert.Equal(t, "📄 2/3", middle[1].Text)
	assert.Equal(t, "p:2", middle[2].CallbackData)

	long := PageRow("p:", 4, 10)
	require.Len(t, long, 5)
	assert.Equal(t, "p:0", long[0].CallbackData)
	assert.Equal(t, "p:9", long[4].CallbackData)

	// out of range pages are clamped
	last := PageRow("p:", 42, 3)
	assert.Equal(t, "📄 3/3", last[1].Text)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(-1, 3))
	assert.Equal(t, 0, ClampPage(5, 0))
	assert.Equal(t, 2, ClampPage(5, 3))
	assert.Equal(t, 1, ClampPage(1, 3))
}

func TestWeekStrip(t *testing.T) {
	today := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC) // Wednesday
	w := booking.NewWindow(today, 30)

	rows := WeekStrip(w, today, today)
	require.Len(t, rows, 2)

	// no earlier week to go to
	assert.Equal(t, CallbackNoop, rows[0][0].CallbackData)
	assert.Equal(t, PrefixPickWeek+"1", rows[0][2].CallbackData)

	strip := rows[1]
	require.Len(t, strip, 7)
	// Sunday to Tuesday are before today
	assert.Equal(t, CallbackNoop, strip[0].CallbackData)
	assert.Equal(t, CallbackNoop, strip[2].CallbackData)
	assert.Equal(t, PrefixPickDate+"2024-03-13", strip[3].CallbackData)
	assert.Equal(t, "[We 13]", strip[3].Text)
	assert.Equal(t, "Th 14", strip[4].Text)
}

func TestSlotGrid(t *testing.T) {
	views := make([]booking.SlotView, 0, booking.SlotsPerDay)
	for _, d := range booking.GenerateDailyCatalog() {
		status := booking.SlotAvailable
		switch d.Hour {
		case 0:
			status = booking.SlotBooked
		case 1:
			status = booking.SlotSelected
		case 2:
			status = booking.SlotUnknown
		}
		views = append(views, booking.SlotView{Descriptor: d, Price: 900, Status: status})
	}

	rows := SlotGrid(views)
	require.Len(t, rows, booking.SlotsPerDay/SlotsPerRow)

	assert.Equal(t, CallbackNoop, rows[0][0].CallbackData)
	assert.Equal(t, PrefixPickSlot+"1", rows[0][1].CallbackData)
	assert.Contains(t, rows[0][1].Text, "✅")
	assert.Equal(t, CallbackNoop, rows[0][2].CallbackData)
	assert.Equal(t, PrefixPickSlot+"3", rows[1][0].CallbackData)
}

func TestMark(t *testing.T) {
	assert.Equal(t, "✅ Team", Mark("Team", true))
	assert.Equal(t, "Team", Mark("Team", false))
}
