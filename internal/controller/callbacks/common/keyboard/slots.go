package keyboard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/go-telegram/bot/models"
)

const (
	SlotsPerRow = 3

	PrefixPickDate = "bk:date:"
	PrefixPickWeek = "bk:week:"
	PrefixPickSlot = "bk:slot:"
)

// WeekStrip returns the arrow row and the seven day buttons of the picker.
// Days outside the booking window are shown but point to noop.
func WeekStrip(w booking.Window, selected, today time.Time) [][]models.InlineKeyboardButton {
	prev := Button("◀️", PrefixPickWeek+"-1")
	if _, ok := w.ShiftWeek(selected, -1); !ok {
		prev = Button(" ", CallbackNoop)
	}
	next := Button("▶️", PrefixPickWeek+"1")
	if _, ok := w.ShiftWeek(selected, 1); !ok {
		next = Button(" ", CallbackNoop)
	}
	header := Button(selected.Format("January 2006"), CallbackNoop)

	days := w.WeekDays(selected, today)
	strip := make([]models.InlineKeyboardButton, 0, len(days))
	for _, d := range days {
		strip = append(strip, DayButton(d))
	}

	return [][]models.InlineKeyboardButton{
		{prev, header, next},
		strip,
	}
}

func DayButton(d booking.WeekDay) models.InlineKeyboardButton {
	text := d.Date.Format("Mon")[:2] + " " + strconv.Itoa(d.Date.Day())
	switch {
	case d.Disabled:
		return Button("·", CallbackNoop)
	case d.Selected:
		text = "[" + text + "]"
	case d.Today:
		text = "•" + text
	}
	return Button(text, PrefixPickDate+d.Date.Format(time.DateOnly))
}

// SlotButton renders one hour of the grid. Booked and unknown slots are not clickable.
func SlotButton(v booking.SlotView) models.InlineKeyboardButton {
	label := v.Descriptor.Label
	switch v.Status {
	case booking.SlotSelected:
		return Button("✅ "+label, fmt.Sprintf("%s%d", PrefixPickSlot, v.Descriptor.Hour))
	case booking.SlotAvailable:
		return Button("🟢 "+label, fmt.Sprintf("%s%d", PrefixPickSlot, v.Descriptor.Hour))
	case booking.SlotBooked:
		return Button("🔴 "+label, CallbackNoop)
	default:
		return Button("⏳ "+label, CallbackNoop)
	}
}

// SlotGrid lays out the day's slots SlotsPerRow per row
func SlotGrid(views []booking.SlotView) [][]models.InlineKeyboardButton {
	buttons := make([]models.InlineKeyboardButton, 0, len(views))
	for _, v := range views {
		buttons = append(buttons, SlotButton(v))
	}
	return NewBuilder().Grid(buttons, SlotsPerRow).Build().InlineKeyboard
}
