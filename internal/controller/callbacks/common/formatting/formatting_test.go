package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹900", FormatPrice(900))
	assert.Equal(t, "₹1,800", FormatPrice(1800))
	assert.Equal(t, "₹50,000", FormatPrice(50000))
	assert.Equal(t, "-₹900", FormatPrice(-900))
	assert.Equal(t, "+₹500", FormatSigned(500))
	assert.Equal(t, "-₹500", FormatSigned(-500))
}

func TestFormatTimeRange(t *testing.T) {
	start := time.Date(2024, time.March, 13, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "6 PM to 8 PM", FormatTimeRange(start, start.Add(2*time.Hour)))
	assert.Equal(t, "11 PM to 12 AM", FormatTimeRange(start.Add(5*time.Hour), start.Add(6*time.Hour)))
}

func TestRelativeDay(t *testing.T) {
	assert.Equal(t, "Today", RelativeDay(day(13), day(13)))
	assert.Equal(t, "Tomorrow", RelativeDay(day(14), day(13)))
	assert.Equal(t, "Fri, 15 Mar", RelativeDay(day(15), day(13)))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 slot", Plural(1, "slot"))
	assert.Equal(t, "3 slots", Plural(3, "slot"))
	assert.Equal(t, "0 slots", Plural(0, "slot"))
}

func TestGroupHours(t *testing.T) {
	groups := GroupHours(map[time.Time][]int{
		day(14): {21, 18, 19},
		day(13): {6},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, day(13), groups[0].Date)
	assert.Equal(t, []string{"6 AM to 7 AM"}, groups[0].Ranges)
	assert.Equal(t, []string{"6 PM to 8 PM", "9 PM to 10 PM"}, groups[1].Ranges)
}

func TestFormatDraft(t *testing.T) {
	snap := booking.DraftSnapshot{
		Entries: []booking.SelectionEntry{
			{Date: day(13), Hour: 18, Price: 900},
			{Date: day(13), Hour: 19, Price: 900},
		},
		TotalPrice: 1800,
		Mode:       booking.ModeTeamChallenge,
		Funding:    booking.Team(3, true),
		Sport:      booking.SportFootball,
		Payment:    booking.DerivePayment(1800, booking.ModeTeamChallenge),
	}

	text := FormatDraft(snap, "Strikers & Co")
	assert.Contains(t, text, "6 PM to 8 PM")
	assert.Contains(t, text, "2 slots, total ₹1,800")
	assert.Contains(t, text, "Team challenge")
	assert.Contains(t, text, "team Strikers &amp; Co")
	assert.Contains(t, text, "Football")
	assert.Contains(t, text, "Pay now: <b>₹0</b>")
	assert.Contains(t, text, "Pay later: ₹900")
}

func TestFormatBookingDetails(t *testing.T) {
	id := uuid.MustParse("0a1b2c3d-0000-0000-0000-000000000000")
	b := &model.Booking{
		ID:         id,
		Mode:       booking.ModeSelfFull,
		TotalPrice: 900,
		PaidAmount: 900,
		Status:     model.BookingStatusPaid,
		Slots:      []*model.BookedSlot{{SlotDate: day(14), Hour: 7}},
	}

	text := FormatBookingDetails(b, day(13))
	assert.Contains(t, text, "Booking 0A1B2C3D")
	assert.Contains(t, text, "7 AM to 8 AM")
	assert.Contains(t, text, "Paid (₹900)")
	assert.Contains(t, text, "Upcoming")

	assert.Contains(t, FormatBookingDetails(b, day(15)), "Completed")
}
