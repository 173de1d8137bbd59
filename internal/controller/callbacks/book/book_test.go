package book

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/config"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, time.March, 13, 9, 30, 0, 0, time.UTC)

func newTestHandler() *callbacktypes.Handler {
	return &callbacktypes.Handler{
		Settings: callbacktypes.Settings{
			Location:          time.UTC,
			BookingWindowDays: 30,
			SlotPrice:         900,
			Venue:             config.Venue{Name: "Green Turf"},
		},
		Logger:       zap.NewNop(),
		Availability: booking.StaticAvailability{},
		Now:          func() time.Time { return testNow },
	}
}

func newLoadedSession(t *testing.T, h *callbacktypes.Handler) *callbacktypes.BookingSession {
	t.Helper()
	session := callbacktypes.NewBookingSession(booking.NewController(h.NewWindow(), h.Settings.SlotPrice))
	_, err := session.Selection.Refresh(context.Background(), h.Source())
	require.NoError(t, err)
	return session
}

func allCallbacks(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

func TestBuildPickerScreen_Empty(t *testing.T) {
	h := newTestHandler()
	session := newLoadedSession(t, h)

	text, kb := BuildPickerScreen(h, session)

	assert.Contains(t, text, "Green Turf")
	assert.Contains(t, text, "Wed, 13 Mar")
	assert.Contains(t, text, "(Today)")
	assert.Contains(t, text, "₹900 per hour")
	assert.NotContains(t, text, "Selected:")

	callbacks := allCallbacks(kb)
	assert.Contains(t, callbacks, PrefixSlot+"0")
	assert.Contains(t, callbacks, PrefixSlot+"23")
	assert.NotContains(t, callbacks, Next)
	assert.NotContains(t, callbacks, Retry)
}

func TestBuildPickerScreen_SelectionAcrossDays(t *testing.T) {
	h := newTestHandler()
	session := newLoadedSession(t, h)
	c := session.Selection

	d18, _ := booking.DescriptorByHour(18)
	require.True(t, c.ToggleSlot(d18.Label).Changed)

	c.SetActiveDate(testNow.AddDate(0, 0, 1))
	_, err := c.Refresh(context.Background(), h.Source())
	require.NoError(t, err)
	d6, _ := booking.DescriptorByHour(6)
	require.True(t, c.ToggleSlot(d6.Label).Changed)

	text, kb := BuildPickerScreen(h, session)

	assert.Contains(t, text, "(Tomorrow)")
	assert.Contains(t, text, "Selected: 2 slots, ₹1,800")
	assert.Contains(t, text, "6 PM to 7 PM")
	assert.Contains(t, text, "6 AM to 7 AM")

	var continueText string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData == Next {
				continueText = btn.Text
			}
		}
	}
	assert.Equal(t, "➡️ Continue · ₹1,800 (2)", continueText)
}

func TestBuildPickerScreen_LoadingAndFailed(t *testing.T) {
	h := newTestHandler()
	session := callbacktypes.NewBookingSession(booking.NewController(h.NewWindow(), 900))

	ticket := session.Selection.BeginFetch()
	text, kb := BuildPickerScreen(h, session)
	assert.Contains(t, text, "Loading availability")
	for _, data := range allCallbacks(kb) {
		assert.False(t, strings.HasPrefix(data, PrefixSlot), "slot buttons must be inert while loading")
	}

	session.Selection.FailAvailability(ticket, booking.ErrAvailabilityUnknown)
	text, kb = BuildPickerScreen(h, session)
	assert.Contains(t, text, "Could not load availability")
	assert.Contains(t, allCallbacks(kb), Retry)
}

func draftFor(t *testing.T, hours ...int) *booking.Draft {
	t.Helper()
	var entries []booking.SelectionEntry
	total := 0
	for _, hour := range hours {
		d, _ := booking.DescriptorByHour(hour)
		entries = append(entries, booking.SelectionEntry{
			Date: booking.Day(testNow), Hour: hour, SlotLabel: d.Label, DisplayRange: d.DisplayRange, Price: 900,
		})
		total += 900
	}
	return booking.NewDraft(booking.Handoff{Entries: entries, TotalPrice: total})
}

func TestBuildSummaryScreen_NoMode(t *testing.T) {
	draft := draftFor(t, 18, 19)

	text, kb := BuildSummaryScreen(draft.Snapshot(), SummaryData{})

	assert.Contains(t, text, "Choose how you want to book")
	callbacks := allCallbacks(kb)
	assert.Contains(t, callbacks, PrefixMode+string(booking.ModeSelfFull))
	assert.NotContains(t, callbacks, Confirm)
	assert.Contains(t, callbacks, Back)
}

func TestBuildSummaryScreen_Self(t *testing.T) {
	draft := draftFor(t, 18)
	require.True(t, draft.SetMode(booking.ModeSelfFull))

	text, kb := BuildSummaryScreen(draft.Snapshot(), SummaryData{Balance: 2500})

	assert.Contains(t, text, "Pay now: <b>₹900</b>")
	assert.Contains(t, allCallbacks(kb), PayPersonal)
	assert.Equal(t, "✅ 🙋 Self", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "✅ 💳 Personal wallet · ₹2,500", kb.InlineKeyboard[1][0].Text)
}

func TestBuildSummaryScreen_ChallengeTeams(t *testing.T) {
	draft := draftFor(t, 18, 19)
	require.True(t, draft.SetMode(booking.ModeTeamChallenge))
	require.True(t, draft.SelectTeam(5, true))

	data := SummaryData{Teams: []*model.TeamMembership{
		{Team: &model.Team{ID: 5, Name: "Strikers", Balance: 4000}, Role: model.TeamRoleAdmin},
		{Team: &model.Team{ID: 9, Name: "Sunday XI"}, Role: model.TeamRoleMember},
	}}
	text, kb := BuildSummaryScreen(draft.Snapshot(), data)

	assert.Contains(t, text, "team Strikers")
	assert.Contains(t, text, "Pay later: ₹900")

	callbacks := allCallbacks(kb)
	assert.Contains(t, callbacks, PrefixTeam+"5")
	assert.Contains(t, callbacks, PrefixTeam+"9")
	assert.Contains(t, callbacks, PrefixSport+"football")
	assert.Contains(t, callbacks, Confirm)

	assert.Equal(t, "✅ 👥 Strikers · ₹4,000", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, "🔒 Sunday XI", kb.InlineKeyboard[2][0].Text)
}

func TestBuildSummaryScreen_TeamModeWithoutTeams(t *testing.T) {
	draft := draftFor(t, 18)
	require.True(t, draft.SetMode(booking.ModeTeamFull))

	_, kb := BuildSummaryScreen(draft.Snapshot(), SummaryData{})
	assert.Contains(t, allCallbacks(kb), createTeam)
}

func TestBuildConfirmedScreen(t *testing.T) {
	paid := &model.Booking{
		ID:         uuid.New(),
		Mode:       booking.ModeSelfFull,
		TotalPrice: 900,
		PaidAmount: 900,
		Status:     model.BookingStatusPaid,
		Slots:      []*model.BookedSlot{{SlotDate: booking.Day(testNow), Hour: 18}},
	}
	text, kb := BuildConfirmedScreen(paid, testNow)
	assert.Contains(t, text, "Booking confirmed")
	assert.Contains(t, text, "₹900 was paid from the personal wallet")
	assert.Contains(t, allCallbacks(kb), keyboard.CallbackBackToMain)

	reserved := &model.Booking{
		ID:           uuid.New(),
		Mode:         booking.ModeTeamChallenge,
		TotalPrice:   1800,
		PayableLater: 900,
		Status:       model.BookingStatusReserved,
	}
	text, _ = BuildConfirmedScreen(reserved, testNow)
	assert.Contains(t, text, "Challenge posted")
	assert.Contains(t, text, "Due later: ₹900")
}

func TestWeekGrid(t *testing.T) {
	h := newTestHandler()
	session := newLoadedSession(t, h)
	d, _ := booking.DescriptorByHour(20)
	require.True(t, session.Selection.ToggleSlot(d.Label).Changed)

	grid := WeekGrid(session, map[string][]int{"2024-03-14": {7}}, testNow)

	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), grid.Start)
	assert.Equal(t, []int{20}, grid.Selected["2024-03-13"])
	assert.Equal(t, []int{7}, grid.Booked["2024-03-14"])
}

func TestDroppedNotice(t *testing.T) {
	assert.Empty(t, droppedNotice(nil))
	assert.Equal(t, "⚠️ 1 slot you picked just got booked and was removed",
		droppedNotice(make([]booking.SelectionEntry, 1)))
	assert.Contains(t, droppedNotice(make([]booking.SelectionEntry, 2)), "2 slots")
}

func TestDropTakenSlot_OtherDay(t *testing.T) {
	h := newTestHandler()
	session := newLoadedSession(t, h)
	c := session.Selection

	d15, _ := booking.DescriptorByHour(15)
	require.True(t, c.ToggleSlot(d15.Label).Changed)
	taken := c.Entries()[0]

	c.SetActiveDate(testNow.AddDate(0, 0, 1))
	_, err := c.Refresh(context.Background(), h.Source())
	require.NoError(t, err)
	d16, _ := booking.DescriptorByHour(16)
	require.True(t, c.ToggleSlot(d16.Label).Changed)

	// a refresh of the active day cannot see a conflict on the previous day
	err = fmt.Errorf("reserve: %w", &service.SlotTakenError{Entry: taken})
	assert.True(t, dropTakenSlot(session, err))

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 16, entries[0].Hour)
	assert.Equal(t, 900, c.TotalPrice())

	// nothing left to drop on a second conflict for the same slot
	assert.False(t, dropTakenSlot(session, err))
	assert.False(t, dropTakenSlot(session, service.ErrSlotTaken))
}

func TestSession_SummaryFromHandoffPayload(t *testing.T) {
	h := newTestHandler()
	session := newLoadedSession(t, h)
	assert.Nil(t, session.Draft())

	_, err := session.OpenSummary([]byte(`{"entries":[],"total_price":0}`))
	assert.ErrorIs(t, err, booking.ErrEmptySelection)
	_, err = session.OpenSummary([]byte("not json"))
	assert.Error(t, err)

	d18, _ := booking.DescriptorByHour(18)
	require.True(t, session.Selection.ToggleSlot(d18.Label).Changed)
	payload, err := session.Selection.Handoff().Encode()
	require.NoError(t, err)

	draft, err := session.OpenSummary(payload)
	require.NoError(t, err)
	assert.Same(t, draft, session.Draft())
	assert.Equal(t, 900, draft.Snapshot().TotalPrice)

	session.CloseSummary()
	assert.Nil(t, session.Draft())
}

func TestSession_ConcurrentCallbacks(t *testing.T) {
	h := newTestHandler()
	session := newLoadedSession(t, h)
	d18, _ := booking.DescriptorByHour(18)
	require.True(t, session.Selection.ToggleSlot(d18.Label).Changed)
	payload, err := session.Selection.Handoff().Encode()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session.SetMessageID(i)
			_ = session.MessageID()
			if i%2 == 0 {
				_, _ = session.OpenSummary(payload)
			} else {
				session.CloseSummary()
			}
			_ = session.Draft()
		}(i)
	}
	wg.Wait()

	session.SetMessageID(42)
	assert.Equal(t, 42, session.MessageID())
}
