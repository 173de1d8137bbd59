package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, ...time.Time) {}

func newTestBookingService() *BookingService {
	s := NewBookingService(nil, nil, nil, nil, nopInvalidator{}, 900, time.UTC, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func entryAt(day time.Time, hour, price int) booking.SelectionEntry {
	d, _ := booking.DescriptorByHour(hour)
	return booking.SelectionEntry{
		Date:         booking.Day(day),
		Hour:         hour,
		SlotLabel:    d.Label,
		DisplayRange: d.DisplayRange,
		Price:        price,
	}
}

func TestBookingService_CheckEntries(t *testing.T) {
	s := newTestBookingService()
	tomorrow := testNow.AddDate(0, 0, 1)

	assert.ErrorIs(t, s.CheckEntries(nil), booking.ErrEmptySelection)
	assert.NoError(t, s.CheckEntries([]booking.SelectionEntry{entryAt(tomorrow, 6, 900), entryAt(testNow, 15, 900)}))
	assert.ErrorIs(t, s.CheckEntries([]booking.SelectionEntry{entryAt(tomorrow, 6, 800)}), ErrPriceChanged)
	assert.ErrorIs(t, s.CheckEntries([]booking.SelectionEntry{entryAt(testNow, 14, 900)}), ErrSlotInPast)
}

func TestBookingService_ConfirmRejectsBeforeTouchingDraft(t *testing.T) {
	s := newTestBookingService()

	c := booking.NewController(booking.NewWindow(booking.Day(testNow), 30), 800)
	c.SetActiveDate(testNow.AddDate(0, 0, 1))
	_, err := c.Refresh(context.Background(), booking.StaticAvailability{})
	require.NoError(t, err)
	d, _ := booking.DescriptorByHour(10)
	require.True(t, c.ToggleSlot(d.Label).Changed)

	draft := booking.NewDraft(c.Handoff())
	require.True(t, draft.SetMode(booking.ModeSelfFull))

	_, err = s.Confirm(context.Background(), 1, draft)
	assert.ErrorIs(t, err, ErrPriceChanged)
	assert.NotEqual(t, booking.StageConfirmed, draft.Snapshot().Stage)
}

func TestProfileInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		input ProfileInput
		field string
	}{
		{"valid", ProfileInput{DisplayName: "Ravi", Email: "ravi@example.com", Phone: "+919876543210"}, ""},
		{"valid without optional", ProfileInput{DisplayName: "Ravi"}, ""},
		{"empty name", ProfileInput{}, "display_name"},
		{"bad email", ProfileInput{DisplayName: "Ravi", Email: "ravi@"}, "email"},
		{"bad phone", ProfileInput{DisplayName: "Ravi", Phone: "98765"}, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var fe *validation.FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestNewJoinCode(t *testing.T) {
	code := NewJoinCode()
	assert.Len(t, code, joinCodeLength)
	assert.Equal(t, strings.ToUpper(code), code)
	assert.NotEqual(t, code, NewJoinCode())
}

func TestParseTopUpAmount(t *testing.T) {
	amount, err := ParseTopUpAmount("500")
	require.NoError(t, err)
	assert.Equal(t, 500, amount)

	for _, in := range []string{"", "abc", "99", "50001", "-200"} {
		_, err := ParseTopUpAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

type fakeSessions struct {
	calls int
}

func (f *fakeSessions) CreateCheckoutSession(int64, string, string, string) (string, string, error) {
	f.calls++
	return "https://checkout.example/s", "cs_test_1", nil
}

func TestPaymentService_Rejections(t *testing.T) {
	disabled := NewPaymentService(nil, nil, nil, "inr", zap.NewNop())
	_, err := disabled.CreateTopUp(context.Background(), 1, model.PersonalWallet(1), 500)
	assert.ErrorIs(t, err, ErrTopUpDisabled)
	assert.False(t, disabled.Enabled())

	sessions := &fakeSessions{}
	enabled := NewPaymentService(sessions, nil, nil, "inr", zap.NewNop())
	_, err = enabled.CreateTopUp(context.Background(), 1, model.PersonalWallet(1), 10)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Zero(t, sessions.calls)
}

func TestSlotTakenError(t *testing.T) {
	entry := entryAt(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), 15, 900)
	var err error = &SlotTakenError{Entry: entry}

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, "slot already booked: 2024-03-10 3:00 PM", err.Error())

	var taken *SlotTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, 15, taken.Entry.Hour)
}
