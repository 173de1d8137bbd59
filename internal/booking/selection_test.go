package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookedAt(labels ...string) AvailabilitySource {
	return AvailabilityFunc(func(ctx context.Context, d time.Time) ([]SlotAvailability, error) {
		out, _ := StaticAvailability{}.FetchAvailability(ctx, d)
		for i := range out {
			for _, l := range labels {
				if out[i].Label == l {
					out[i].Status = SlotBooked
				}
			}
		}
		return out, nil
	})
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(NewWindow(date(2024, time.March, 10), 30), DefaultSlotPrice)
	_, err := c.Refresh(context.Background(), StaticAvailability{})
	require.NoError(t, err)
	return c
}

func statusOf(views []SlotView, label string) SlotStatus {
	for _, v := range views {
		if v.Descriptor.Label == label {
			return v.Status
		}
	}
	return ""
}

func TestController_CrossDateSelection(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)

	res := c.ToggleSlot("3:00 PM")
	require.True(t, res.Changed)
	assert.True(t, res.Selected)

	_, ok := c.SetActiveDate(date(2024, time.March, 11))
	require.True(t, ok)
	_, err := c.Refresh(ctx, StaticAvailability{})
	require.NoError(t, err)

	require.True(t, c.ToggleSlot("4:00 PM").Changed)

	assert.Equal(t, 1800, c.TotalPrice())
	assert.Equal(t, 2, c.Count())

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, date(2024, time.March, 10), entries[0].Date)
	assert.Equal(t, "3:00 PM", entries[0].SlotLabel)
	assert.Equal(t, "3 PM to 4 PM", entries[0].DisplayRange)
	assert.Equal(t, date(2024, time.March, 11), entries[1].Date)
	assert.Equal(t, "4:00 PM", entries[1].SlotLabel)
}

func TestController_ToggleIsInvolution(t *testing.T) {
	c := newTestController(t)
	before := c.Entries()

	require.True(t, c.ToggleSlot("7:00 PM").Changed)
	assert.Equal(t, SlotSelected, statusOf(c.ComputeSlotViews(), "7:00 PM"))

	res := c.ToggleSlot("7:00 PM")
	assert.True(t, res.Changed)
	assert.False(t, res.Selected)
	assert.Equal(t, before, c.Entries())
	assert.Equal(t, SlotAvailable, statusOf(c.ComputeSlotViews(), "7:00 PM"))
}

func TestController_TotalIndependentOfActiveDate(t *testing.T) {
	c := newTestController(t)
	c.ToggleSlot("6:00 AM")
	c.ToggleSlot("7:00 AM")
	total := c.TotalPrice()

	for i := 1; i <= 5; i++ {
		_, ok := c.SetActiveDate(date(2024, time.March, 10+i))
		require.True(t, ok)
		assert.Equal(t, total, c.TotalPrice())
	}
}

func TestController_BookedSlotIsImmutable(t *testing.T) {
	c := NewController(NewWindow(date(2024, time.March, 10), 30), DefaultSlotPrice)
	_, err := c.Refresh(context.Background(), bookedAt("5:00 PM"))
	require.NoError(t, err)

	c.ToggleSlot("4:00 PM")
	before := c.Entries()

	for i := 0; i < 3; i++ {
		res := c.ToggleSlot("5:00 PM")
		assert.False(t, res.Changed)
	}
	assert.Equal(t, before, c.Entries())
	assert.Equal(t, SlotBooked, statusOf(c.ComputeSlotViews(), "5:00 PM"))
}

func TestController_SetActiveDateOutsideWindow(t *testing.T) {
	c := newTestController(t)

	_, ok := c.SetActiveDate(date(2024, time.March, 9))
	assert.False(t, ok)
	_, ok = c.SetActiveDate(date(2024, time.April, 10))
	assert.False(t, ok)

	assert.Equal(t, date(2024, time.March, 10), c.ActiveDate())
	status, _ := c.FetchState()
	assert.Equal(t, FetchLoaded, status)
}

func TestController_ScrollHintForLastTwoHours(t *testing.T) {
	c := newTestController(t)

	assert.False(t, c.ToggleSlot("9:00 PM").ScrollIntoView)
	assert.True(t, c.ToggleSlot("10:00 PM").ScrollIntoView)
	assert.True(t, c.ToggleSlot("11:00 PM").ScrollIntoView)
	// deselecting never asks to scroll
	assert.False(t, c.ToggleSlot("11:00 PM").ScrollIntoView)
}

func TestController_StaleTicketDiscarded(t *testing.T) {
	c := NewController(NewWindow(date(2024, time.March, 10), 30), DefaultSlotPrice)

	first, ok := c.SetActiveDate(date(2024, time.March, 12))
	require.True(t, ok)
	second, ok := c.SetActiveDate(date(2024, time.March, 13))
	require.True(t, ok)

	applied, _ := c.ApplyAvailability(second, []SlotAvailability{{Label: "8:00 AM", Status: SlotBooked}})
	require.True(t, applied)

	applied, _ = c.ApplyAvailability(first, []SlotAvailability{{Label: "9:00 AM", Status: SlotBooked}})
	assert.False(t, applied)
	assert.False(t, c.FailAvailability(first, errors.New("timeout")))

	views := c.ComputeSlotViews()
	assert.Equal(t, SlotBooked, statusOf(views, "8:00 AM"))
	assert.Equal(t, SlotAvailable, statusOf(views, "9:00 AM"))
}

func TestController_SlowEarlierFetchDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewController(NewWindow(date(2024, time.March, 10), 30), DefaultSlotPrice)

	started := make(chan struct{})
	release := make(chan struct{})
	slow := AvailabilityFunc(func(ctx context.Context, d time.Time) ([]SlotAvailability, error) {
		close(started)
		<-release
		return []SlotAvailability{{Label: "1:00 PM", Status: SlotBooked}}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Refresh(ctx, slow)
		done <- err
	}()
	<-started

	_, ok := c.SetActiveDate(date(2024, time.March, 11))
	require.True(t, ok)
	_, err := c.Refresh(ctx, StaticAvailability{})
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-done, ErrStaleFetch)

	assert.Equal(t, date(2024, time.March, 11), c.ActiveDate())
	assert.Equal(t, SlotAvailable, statusOf(c.ComputeSlotViews(), "1:00 PM"))
}

func TestController_FetchFailureBlocksSelection(t *testing.T) {
	ctx := context.Background()
	c := NewController(NewWindow(date(2024, time.March, 10), 30), DefaultSlotPrice)

	failing := AvailabilityFunc(func(ctx context.Context, d time.Time) ([]SlotAvailability, error) {
		return nil, errors.New("connection refused")
	})

	_, err := c.Refresh(ctx, failing)
	require.ErrorIs(t, err, ErrAvailabilityUnknown)

	status, fetchErr := c.FetchState()
	assert.Equal(t, FetchFailed, status)
	assert.Error(t, fetchErr)

	for _, v := range c.ComputeSlotViews() {
		assert.Equal(t, SlotUnknown, v.Status)
	}
	assert.False(t, c.ToggleSlot("3:00 PM").Changed)
	assert.Zero(t, c.Count())

	// manual retry recovers
	_, err = c.Refresh(ctx, StaticAvailability{})
	require.NoError(t, err)
	assert.True(t, c.ToggleSlot("3:00 PM").Changed)
}

func TestController_TimeoutIsFailure(t *testing.T) {
	c := NewController(NewWindow(date(2024, time.March, 10), 30), DefaultSlotPrice)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Refresh(ctx, StaticAvailability{Delay: time.Second})
	assert.ErrorIs(t, err, ErrAvailabilityUnknown)
	assert.Equal(t, SlotUnknown, c.ComputeSlotViews()[0].Status)
}

func TestController_NewlyBookedSelectionDropped(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	c.ToggleSlot("6:00 PM")
	c.ToggleSlot("7:00 PM")

	dropped, err := c.Refresh(ctx, bookedAt("6:00 PM"))
	require.NoError(t, err)
	require.Len(t, dropped, 1)
	assert.Equal(t, "6:00 PM", dropped[0].SlotLabel)
	assert.Equal(t, 900, c.TotalPrice())
}

func TestHandoff_RoundTripAndDates(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	c.ToggleSlot("8:00 PM")
	c.ToggleSlot("6:00 PM")
	c.SetActiveDate(date(2024, time.March, 12))
	_, err := c.Refresh(ctx, StaticAvailability{})
	require.NoError(t, err)
	c.ToggleSlot("6:00 AM")

	h := c.Handoff()
	assert.Equal(t, 2700, h.TotalPrice)
	require.Len(t, h.Entries, 3)
	assert.Equal(t, "6:00 PM", h.Entries[0].SlotLabel)
	assert.Equal(t, "8:00 PM", h.Entries[1].SlotLabel)

	data, err := h.Encode()
	require.NoError(t, err)
	decoded, err := DecodeHandoff(data)
	require.NoError(t, err)
	assert.Equal(t, h.TotalPrice, decoded.TotalPrice)
	assert.Len(t, decoded.Dates(), 2)
}

func TestController_RemoveOnOtherDay(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	require.True(t, c.ToggleSlot("3:00 PM").Changed)

	c.SetActiveDate(date(2024, time.March, 11))
	_, err := c.Refresh(ctx, StaticAvailability{})
	require.NoError(t, err)
	require.True(t, c.ToggleSlot("4:00 PM").Changed)

	// the active day's availability says nothing about the 10th
	dropped, err := c.Refresh(ctx, bookedAt("3:00 PM"))
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, 2, c.Count())

	entry, ok := c.Remove(date(2024, time.March, 10), "3:00 PM")
	require.True(t, ok)
	assert.Equal(t, 15, entry.Hour)
	assert.Equal(t, 1, c.Count())
	assert.Equal(t, 900, c.TotalPrice())

	_, ok = c.Remove(date(2024, time.March, 10), "3:00 PM")
	assert.False(t, ok)
}

func TestController_RemoveOnActiveDayMarksBooked(t *testing.T) {
	c := newTestController(t)
	require.True(t, c.ToggleSlot("7:00 PM").Changed)

	_, ok := c.Remove(date(2024, time.March, 10), "7:00 PM")
	require.True(t, ok)
	assert.Equal(t, SlotBooked, statusOf(c.ComputeSlotViews(), "7:00 PM"))
	assert.False(t, c.ToggleSlot("7:00 PM").Changed)
}
