package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu    sync.Mutex
	hours map[string][]int
	calls int
	err   error
	delay time.Duration
}

func (f *fakeStore) BookedHours(ctx context.Context, date time.Time) ([]int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.hours[date.Format(time.DateOnly)], nil
}

func (f *fakeStore) BookedHoursBetween(ctx context.Context, from, to time.Time) (map[string][]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string][]int)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		if h, ok := f.hours[key]; ok {
			result[key] = h
		}
	}
	return result, nil
}

type fakeCache struct {
	data        map[string][]int
	getErr      error
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]int)}
}

func (c *fakeCache) Get(_ context.Context, date time.Time) ([]int, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	h, ok := c.data[date.Format(time.DateOnly)]
	return h, ok, nil
}

func (c *fakeCache) Set(_ context.Context, date time.Time, hours []int) error {
	c.data[date.Format(time.DateOnly)] = hours
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, dates ...time.Time) error {
	for _, d := range dates {
		key := d.Format(time.DateOnly)
		delete(c.data, key)
		c.invalidated = append(c.invalidated, key)
	}
	return nil
}

var testNow = time.Date(2024, time.March, 10, 14, 20, 0, 0, time.UTC)

func newTestAvailability(store BookedHoursStore, cache AvailabilityCache) *AvailabilityService {
	s := NewAvailabilityService(store, cache, time.Second, time.UTC, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func statusByHour(t *testing.T, slots []booking.SlotAvailability) map[int]booking.SlotStatus {
	t.Helper()
	result := make(map[int]booking.SlotStatus, len(slots))
	for _, s := range slots {
		h, ok := booking.HourFromLabel(s.Label)
		require.True(t, ok, s.Label)
		result[h] = s.Status
	}
	return result
}

func TestAvailabilityService_FutureDay(t *testing.T) {
	store := &fakeStore{hours: map[string][]int{"2024-03-12": {6, 18}}}
	s := newTestAvailability(store, nil)

	slots, err := s.FetchAvailability(context.Background(), time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, slots, booking.SlotsPerDay)

	statuses := statusByHour(t, slots)
	assert.Equal(t, booking.SlotBooked, statuses[6])
	assert.Equal(t, booking.SlotBooked, statuses[18])
	assert.Equal(t, booking.SlotAvailable, statuses[0])
	assert.Equal(t, booking.SlotAvailable, statuses[23])
}

func TestAvailabilityService_TodayBlocksStartedHours(t *testing.T) {
	s := newTestAvailability(&fakeStore{}, nil)

	slots, err := s.FetchAvailability(context.Background(), testNow)
	require.NoError(t, err)

	statuses := statusByHour(t, slots)
	assert.Equal(t, booking.SlotBooked, statuses[0])
	assert.Equal(t, booking.SlotBooked, statuses[14])
	assert.Equal(t, booking.SlotAvailable, statuses[15])
}

func TestAvailabilityService_UsesCache(t *testing.T) {
	store := &fakeStore{hours: map[string][]int{"2024-03-12": {7}}}
	cache := newFakeCache()
	s := newTestAvailability(store, cache)
	day := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)

	_, err := s.FetchAvailability(context.Background(), day)
	require.NoError(t, err)
	_, err = s.FetchAvailability(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, []int{7}, cache.data["2024-03-12"])

	s.Invalidate(context.Background(), day)
	assert.Equal(t, []string{"2024-03-12"}, cache.invalidated)

	_, err = s.FetchAvailability(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestAvailabilityService_CacheErrorFallsBackToStore(t *testing.T) {
	store := &fakeStore{hours: map[string][]int{"2024-03-12": {9}}}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	s := newTestAvailability(store, cache)

	slots, err := s.FetchAvailability(context.Background(), time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, booking.SlotBooked, statusByHour(t, slots)[9])
	assert.Equal(t, 1, store.calls)
}

func TestAvailabilityService_StoreError(t *testing.T) {
	s := newTestAvailability(&fakeStore{err: errors.New("db down")}, nil)

	_, err := s.FetchAvailability(context.Background(), time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestAvailabilityService_Timeout(t *testing.T) {
	store := &fakeStore{delay: time.Second}
	s := NewAvailabilityService(store, nil, 20*time.Millisecond, time.UTC, zap.NewNop())

	_, err := s.FetchAvailability(context.Background(), testNow.AddDate(0, 0, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAvailabilityService_WeekOverview(t *testing.T) {
	store := &fakeStore{hours: map[string][]int{
		"2024-03-10": {6},
		"2024-03-16": {20},
		"2024-03-17": {21},
	}}
	s := newTestAvailability(store, nil)

	week, err := s.WeekOverview(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"2024-03-10": {6}, "2024-03-16": {20}}, week)
}

func TestAvailabilityService_WorksWithController(t *testing.T) {
	store := &fakeStore{hours: map[string][]int{"2024-03-12": {18}}}
	s := newTestAvailability(store, nil)

	c := booking.NewController(booking.NewWindow(s.Today(), 30), booking.DefaultSlotPrice)
	c.SetActiveDate(time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC))

	_, err := c.Refresh(context.Background(), s)
	require.NoError(t, err)

	booked, ok := booking.DescriptorByHour(18)
	require.True(t, ok)
	assert.False(t, c.ToggleSlot(booked.Label).Changed)

	free, ok := booking.DescriptorByHour(19)
	require.True(t, ok)
	assert.True(t, c.ToggleSlot(free.Label).Changed)
}
