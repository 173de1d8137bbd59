package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"go.uber.org/zap"
)

// BookedHoursStore reads the hours already held by active bookings
type BookedHoursStore interface {
	BookedHours(ctx context.Context, date time.Time) ([]int, error)
	BookedHoursBetween(ctx context.Context, from, to time.Time) (map[string][]int, error)
}

// AvailabilityCache keeps booked hours per day. A miss returns ok == false.
type AvailabilityCache interface {
	Get(ctx context.Context, date time.Time) (hours []int, ok bool, err error)
	Set(ctx context.Context, date time.Time, hours []int) error
	Invalidate(ctx context.Context, dates ...time.Time) error
}

// AvailabilityService answers "which hours of this day are taken" for the slot picker.
// Hours that have already started today are reported as booked.
type AvailabilityService struct {
	store   BookedHoursStore
	cache   AvailabilityCache // optional
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

func NewAvailabilityService(store BookedHoursStore, cache AvailabilityCache, timeout time.Duration, loc *time.Location, logger *zap.Logger) *AvailabilityService {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityService{
		store:   store,
		cache:   cache,
		timeout: timeout,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

var _ booking.AvailabilitySource = (*AvailabilityService)(nil)

// Today returns the current venue day
func (s *AvailabilityService) Today() time.Time {
	return booking.Day(s.now().In(s.loc))
}

func (s *AvailabilityService) FetchAvailability(ctx context.Context, date time.Time) ([]booking.SlotAvailability, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	day := booking.Day(date.In(s.loc))
	hours, err := s.bookedHours(ctx, day)
	if err != nil {
		return nil, err
	}

	return s.statuses(day, hours), nil
}

func (s *AvailabilityService) bookedHours(ctx context.Context, day time.Time) ([]int, error) {
	if s.cache != nil {
		hours, ok, err := s.cache.Get(ctx, day)
		if err != nil {
			s.logger.Warn("Availability cache read failed", zap.Error(err), zap.Time("date", day))
		} else if ok {
			return hours, nil
		}
	}

	hours, err := s.store.BookedHours(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch booked hours: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, day, hours); err != nil {
			s.logger.Warn("Availability cache write failed", zap.Error(err), zap.Time("date", day))
		}
	}
	return hours, nil
}

func (s *AvailabilityService) statuses(day time.Time, booked []int) []booking.SlotAvailability {
	taken := make(map[int]bool, len(booked))
	for _, h := range booked {
		taken[h] = true
	}

	now := s.now().In(s.loc)
	today := booking.SameDay(day, now)

	catalog := booking.GenerateDailyCatalog()
	result := make([]booking.SlotAvailability, 0, len(catalog))
	for _, d := range catalog {
		status := booking.SlotAvailable
		if taken[d.Hour] || (today && d.Hour <= now.Hour()) {
			status = booking.SlotBooked
		}
		result = append(result, booking.SlotAvailability{Label: d.Label, Status: status})
	}
	return result
}

// Invalidate drops cached availability after bookings change
func (s *AvailabilityService) Invalidate(ctx context.Context, dates ...time.Time) {
	if s.cache == nil || len(dates) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, dates...); err != nil {
		s.logger.Warn("Availability cache invalidation failed", zap.Error(err), zap.Int("dates", len(dates)))
	}
}

// WeekOverview returns the booked hours for the 7 days starting at from, keyed by YYYY-MM-DD
func (s *AvailabilityService) WeekOverview(ctx context.Context, from time.Time) (map[string][]int, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := booking.Day(from.In(s.loc))
	end := start.AddDate(0, 0, 6)

	hours, err := s.store.BookedHoursBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch week overview: %w", err)
	}
	return hours, nil
}
