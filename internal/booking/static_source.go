package booking

import (
	"context"
	"time"
)

// StaticAvailability reports every slot as available after a fixed delay.
// Tests wrap it to script booked hours and slow fetches.
type StaticAvailability struct {
	Delay time.Duration
}

func (s StaticAvailability) FetchAvailability(ctx context.Context, date time.Time) ([]SlotAvailability, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	out := make([]SlotAvailability, 0, SlotsPerDay)
	for _, d := range dailyCatalog {
		out = append(out, SlotAvailability{Label: d.Label, Status: SlotAvailable})
	}
	return out, nil
}

// AvailabilityFunc adapts a function to AvailabilitySource.
type AvailabilityFunc func(ctx context.Context, date time.Time) ([]SlotAvailability, error)

func (f AvailabilityFunc) FetchAvailability(ctx context.Context, date time.Time) ([]SlotAvailability, error) {
	return f(ctx, date)
}
