package model

import (
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusReserved  BookingStatus = "reserved"  // challenge waiting for an opponent, nothing paid yet
	BookingStatusPaid      BookingStatus = "paid"      // paid in full from a wallet
	BookingStatusCompleted BookingStatus = "completed" // all slots are in the past
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Active reports whether the booking still holds its slots.
func (s BookingStatus) Active() bool {
	return s == BookingStatusReserved || s == BookingStatusPaid
}

type Booking struct {
	ID           uuid.UUID           `json:"id"`
	UserID       int64               `json:"user_id"`
	TeamID       *int64              `json:"team_id"` // nil for personal bookings
	Mode         booking.BookingMode `json:"mode"`
	Funding      booking.FundingKind `json:"funding"`
	Sport        booking.Sport       `json:"sport"`
	TotalPrice   int                 `json:"total_price"`
	PayableNow   int                 `json:"payable_now"`
	PayableLater int                 `json:"payable_later"`
	PaidAmount   int                 `json:"paid_amount"`
	Status       BookingStatus       `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	// joined, not stored in bookings
	Slots    []*BookedSlot `json:"slots,omitempty"`
	TeamName string        `json:"team_name,omitempty"`
}

// FirstSlotStart returns the start of the earliest slot.
func (b *Booking) FirstSlotStart() time.Time {
	var first time.Time
	for _, s := range b.Slots {
		if first.IsZero() || s.Start().Before(first) {
			first = s.Start()
		}
	}
	return first
}

// LastSlotEnd returns the end of the latest slot.
func (b *Booking) LastSlotEnd() time.Time {
	var last time.Time
	for _, s := range b.Slots {
		if s.End().After(last) {
			last = s.End()
		}
	}
	return last
}

type BookedSlot struct {
	ID        int64     `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	SlotDate  time.Time `json:"slot_date"`
	Hour      int       `json:"hour"`
	Price     int       `json:"price"`
}

func (s *BookedSlot) Start() time.Time {
	return booking.Day(s.SlotDate).Add(time.Duration(s.Hour) * time.Hour)
}

func (s *BookedSlot) End() time.Time {
	return s.Start().Add(time.Hour)
}

// BookingFilter narrows the "my bookings" list.
type BookingFilter string

const (
	FilterAll       BookingFilter = "all"
	FilterPersonal  BookingFilter = "personal"
	FilterTeam      BookingFilter = "team"
	FilterChallenge BookingFilter = "challenge"
)

func ParseBookingFilter(s string) BookingFilter {
	switch BookingFilter(s) {
	case FilterPersonal, FilterTeam, FilterChallenge:
		return BookingFilter(s)
	}
	return FilterAll
}

// DisplayStatus groups bookings the way the list shows them.
type DisplayStatus string

const (
	DisplayUpcoming  DisplayStatus = "upcoming"
	DisplayCompleted DisplayStatus = "completed"
	DisplayCancelled DisplayStatus = "cancelled"
)

func (b *Booking) DisplayStatus(now time.Time) DisplayStatus {
	switch {
	case b.Status == BookingStatusCancelled:
		return DisplayCancelled
	case b.Status == BookingStatusCompleted:
		return DisplayCompleted
	case len(b.Slots) > 0 && !b.LastSlotEnd().After(now):
		return DisplayCompleted
	default:
		return DisplayUpcoming
	}
}
