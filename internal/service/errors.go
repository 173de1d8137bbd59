package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
)

var (
	ErrUserNotFound = errors.New("user not found")

	ErrSlotTaken             = errors.New("slot already booked")
	ErrSlotInPast            = errors.New("slot is in the past")
	ErrPriceChanged          = errors.New("slot price changed")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrNotBookingOwner       = errors.New("booking belongs to another user")
	ErrBookingNotCancellable = errors.New("booking can no longer be cancelled")

	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrTopUpDisabled     = errors.New("wallet top-up is not configured")

	ErrTeamNotFound  = errors.New("team not found")
	ErrNotTeamMember = errors.New("user is not a team member")
	ErrNotTeamAdmin  = errors.New("user is not a team admin")
	ErrAlreadyMember = errors.New("user is already a team member")
)

// SlotTakenError names the slot another booking got first
type SlotTakenError struct {
	Entry booking.SelectionEntry
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrSlotTaken, e.Entry.Date.Format(time.DateOnly), e.Entry.SlotLabel)
}

func (e *SlotTakenError) Unwrap() error {
	return ErrSlotTaken
}
