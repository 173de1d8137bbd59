package common

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/Freeeeeet/turf_bot/internal/validation"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNoMessage       = errors.New("no message in callback")
	ErrInvalidFormat   = errors.New("invalid callback format")
	ErrSessionExpired  = errors.New("booking session expired")
	ErrNoAdminTeams    = errors.New("user administers no teams")
	ErrTooManyRequests = errors.New("too many requests")
)

// ErrorMessage returns the text shown to the user for err
func ErrorMessage(err error) string {
	var fieldErr *validation.FieldError
	var taken *service.SlotTakenError
	if errors.As(err, &fieldErr) {
		return "❌ " + fieldErr.Message
	}

	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, service.ErrUserNotFound):
		return "❌ You are not registered yet. Send /start"
	case errors.Is(err, ErrNoMessage):
		return "❌ Could not process this message"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid button data"
	case errors.Is(err, ErrSessionExpired):
		return "⌛ This booking session has expired. Start again with /book"
	case errors.Is(err, ErrNoAdminTeams):
		return "👥 You are not an admin of any team. Create one with /createteam"
	case errors.Is(err, ErrTooManyRequests):
		return "🐢 Slow down a little and try again"

	case errors.Is(err, booking.ErrEmptySelection):
		return "🕒 Pick at least one slot first"
	case errors.Is(err, booking.ErrModeRequired):
		return "🎯 Choose a booking type first"
	case errors.Is(err, booking.ErrFundingRequired):
		return "💳 Choose how you want to pay"
	case errors.Is(err, booking.ErrTeamRequired):
		return "👥 Choose the team that pays"
	case errors.Is(err, booking.ErrTeamAdminRequired), errors.Is(err, service.ErrNotTeamAdmin):
		return "🔒 Only team admins can book with the team wallet"
	case errors.Is(err, booking.ErrSportNotApplicable):
		return "⚽ Sport can only be chosen for a challenge"
	case errors.Is(err, booking.ErrAlreadyConfirmed):
		return "✅ This booking is already confirmed"
	case errors.Is(err, booking.ErrAvailabilityUnknown):
		return "⚠️ Could not load availability. Tap Retry"

	case errors.As(err, &taken):
		return fmt.Sprintf("⚠️ %s on %s was just booked by someone else. It was removed from your selection",
			taken.Entry.DisplayRange, formatting.FormatDateWithWeekday(taken.Entry.Date))
	case errors.Is(err, service.ErrSlotTaken):
		return "⚠️ One of your slots was just booked by someone else. Please pick again"
	case errors.Is(err, service.ErrSlotInPast):
		return "⏰ One of your slots has already started. Please pick again"
	case errors.Is(err, service.ErrPriceChanged):
		return "💱 Slot prices have changed. Please pick your slots again"
	case errors.Is(err, service.ErrInsufficientFunds):
		return "💸 Not enough balance in the wallet. Top up with /topup"
	case errors.Is(err, service.ErrBookingNotFound):
		return "❌ Booking not found"
	case errors.Is(err, service.ErrNotBookingOwner):
		return "🔒 This booking belongs to someone else"
	case errors.Is(err, service.ErrBookingNotCancellable):
		return "⛔ This booking can no longer be cancelled"
	case errors.Is(err, service.ErrInvalidAmount):
		return "❌ Enter a whole amount between ₹100 and ₹50,000"
	case errors.Is(err, service.ErrTopUpDisabled):
		return "💳 Online top-ups are not available right now"
	case errors.Is(err, service.ErrTeamNotFound):
		return "❌ No team with this code"
	case errors.Is(err, service.ErrNotTeamMember):
		return "🔒 You are not a member of this team"
	case errors.Is(err, service.ErrAlreadyMember):
		return "👥 You are already in this team"
	default:
		return "❌ Something went wrong. Please try again"
	}
}
