package formatting

import (
	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/model"
)

// StatusDisplay is an emoji and a label
type StatusDisplay struct {
	Emoji string
	Text  string
}

func GetBookingStatusDisplay(status model.DisplayStatus) StatusDisplay {
	displays := map[model.DisplayStatus]StatusDisplay{
		model.DisplayUpcoming:  {"🟢", "Upcoming"},
		model.DisplayCompleted: {"✔️", "Completed"},
		model.DisplayCancelled: {"❌", "Cancelled"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Unknown"}
}

func GetPaymentStatusDisplay(status model.BookingStatus) StatusDisplay {
	switch status {
	case model.BookingStatusPaid, model.BookingStatusCompleted:
		return StatusDisplay{"💳", "Paid"}
	case model.BookingStatusReserved:
		return StatusDisplay{"⏳", "Reserved, pay later"}
	case model.BookingStatusCancelled:
		return StatusDisplay{"↩️", "Refunded"}
	}
	return StatusDisplay{"❓", "Unknown"}
}

func GetModeDisplay(mode booking.BookingMode) StatusDisplay {
	switch mode {
	case booking.ModeSelfFull:
		return StatusDisplay{"🙋", "Self booking"}
	case booking.ModeTeamFull:
		return StatusDisplay{"👥", "Team booking"}
	case booking.ModeTeamChallenge:
		return StatusDisplay{"⚔️", "Team challenge"}
	}
	return StatusDisplay{"❓", "Not selected"}
}

func GetSportDisplay(sport booking.Sport) StatusDisplay {
	switch sport {
	case booking.SportFootball:
		return StatusDisplay{"⚽", "Football"}
	case booking.SportCricket:
		return StatusDisplay{"🏏", "Cricket"}
	}
	return StatusDisplay{"❓", string(sport)}
}

func GetTransactionDisplay(t model.TransactionType) StatusDisplay {
	switch t {
	case model.TransactionRecharge:
		return StatusDisplay{"💰", "Top-up"}
	case model.TransactionGroup:
		return StatusDisplay{"🔁", "Team transfer"}
	case model.TransactionBooking:
		return StatusDisplay{"🏟", "Booking"}
	case model.TransactionRefund:
		return StatusDisplay{"↩️", "Refund"}
	}
	return StatusDisplay{"❓", string(t)}
}
