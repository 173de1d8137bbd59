package formatting

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/model"
)

// DayRanges is one date with its booked hours merged into contiguous ranges
type DayRanges struct {
	Date   time.Time
	Ranges []string
}

// GroupHours merges hours per date, e.g. 18,19,21 -> "6 PM to 8 PM", "9 PM to 10 PM".
// Dates come out in order.
func GroupHours(hoursByDate map[time.Time][]int) []DayRanges {
	dates := make([]time.Time, 0, len(hoursByDate))
	for d := range hoursByDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	result := make([]DayRanges, 0, len(dates))
	for _, d := range dates {
		hours := append([]int(nil), hoursByDate[d]...)
		sort.Ints(hours)

		day := DayRanges{Date: d}
		for i := 0; i < len(hours); {
			j := i
			for j+1 < len(hours) && hours[j+1] == hours[j]+1 {
				j++
			}
			start := booking.Day(d).Add(time.Duration(hours[i]) * time.Hour)
			end := booking.Day(d).Add(time.Duration(hours[j]+1) * time.Hour)
			day.Ranges = append(day.Ranges, FormatTimeRange(start, end))
			i = j + 1
		}
		result = append(result, day)
	}
	return result
}

func entriesByDate(entries []booking.SelectionEntry) map[time.Time][]int {
	m := make(map[time.Time][]int)
	for _, e := range entries {
		d := booking.Day(e.Date)
		m[d] = append(m[d], e.Hour)
	}
	return m
}

func slotsByDate(slots []*model.BookedSlot) map[time.Time][]int {
	m := make(map[time.Time][]int)
	for _, s := range slots {
		d := booking.Day(s.SlotDate)
		m[d] = append(m[d], s.Hour)
	}
	return m
}

func writeDays(sb *strings.Builder, days []DayRanges) {
	for _, d := range days {
		sb.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", FormatDateWithWeekday(d.Date)))
		for _, r := range d.Ranges {
			sb.WriteString("   • " + r + "\n")
		}
	}
}

// FormatSelection lists the picked slots across all dates
func FormatSelection(entries []booking.SelectionEntry) string {
	if len(entries) == 0 {
		return "No slots selected yet."
	}
	var sb strings.Builder
	writeDays(&sb, GroupHours(entriesByDate(entries)))
	return strings.TrimRight(sb.String(), "\n")
}

// FormatDraft renders the booking summary screen
func FormatDraft(snap booking.DraftSnapshot, teamName string) string {
	var sb strings.Builder
	sb.WriteString("🧾 <b>Booking summary</b>\n\n")
	writeDays(&sb, GroupHours(entriesByDate(snap.Entries)))
	sb.WriteString(fmt.Sprintf("\n🕒 %s, total %s\n", Plural(len(snap.Entries), "slot"), FormatPrice(snap.TotalPrice)))

	mode := GetModeDisplay(snap.Mode)
	sb.WriteString(fmt.Sprintf("%s Type: %s\n", mode.Emoji, mode.Text))

	switch {
	case snap.Funding.Kind == booking.FundingPersonal:
		sb.WriteString("💳 Paid from: personal wallet\n")
	case snap.Funding.Kind == booking.FundingTeam && teamName != "":
		sb.WriteString(fmt.Sprintf("💳 Paid from: team %s\n", html.EscapeString(teamName)))
	case snap.Mode.RequiresTeam():
		sb.WriteString("💳 Paid from: choose a team\n")
	}

	if snap.Mode == booking.ModeTeamChallenge {
		sport := GetSportDisplay(snap.Sport)
		sb.WriteString(fmt.Sprintf("%s Sport: %s\n", sport.Emoji, sport.Text))
	}

	if snap.Mode != "" {
		sb.WriteString(fmt.Sprintf("\n💰 Pay now: <b>%s</b>\n", FormatPrice(snap.Payment.Now)))
		if snap.Payment.Later > 0 {
			sb.WriteString(fmt.Sprintf("⏳ Pay later: %s, once an opponent joins\n", FormatPrice(snap.Payment.Later)))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatBookingShort is one line of the bookings list
func FormatBookingShort(b *model.Booking, index int, now time.Time) string {
	status := GetBookingStatusDisplay(b.DisplayStatus(now))
	mode := GetModeDisplay(b.Mode)

	when := "no slots"
	if first := b.FirstSlotStart(); !first.IsZero() {
		when = FormatDateWithWeekday(first) + ", " + FormatTime(first)
	}

	return fmt.Sprintf(
		"%d. %s %s\n"+
			"   %s %s | %s | %s",
		index,
		status.Emoji,
		when,
		mode.Emoji,
		mode.Text,
		Plural(len(b.Slots), "slot"),
		FormatPrice(b.TotalPrice),
	)
}

// FormatBookingDetails renders a single booking
func FormatBookingDetails(b *model.Booking, now time.Time) string {
	status := GetBookingStatusDisplay(b.DisplayStatus(now))
	payment := GetPaymentStatusDisplay(b.Status)
	mode := GetModeDisplay(b.Mode)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <b>Booking %s</b>\n\n", status.Emoji, ShortID(b.ID.String())))
	writeDays(&sb, GroupHours(slotsByDate(b.Slots)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s Type: %s\n", mode.Emoji, mode.Text))
	if b.TeamName != "" {
		sb.WriteString(fmt.Sprintf("👥 Team: %s\n", html.EscapeString(b.TeamName)))
	}
	if b.Mode == booking.ModeTeamChallenge {
		sport := GetSportDisplay(b.Sport)
		sb.WriteString(fmt.Sprintf("%s Sport: %s\n", sport.Emoji, sport.Text))
	}
	sb.WriteString(fmt.Sprintf("💰 Total: %s\n", FormatPrice(b.TotalPrice)))
	sb.WriteString(fmt.Sprintf("%s Payment: %s", payment.Emoji, payment.Text))
	if b.PaidAmount > 0 {
		sb.WriteString(fmt.Sprintf(" (%s)", FormatPrice(b.PaidAmount)))
	}
	if b.PayableLater > 0 && b.Status == model.BookingStatusReserved {
		sb.WriteString(fmt.Sprintf("\n⏳ Due later: %s", FormatPrice(b.PayableLater)))
	}
	sb.WriteString(fmt.Sprintf("\n📊 Status: %s", status.Text))
	return sb.String()
}

// FormatTransaction is one ledger line
func FormatTransaction(tx *model.WalletTransaction) string {
	d := GetTransactionDisplay(tx.Type)
	line := fmt.Sprintf("%s %s  <b>%s</b>\n   %s",
		d.Emoji, d.Text, FormatSigned(tx.Amount), FormatDateTime(tx.CreatedAt))
	if tx.Description != "" {
		line += " · " + html.EscapeString(tx.Description)
	}
	return line
}

// ShortID shortens a booking UUID for display
func ShortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
