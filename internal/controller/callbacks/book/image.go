package book

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/booking"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/turf_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/turf_bot/internal/render"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WeekGrid collects the week around the active day for the availability chart
func WeekGrid(session *callbacktypes.BookingSession, booked map[string][]int, now time.Time) render.WeekGrid {
	c := session.Selection

	selected := make(map[string][]int)
	for _, e := range c.Entries() {
		key := e.Date.Format(time.DateOnly)
		selected[key] = append(selected[key], e.Hour)
	}

	return render.WeekGrid{
		Start:    booking.StartOfWeek(c.ActiveDate()),
		Booked:   booked,
		Selected: selected,
		Window:   c.Window(),
		Now:      now,
	}
}

// HandleWeekImage sends a picture of the whole week with the user's picks on it
func HandleWeekImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withPicker(ctx, b, callback, h, func(hc *common.HandlerContext, session *callbacktypes.BookingSession) {
		start := booking.StartOfWeek(session.Selection.ActiveDate())

		booked, err := h.AvailabilityService.WeekOverview(hc.Ctx, start)
		if err != nil {
			common.HandleError(hc, err, "week_overview")
			return
		}

		png, err := render.WeekImage(WeekGrid(session, booked, h.Clock().In(h.Location())))
		if err != nil {
			common.HandleError(hc, err, "render_week")
			return
		}

		end := start.AddDate(0, 0, 6)
		caption := fmt.Sprintf("🗓 <b>%s to %s</b>\n🟩 free  🟥 booked  🟦 your picks",
			formatting.FormatDateWithWeekday(start), formatting.FormatDateWithWeekday(end))
		if err := hc.SendPhoto(png, "week.png", caption); err != nil {
			h.Logger.Error("Failed to send week image",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Error(err))
			common.HandleError(hc, err, "send_week_image")
			return
		}
		hc.Answer("")
	})
}
